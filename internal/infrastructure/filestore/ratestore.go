// Package filestore persists application state as JSON files with
// atomic temp-then-rename writes.
package filestore

import (
	"sync"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// RateStore is the durable rate cache (latest snapshot) plus the
// append-only audit history. Writers to each file are serialized by a
// per-file mutex; each write is additionally atomic on its own, so
// readers never need a lock.
type RateStore struct {
	snapshotPath string
	historyPath  string
	now          func() time.Time

	snapMu sync.Mutex
	histMu sync.Mutex
}

var _ application.RateStore = (*RateStore)(nil)

type RateStoreOption func(*RateStore)

// WithNow injects the clock; tests use it to pin freshness boundaries.
func WithNow(now func() time.Time) RateStoreOption {
	return func(s *RateStore) { s.now = now }
}

func NewRateStore(snapshotPath, historyPath string, opts ...RateStoreOption) *RateStore {
	s := &RateStore{snapshotPath: snapshotPath, historyPath: historyPath}
	for _, opt := range opts {
		opt(s)
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// LoadSnapshot returns the cached snapshot, or a structurally valid empty
// one when the file is absent, unreadable or corrupt. It never fails.
func (s *RateStore) LoadSnapshot() domain.Snapshot {
	var snap domain.Snapshot
	if !readJSONFile(s.snapshotPath, &snap) {
		return domain.NewSnapshot(s.now())
	}
	if snap.Pairs == nil {
		snap.Pairs = map[domain.Pair]domain.Quote{}
	}
	if snap.LastRefresh.IsZero() {
		snap.LastRefresh = s.now()
	}
	return snap
}

// SaveSnapshot merges the given pairs over the current snapshot (one
// quote per pair, a merge overwrites), stamps them with the merge time
// and source, and rewrites the file atomically.
func (s *RateStore) SaveSnapshot(pairs map[domain.Pair]float64, source string) error {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	snap := s.LoadSnapshot()
	now := s.now()
	for p, rate := range pairs {
		snap.Pairs[p] = domain.Quote{Rate: rate, UpdatedAt: now, Source: source}
	}
	snap.LastRefresh = now
	snap.Source = source
	return writeFileAtomic(s.snapshotPath, snap)
}

// AppendHistory appends one immutable record for a fetched rate. A pair
// key without the canonical separator is a caller bug and is rejected
// with a ValidationError.
func (s *RateStore) AppendHistory(pair domain.Pair, rate float64, source string) error {
	from, to, ok := domain.SplitPair(pair)
	if !ok {
		return &domain.ValidationError{
			Field:  "pair",
			Reason: "must be <FROM>" + domain.PairSeparator + "<TO>, got " + string(pair),
		}
	}

	s.histMu.Lock()
	defer s.histMu.Unlock()

	history := s.LoadHistory()
	now := s.now()
	history = append(history, domain.HistoryRecord{
		ID:           domain.HistoryID(from, to, now),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Timestamp:    now,
		Source:       source,
		Meta:         domain.HistoryMeta{StatusCode: 200},
	})
	return writeFileAtomic(s.historyPath, history)
}

// LoadHistory returns all history records in append order; missing or
// corrupt files degrade to an empty list.
func (s *RateStore) LoadHistory() []domain.HistoryRecord {
	var history []domain.HistoryRecord
	if !readJSONFile(s.historyPath, &history) {
		return nil
	}
	return history
}

// IsFresh reports whether a record updated at updatedAt is younger than
// ttl. Exact equality is not fresh.
func (s *RateStore) IsFresh(updatedAt time.Time, ttl time.Duration) bool {
	return s.now().Sub(updatedAt) < ttl
}
