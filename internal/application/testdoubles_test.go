package application

import (
	"context"
	"sync"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type fakeSource struct {
	name  string
	rates map[domain.Pair]float64
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchRates(context.Context) (map[domain.Pair]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[domain.Pair]float64, len(f.rates))
	for p, r := range f.rates {
		out[p] = r
	}
	return out, nil
}

type savedSnapshot struct {
	pairs  map[domain.Pair]float64
	source string
}

type historyEntry struct {
	pair   domain.Pair
	rate   float64
	source string
}

// fakeRateStore records the call sequence so tests can assert that history
// lands before the snapshot merge.
type fakeRateStore struct {
	mu       sync.Mutex
	snapshot domain.Snapshot
	saves    []savedSnapshot
	history  []historyEntry
	calls    []string // "history" / "save" in invocation order
	saveErr  error
	histErr  error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{snapshot: domain.NewSnapshot(time.Now())}
}

func (f *fakeRateStore) LoadSnapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

func (f *fakeRateStore) SaveSnapshot(pairs map[domain.Pair]float64, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := make(map[domain.Pair]float64, len(pairs))
	for p, r := range pairs {
		copied[p] = r
		f.snapshot.Pairs[p] = domain.Quote{Rate: r, Source: source}
	}
	f.snapshot.Source = source
	f.saves = append(f.saves, savedSnapshot{pairs: copied, source: source})
	f.calls = append(f.calls, "save")
	return nil
}

func (f *fakeRateStore) AppendHistory(pair domain.Pair, rate float64, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.histErr != nil {
		return f.histErr
	}
	f.history = append(f.history, historyEntry{pair: pair, rate: rate, source: source})
	f.calls = append(f.calls, "history")
	return nil
}

func (f *fakeRateStore) IsFresh(updatedAt time.Time, ttl time.Duration) bool {
	return time.Since(updatedAt) < ttl
}

type memUsers struct {
	users  []domain.User
	nextID int64
}

func (m *memUsers) FindByUsername(username string) (domain.User, bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (m *memUsers) NextID() (int64, error) {
	m.nextID++
	return m.nextID, nil
}

func (m *memUsers) Add(u domain.User) error {
	m.users = append(m.users, u)
	return nil
}

type memPortfolios struct {
	byUser map[int64]domain.Portfolio
}

func (m *memPortfolios) Get(userID int64) (domain.Portfolio, bool, error) {
	p, ok := m.byUser[userID]
	return p, ok, nil
}

func (m *memPortfolios) Put(p domain.Portfolio) error {
	if m.byUser == nil {
		m.byUser = map[int64]domain.Portfolio{}
	}
	m.byUser[p.UserID] = p
	return nil
}

type memSession struct {
	sess domain.Session
	set  bool
}

func (m *memSession) Current() (domain.Session, bool, error) { return m.sess, m.set, nil }

func (m *memSession) Save(s domain.Session) error {
	m.sess, m.set = s, true
	return nil
}

func (m *memSession) Clear() error {
	m.sess, m.set = domain.Session{}, false
	return nil
}
