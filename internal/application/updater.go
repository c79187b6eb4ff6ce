package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// MultiSourceLabel marks a snapshot merged while more than one source was
// failing, so no single surviving source name applies.
const MultiSourceLabel = "MultiSource"

// UpdateService runs one fetch cycle across the configured rate sources,
// isolating per-source failures, appending history for every fetched pair
// and merging the successes into the snapshot.
type UpdateService struct {
	store    RateStore
	sources  []RateSource
	clock    Clock
	observer UpdateObserver
	log      *zap.Logger
}

type UpdateOption func(*UpdateService)

func WithClock(c Clock) UpdateOption {
	return func(s *UpdateService) { s.clock = c }
}

func WithObserver(o UpdateObserver) UpdateOption {
	return func(s *UpdateService) { s.observer = o }
}

func WithLogger(l *zap.Logger) UpdateOption {
	return func(s *UpdateService) { s.log = l }
}

func NewUpdateService(store RateStore, sources []RateSource, opts ...UpdateOption) *UpdateService {
	s := &UpdateService{store: store, sources: sources}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.observer == nil {
		s.observer = NoopObserver{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Sources lists the names of the configured rate sources.
func (s *UpdateService) Sources() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}

func (s *UpdateService) knownSource(name string) bool {
	for _, src := range s.sources {
		if strings.EqualFold(name, src.Name()) {
			return true
		}
	}
	return false
}

// CurrentRates returns the latest snapshot. It never fails.
func (s *UpdateService) CurrentRates() domain.Snapshot {
	return s.store.LoadSnapshot()
}

// RunUpdate executes one update cycle. If selected is non-empty only the
// source with that name runs; an unknown name is rejected up front with a
// ValidationError. Source failures are folded into the result; beyond the
// selection check the returned error is non-nil only for a failed
// snapshot write.
func (s *UpdateService) RunUpdate(ctx context.Context, selected string) (domain.UpdateResult, error) {
	if selected != "" && !s.knownSource(selected) {
		return domain.UpdateResult{}, &domain.ValidationError{
			Field:  "source",
			Reason: fmt.Sprintf("unknown source %q; available: %s", selected, strings.Join(s.Sources(), ", ")),
		}
	}

	started := s.clock.Now()
	log := s.log.With(zap.String("cycle_id", uuid.NewString()))
	log.Info("rates update started", zap.String("selected_source", selected))

	res := domain.UpdateResult{
		Success:      true,
		UpdatedPairs: map[domain.Pair]float64{},
		Timestamp:    started,
	}
	var succeeded []string

	for _, src := range s.sources {
		if selected != "" && !strings.EqualFold(selected, src.Name()) {
			continue
		}
		rates, err := s.fetchOne(ctx, src)
		if err != nil {
			res.Success = false
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", src.Name(), err))
			s.observer.ObserveFetchError(src.Name(), fetchKind(err))
			log.Error("source fetch failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		for p, rate := range rates {
			res.UpdatedPairs[p] = rate
		}
		succeeded = append(succeeded, src.Name())
		log.Info("source fetch ok", zap.String("source", src.Name()), zap.Int("pairs", len(rates)))
	}

	// An empty cycle writes nothing: no pairs means no snapshot churn.
	if len(res.UpdatedPairs) > 0 {
		label := sourceLabel(succeeded, len(res.Errors))
		if err := s.store.SaveSnapshot(res.UpdatedPairs, label); err != nil {
			s.observer.ObserveCycle(res, s.clock.Now().Sub(started))
			return res, err
		}
		log.Info("snapshot merged",
			zap.Int("pairs", len(res.UpdatedPairs)),
			zap.String("source", label))
	}

	s.observer.ObserveCycle(res, s.clock.Now().Sub(started))
	log.Info("rates update completed",
		zap.Bool("success", res.Success),
		zap.Int("updated_pairs", len(res.UpdatedPairs)),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

// fetchOne runs a single source and appends history for every fetched pair
// strictly before the caller merges the snapshot. Any failure mid-stream,
// including a history write error, voids this source's contribution.
func (s *UpdateService) fetchOne(ctx context.Context, src RateSource) (map[domain.Pair]float64, error) {
	rates, err := src.FetchRates(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range sortedPairs(rates) {
		if err := s.store.AppendHistory(p, rates[p], src.Name()); err != nil {
			return nil, err
		}
	}
	return rates, nil
}

func sortedPairs(m map[domain.Pair]float64) []domain.Pair {
	out := make([]domain.Pair, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sourceLabel names the merge on the snapshot: every source succeeded →
// all names joined, exactly one failed → the survivors' names, more than
// one failure → a generic multi-source label.
func sourceLabel(succeeded []string, failures int) string {
	if failures > 1 {
		return MultiSourceLabel
	}
	return strings.Join(succeeded, "+")
}

func fetchKind(err error) domain.FetchKind {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return domain.FetchUnrecognized
}
