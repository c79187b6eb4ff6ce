// Package scheduler owns the single background goroutine that runs the
// periodic rate refresh.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// UpdateFunc runs one full update cycle. Once started it runs to
// completion; per-source timeouts bound its worst-case duration.
type UpdateFunc func(ctx context.Context) (domain.UpdateResult, error)

const defaultStopGrace = 5 * time.Second

// Scheduler invokes an UpdateFunc on a fixed interval from one named
// background goroutine. Start is idempotent; Stop waits a bounded grace
// period for the loop to confirm shutdown.
type Scheduler struct {
	run UpdateFunc
	log *zap.Logger

	// Grace bounds how long Stop waits for the loop to exit. Zero means
	// the default of a few seconds.
	Grace time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func New(run UpdateFunc, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{run: run, log: log}
}

// Start launches the periodic loop. Calling Start while the loop is
// already running is a no-op: it logs a warning and never spawns a
// second loop.
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.log.Warn("scheduler already running")
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(interval, s.stop, s.done)
	s.log.Info("scheduler started", zap.Duration("interval", interval))
}

// Stop signals the loop and waits up to the grace period for it to exit.
// It returns either way; a cycle already in flight is allowed to finish,
// but no new cycle starts after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	grace := s.Grace
	if grace <= 0 {
		grace = defaultStopGrace
	}
	select {
	case <-done:
		s.log.Info("scheduler stopped")
	case <-time.After(grace):
		s.log.Warn("scheduler shutdown not confirmed within grace period",
			zap.Duration("grace", grace))
	}
}

func (s *Scheduler) loop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		s.runOnce()
		// Interruptible wait: a stop request never blocks for the
		// remainder of the interval.
		select {
		case <-stop:
			return
		case <-time.After(interval):
		}
	}
}

// runOnce executes one cycle. Error returns and panics are both
// absorbed so the loop can never die silently.
func (s *Scheduler) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduled update panicked", zap.Any("panic", r))
		}
	}()
	s.log.Info("scheduled rates update started")
	res, err := s.run(context.Background())
	if err != nil {
		s.log.Error("scheduled update failed", zap.Error(err))
		return
	}
	status := "success"
	if !res.Success {
		status = "partial success with errors"
	}
	s.log.Info("scheduled update completed",
		zap.String("status", status),
		zap.Int("updated_pairs", len(res.UpdatedPairs)))
}
