package application

import (
	"context"
	"time"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// RateSource fetches quotes from one external provider and normalizes them
// into canonical pairs. A call is exactly one network round trip, bounded
// by the configured timeout; there are no partial results from a failed call.
type RateSource interface {
	Name() string
	FetchRates(ctx context.Context) (map[domain.Pair]float64, error)
}

// RateStore is the durable rate cache plus the append-only audit history.
type RateStore interface {
	// LoadSnapshot never fails; missing or corrupt state degrades to an
	// empty, structurally valid snapshot.
	LoadSnapshot() domain.Snapshot
	SaveSnapshot(pairs map[domain.Pair]float64, source string) error
	AppendHistory(pair domain.Pair, rate float64, source string) error
	IsFresh(updatedAt time.Time, ttl time.Duration) bool
}

// UserRepo persists registered users.
type UserRepo interface {
	FindByUsername(username string) (domain.User, bool, error)
	NextID() (int64, error)
	Add(u domain.User) error
}

// PortfolioRepo persists per-user portfolios.
type PortfolioRepo interface {
	Get(userID int64) (domain.Portfolio, bool, error)
	Put(p domain.Portfolio) error
}

// SessionStore keeps the logged-in user between CLI invocations.
type SessionStore interface {
	Current() (domain.Session, bool, error)
	Save(s domain.Session) error
	Clear() error
}

// RefreshGuard deduplicates externally triggered refreshes.
type RefreshGuard interface {
	// TryReserve returns true if key was absent and is now reserved.
	TryReserve(ctx context.Context, key string) (bool, error)
}

// NoopGuard always admits the refresh; used when Redis is disabled.
type NoopGuard struct{}

func (NoopGuard) TryReserve(context.Context, string) (bool, error) { return true, nil }

// UpdateObserver receives update-cycle telemetry.
type UpdateObserver interface {
	ObserveCycle(res domain.UpdateResult, took time.Duration)
	ObserveFetchError(source string, kind domain.FetchKind)
}

// NoopObserver discards telemetry.
type NoopObserver struct{}

func (NoopObserver) ObserveCycle(domain.UpdateResult, time.Duration) {}
func (NoopObserver) ObserveFetchError(string, domain.FetchKind)      {}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }
