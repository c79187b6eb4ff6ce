package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrRateUnavailable  = errors.New("exchange rate unavailable")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrBadCredentials   = errors.New("invalid username or password")
)

// FetchKind classifies a failed source fetch.
type FetchKind string

const (
	FetchTimeout      FetchKind = "timeout"
	FetchConnection   FetchKind = "connection"
	FetchHTTPStatus   FetchKind = "http_status"
	FetchAuth         FetchKind = "auth"
	FetchRateLimited  FetchKind = "rate_limited"
	FetchUnrecognized FetchKind = "unrecognized"
)

// FetchError is a single failed network round trip against an external
// rate source. It never escapes the update coordinator.
type FetchError struct {
	Kind   FetchKind
	Status int // HTTP status for FetchHTTPStatus, zero otherwise
	Msg    string
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("http status %d", e.Status)
	}
	return e.Msg
}

// ValidationError signals malformed caller input, e.g. a pair key without
// the canonical separator. It is a programming error in the caller and is
// propagated, never swallowed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError is a failed durable write. Losing a write silently risks
// data loss, so it is always propagated.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CurrencyNotFoundError is returned for codes absent from the registry.
type CurrencyNotFoundError struct {
	Code string
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}

// WalletNotFoundError is returned when a portfolio holds no wallet for
// the requested currency.
type WalletNotFoundError struct {
	Code string
}

func (e *WalletNotFoundError) Error() string {
	return fmt.Sprintf("no wallet for %q; one is created on first buy", e.Code)
}

// InsufficientFundsError is returned by withdrawals exceeding the balance.
type InsufficientFundsError struct {
	Code      string
	Available string
	Required  string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: %s %s available, %s required",
		e.Available, e.Code, e.Required)
}
