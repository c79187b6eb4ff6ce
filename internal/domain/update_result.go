package domain

import "time"

// UpdateResult reports the outcome of a single update cycle. It is
// ephemeral: returned to the caller, never persisted.
type UpdateResult struct {
	Success      bool             `json:"success"`
	UpdatedPairs map[Pair]float64 `json:"updated_pairs"`
	Errors       []string         `json:"errors"`
	Timestamp    time.Time        `json:"timestamp"`
}

// PartialSuccess reports whether some pairs were updated despite source
// failures.
func (r UpdateResult) PartialSuccess() bool {
	return !r.Success && len(r.UpdatedPairs) > 0
}
