package domain

import (
	"encoding/json"
	"time"
)

// Quote is the latest known rate of one pair. UpdatedAt is the moment the
// quote was merged into the snapshot, not the moment of the network response.
type Quote struct {
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}

// Snapshot is the single-version rate cache: exactly one Quote per pair,
// plus metadata about the most recent successful merge.
type Snapshot struct {
	Pairs       map[Pair]Quote
	LastRefresh time.Time
	Source      string
}

// Reserved top-level snapshot keys; everything else is a pair key.
const (
	snapshotKeyLastRefresh = "last_refresh"
	snapshotKeySource      = "source"
)

// NewSnapshot returns a structurally valid empty snapshot.
func NewSnapshot(now time.Time) Snapshot {
	return Snapshot{Pairs: map[Pair]Quote{}, LastRefresh: now}
}

// Rate resolves the from→to exchange rate. The direct pair is preferred;
// otherwise the reciprocal of the reverse pair is derived on the fly.
func (s Snapshot) Rate(from, to string) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	if q, ok := s.Pairs[MakePair(from, to)]; ok && q.Rate > 0 {
		return q.Rate, nil
	}
	if q, ok := s.Pairs[MakePair(to, from)]; ok && q.Rate > 0 {
		return 1.0 / q.Rate, nil
	}
	return 0, ErrRateUnavailable
}

// MarshalJSON flattens the pair map to the top level next to the
// reserved last_refresh and source keys.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Pairs)+2)
	for p, q := range s.Pairs {
		out[string(p)] = q
	}
	out[snapshotKeyLastRefresh] = s.LastRefresh
	out[snapshotKeySource] = s.Source
	return json.Marshal(out)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Pairs = make(map[Pair]Quote, len(raw))
	for k, v := range raw {
		switch k {
		case snapshotKeyLastRefresh:
			if err := json.Unmarshal(v, &s.LastRefresh); err != nil {
				return err
			}
		case snapshotKeySource:
			if err := json.Unmarshal(v, &s.Source); err != nil {
				return err
			}
		default:
			var q Quote
			if err := json.Unmarshal(v, &q); err != nil {
				return err
			}
			s.Pairs[Pair(k)] = q
		}
	}
	return nil
}
