package domain

import (
	"fmt"
	"time"
)

// HistoryRecord is one immutable entry of the append-only rate audit log.
type HistoryRecord struct {
	ID           string      `json:"id"`
	FromCurrency string      `json:"from_currency"`
	ToCurrency   string      `json:"to_currency"`
	Rate         float64     `json:"rate"`
	Timestamp    time.Time   `json:"timestamp"`
	Source       string      `json:"source"`
	Meta         HistoryMeta `json:"meta"`
}

// HistoryMeta carries request diagnostics alongside a history record.
type HistoryMeta struct {
	RequestMS  int64 `json:"request_ms"`
	StatusCode int   `json:"status_code"`
}

// HistoryID derives the unique record id from the pair and a
// high-resolution timestamp.
func HistoryID(from, to string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", from, to, at.UnixNano())
}
