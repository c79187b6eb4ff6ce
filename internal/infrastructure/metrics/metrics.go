package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

// UpdateMetrics collects update-cycle telemetry for the /metrics endpoint.
type UpdateMetrics struct {
	CyclesTotal       *prometheus.CounterVec
	FetchErrorsTotal  *prometheus.CounterVec
	UpdatedPairsTotal prometheus.Counter
	CycleDuration     prometheus.Histogram
}

var _ application.UpdateObserver = (*UpdateMetrics)(nil)

func NewUpdateMetrics() *UpdateMetrics {
	return &UpdateMetrics{
		CyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_update_cycles_total",
				Help: "Update cycles by outcome.",
			},
			[]string{"result"},
		),
		FetchErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_source_fetch_errors_total",
				Help: "Failed source fetches by source and error kind.",
			},
			[]string{"source", "kind"},
		),
		UpdatedPairsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rates_updated_pairs_total",
				Help: "Pairs merged into the snapshot.",
			},
		),
		CycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rates_update_cycle_duration_seconds",
				Help:    "Wall-clock duration of one update cycle.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *UpdateMetrics) ObserveCycle(res domain.UpdateResult, took time.Duration) {
	result := "success"
	switch {
	case res.Success:
	case len(res.UpdatedPairs) > 0:
		result = "partial"
	default:
		result = "failed"
	}
	m.CyclesTotal.WithLabelValues(result).Inc()
	m.UpdatedPairsTotal.Add(float64(len(res.UpdatedPairs)))
	m.CycleDuration.Observe(took.Seconds())
}

func (m *UpdateMetrics) ObserveFetchError(source string, kind domain.FetchKind) {
	m.FetchErrorsTotal.WithLabelValues(source, string(kind)).Inc()
}
