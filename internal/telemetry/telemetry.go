// Package telemetry exposes Prometheus metrics for the detection loop,
// mirroring the round/anomaly counters a host control plane would already
// be scraping for its other subsystems.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every series the detector updates once per round.
type Metrics struct {
	roundsTotal       *prometheus.CounterVec
	roundDuration     prometheus.Histogram
	anomaliesTotal    *prometheus.CounterVec
	scoreboardSize    prometheus.Gauge
}

// New registers the detector's series on reg. Passing prometheus.NewRegistry()
// keeps tests hermetic; passing nil creates the series without registering
// them on any registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		roundsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slowbroker_rounds_total",
			Help: "Detection rounds completed, partitioned by outcome.",
		}, []string{"outcome"}),
		roundDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "slowbroker_round_duration_seconds",
			Help:    "Wall-clock duration of a single detection round.",
			Buckets: prometheus.DefBuckets,
		}),
		anomaliesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slowbroker_anomalies_total",
			Help: "Anomalies emitted, partitioned by type.",
		}, []string{"type"}),
		scoreboardSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "slowbroker_scoreboard_size",
			Help: "Current number of brokers present in the scoreboard.",
		}),
	}
}

// ObserveRound records one round's duration and outcome.
func (m *Metrics) ObserveRound(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.roundsTotal.WithLabelValues(outcome).Inc()
	m.roundDuration.Observe(d.Seconds())
}

// ObserveAnomaly increments the counter for one emitted anomaly's type.
func (m *Metrics) ObserveAnomaly(anomalyType string) {
	if m == nil {
		return
	}
	m.anomaliesTotal.WithLabelValues(anomalyType).Inc()
}

// SetScoreboardSize records the scoreboard's size after a round commits.
func (m *Metrics) SetScoreboardSize(n int) {
	if m == nil {
		return
	}
	m.scoreboardSize.Set(float64(n))
}
