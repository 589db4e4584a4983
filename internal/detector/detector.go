// Package detector wires MetricExtractor, PercentileClassifier,
// AnomalyIntersector, SlownessScoreboard, and EscalationPolicy into the
// single entry point a host scheduler calls once per round: DetectRound.
package detector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TeamTap/cruise-control/internal/audit"
	"github.com/TeamTap/cruise-control/internal/classifier"
	"github.com/TeamTap/cruise-control/internal/config"
	"github.com/TeamTap/cruise-control/internal/domain"
	"github.com/TeamTap/cruise-control/internal/escalation"
	"github.com/TeamTap/cruise-control/internal/extractor"
	"github.com/TeamTap/cruise-control/internal/scoreboard"
	"github.com/TeamTap/cruise-control/internal/telemetry"
)

// Detector holds the scoreboard and configuration that persist across
// rounds. The zero value is not usable; construct with New.
type Detector struct {
	mu sync.Mutex

	cfg   config.Config
	board *scoreboard.Scoreboard
	log   *zap.Logger
	stats DetectorStats

	metrics *telemetry.Metrics
	sink    audit.Sink
}

// DetectorStats is a point-in-time, in-process health snapshot. It has no
// HTTP surface of its own; a host exposes it however it exposes its other
// internal metrics.
type DetectorStats struct {
	ScoreboardSize    int
	SuspectedCount    int
	DemoteEligible    int
	RemoveEligible    int
	LastRoundDuration time.Duration
	LastRoundAnomalyN int
}

// Option configures a Detector at construction time.
type Option func(*Detector)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) { d.log = l }
}

// WithMetrics attaches a telemetry.Metrics instance; nil is a no-op.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(d *Detector) { d.metrics = m }
}

// New constructs a Detector with default configuration and an empty
// scoreboard.
func New(opts ...Option) *Detector {
	cfg := config.Default()
	d := &Detector{
		cfg:   cfg,
		board: scoreboard.New(cfg.DecommissionScore),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RegisterAuditSink attaches an optional sink that records every anomaly
// emitted by a successful round. Passing nil disables auditing.
func (d *Detector) RegisterAuditSink(sink audit.Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = sink
}

// Configure validates and applies a new set of tunables. It rejects the
// call atomically: on error, the detector's prior configuration and
// scoreboard are unchanged. Configure never alters the scoreboard's
// contents, but a wider decommissionScore changes the cap future rounds
// saturate at.
func (d *Detector) Configure(options map[string]interface{}) error {
	cfg, err := config.FromOptions(options)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.board.SetCap(cfg.DecommissionScore)
	return nil
}

// DetectRound runs one detection round. history's key set defines
// clusterSize for the fixability gate; current may name a subset of
// history's brokers. nowMs stamps any newly-detected broker's
// firstDetectedAtMs.
//
// If anything inside a round panics, the panic is recovered, logged at
// Warn, and the round behaves as if it had not happened: the caller gets
// an empty anomaly set and the scoreboard retains its pre-round state.
func (d *Detector) DetectRound(history map[domain.BrokerID]domain.MetricHistory, current map[domain.BrokerID]domain.MetricSnapshot, nowMs int64) []domain.SlowBrokerAnomaly {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	d.log.Info("slow broker detection started")

	anomalies, err := d.runRound(history, current, nowMs)

	elapsed := time.Since(start)
	if err != nil {
		d.log.Warn("slow broker detection round failed", zap.Error(err))
		d.metrics.ObserveRound("failed", elapsed)
		return nil
	}

	d.log.Info("slow broker detection finished", zap.Int("anomalies", len(anomalies)), zap.Duration("duration", elapsed))
	d.metrics.ObserveRound("ok", elapsed)
	for _, a := range anomalies {
		d.metrics.ObserveAnomaly(anomalyType(a))
	}
	d.metrics.SetScoreboardSize(len(d.board.Snapshot()))
	d.recordStats(anomalies, elapsed)

	if d.sink != nil {
		for _, a := range anomalies {
			if err := d.sink.Record(context.Background(), a); err != nil {
				d.log.Warn("audit sink record failed", zap.Error(err))
			}
		}
	}

	return anomalies
}

// runRound computes the round against a detached clone of the scoreboard
// and only commits the clone back on success, so a panic midway leaves
// d.board untouched (spec's atomic-update-or-discard requirement).
func (d *Detector) runRound(history map[domain.BrokerID]domain.MetricHistory, current map[domain.BrokerID]domain.MetricSnapshot, nowMs int64) (anomalies []domain.SlowBrokerAnomaly, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrRoundFailed, r)
		}
	}()

	extracted := extractor.Extract(current, history, d.cfg.BytesInRateDetectionThreshold)

	flushFlagged := classifier.Flag(extracted.CurrentFlush, extracted.HistoryFlush, classifier.Params{
		HistoryPercentile: d.cfg.MetricHistoryPercentile,
		HistoryMargin:     d.cfg.MetricHistoryMargin,
		PeerPercentile:    d.cfg.PeerMetricPercentile,
		PeerMargin:        d.cfg.PeerMetricMargin,
	})
	perByteFlagged := classifier.Flag(extracted.CurrentPerByte, extracted.HistoryPerByte, classifier.Params{
		HistoryPercentile: d.cfg.MetricHistoryPercentile,
		HistoryMargin:     d.cfg.MetricHistoryMargin,
		PeerPercentile:    d.cfg.PeerMetricPercentile,
		PeerMargin:        d.cfg.PeerMetricMargin,
	})
	anomalous := classifier.Intersect(flushFlagged, perByteFlagged)

	working := d.board.Clone()
	working.Update(anomalous, nowMs)

	anomalies = escalation.Emit(anomalous, working.Snapshot(), len(history), nowMs, escalation.Params{
		DemotionScore:             d.cfg.DemotionScore,
		DecommissionScore:         d.cfg.DecommissionScore,
		SelfHealingUnfixableRatio: d.cfg.SelfHealingUnfixableRatio,
		SlowBrokerRemovalEnabled:  d.cfg.SlowBrokerRemovalEnabled,
	})

	d.board = working
	return anomalies, nil
}

func (d *Detector) recordStats(anomalies []domain.SlowBrokerAnomaly, elapsed time.Duration) {
	stats := DetectorStats{LastRoundDuration: elapsed, LastRoundAnomalyN: len(anomalies)}
	for _, entry := range d.board.Snapshot() {
		stats.ScoreboardSize++
		switch scoreboard.State(entry.Score, d.cfg.DemotionScore, d.cfg.DecommissionScore) {
		case domain.StateSuspected:
			stats.SuspectedCount++
		case domain.StateDemoteEligible:
			stats.DemoteEligible++
		case domain.StateRemoveEligible:
			stats.RemoveEligible++
		}
	}
	d.stats = stats
}

// Stats returns the most recent round's health snapshot.
func (d *Detector) Stats() DetectorStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func anomalyType(a domain.SlowBrokerAnomaly) string {
	switch {
	case !a.Fixable && !a.RemoveSlowBroker:
		return "unfixable"
	case a.RemoveSlowBroker:
		return "remove"
	default:
		return "demote"
	}
}
