// Package domain holds the types shared across the slow-broker detector:
// broker identifiers, per-round metric inputs, the scoreboard entry shape,
// and the anomaly record the detector emits.
package domain

import "time"

// BrokerID identifies a broker within the cluster. It is opaque to the
// detector: any comparable value the host uses to key its metric maps
// works, most commonly a Kafka broker integer ID formatted as a string.
type BrokerID string

// MetricSnapshot is a broker's current-round metric values.
type MetricSnapshot struct {
	LogFlushP999Ms     float64
	LeaderBytesIn      float64
	ReplicationBytesIn float64
}

// TotalBytesIn is the combined ingress rate used by the negligible-traffic
// gate and the per-byte metric's divisor.
func (m MetricSnapshot) TotalBytesIn() float64 {
	return m.LeaderBytesIn + m.ReplicationBytesIn
}

// MetricHistory is a broker's historical samples. All three slices are
// equal length; index i refers to the same historical sample across all
// three. The detector reads each history once per round and does not
// mutate or retain it.
type MetricHistory struct {
	LogFlushP999Ms     []float64
	LeaderBytesIn      []float64
	ReplicationBytesIn []float64
}

// Len returns the number of historical samples.
func (h MetricHistory) Len() int {
	return len(h.LogFlushP999Ms)
}

// ScoreEntry is a scoreboard row persisted across rounds in memory.
type ScoreEntry struct {
	Score             int
	FirstDetectedAtMs int64
}

// State is the per-broker escalation band derived from ScoreEntry.Score.
type State int

const (
	StateAbsent State = iota
	StateSuspected
	StateDemoteEligible
	StateRemoveEligible
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateSuspected:
		return "suspected"
	case StateDemoteEligible:
		return "demote_eligible"
	case StateRemoveEligible:
		return "remove_eligible"
	default:
		return "unknown"
	}
}

// FirstDetectedAt converts the stored epoch-ms timestamp to a time.Time in
// UTC, used when rendering anomaly descriptions.
func (e ScoreEntry) FirstDetectedAt() time.Time {
	return time.UnixMilli(e.FirstDetectedAtMs).UTC()
}
