// Package extractor implements MetricExtractor from spec.md §4.1: deriving
// the flush and per-byte metrics for each non-negligible-traffic broker.
package extractor

import "github.com/TeamTap/cruise-control/internal/domain"

// flushNoiseFloor excludes near-zero historical flush samples that would
// otherwise skew the percentile base toward a degenerate low value.
const flushNoiseFloor = 5.0

// Extracted is the four per-broker mappings MetricExtractor produces.
type Extracted struct {
	CurrentFlush   map[domain.BrokerID]float64
	HistoryFlush   map[domain.BrokerID][]float64
	CurrentPerByte map[domain.BrokerID]float64
	HistoryPerByte map[domain.BrokerID][]float64

	// Skipped lists brokers excluded this round for negligible traffic,
	// kept only so the caller can log it (spec.md §4.1).
	Skipped []domain.BrokerID
}

// Extract builds Extracted from this round's snapshots and histories,
// skipping any broker whose current total ingress is below threshold.
// A broker present in current but absent from histories is treated as
// having an empty history: the history test cannot fire for it, but the
// peer test still can (spec.md §4.1 edge case).
func Extract(current map[domain.BrokerID]domain.MetricSnapshot, histories map[domain.BrokerID]domain.MetricHistory, bytesInRateDetectionThreshold float64) Extracted {
	out := Extracted{
		CurrentFlush:   make(map[domain.BrokerID]float64),
		HistoryFlush:   make(map[domain.BrokerID][]float64),
		CurrentPerByte: make(map[domain.BrokerID]float64),
		HistoryPerByte: make(map[domain.BrokerID][]float64),
	}

	for broker, snapshot := range current {
		totalBytesIn := snapshot.TotalBytesIn()
		if totalBytesIn < bytesInRateDetectionThreshold {
			out.Skipped = append(out.Skipped, broker)
			continue
		}

		out.CurrentFlush[broker] = snapshot.LogFlushP999Ms
		out.CurrentPerByte[broker] = snapshot.LogFlushP999Ms / totalBytesIn

		history := histories[broker]
		out.HistoryFlush[broker] = filterFlushHistory(history.LogFlushP999Ms)
		out.HistoryPerByte[broker] = perByteHistory(history, bytesInRateDetectionThreshold)
	}

	return out
}

func filterFlushHistory(flush []float64) []float64 {
	filtered := make([]float64, 0, len(flush))
	for _, v := range flush {
		if v > flushNoiseFloor {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func perByteHistory(history domain.MetricHistory, threshold float64) []float64 {
	n := len(history.LogFlushP999Ms)
	filtered := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		totalBytesIn := history.LeaderBytesIn[i] + history.ReplicationBytesIn[i]
		if totalBytesIn >= threshold {
			filtered = append(filtered, history.LogFlushP999Ms[i]/totalBytesIn)
		}
	}
	return filtered
}
