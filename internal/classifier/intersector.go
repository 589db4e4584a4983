package classifier

import "github.com/TeamTap/cruise-control/internal/domain"

// Intersect implements AnomalyIntersector (spec.md §4.3): a broker is
// metric-anomalous this round only if it was flagged on both metrics. This
// must stay a strict intersection — flush alone false-positives on
// high-load brokers, per-byte alone false-positives on idle brokers.
func Intersect(flushFlagged, perByteFlagged map[domain.BrokerID]bool) map[domain.BrokerID]bool {
	anomalous := make(map[domain.BrokerID]bool)
	for broker := range flushFlagged {
		if perByteFlagged[broker] {
			anomalous[broker] = true
		}
	}
	return anomalous
}
