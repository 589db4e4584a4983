// Package classifier implements PercentileClassifier and AnomalyIntersector
// from spec.md §4.2–§4.3: per-metric flagging against a broker's own
// history and against its current peers, then intersected across the two
// metrics of interest.
package classifier

import "github.com/TeamTap/cruise-control/internal/domain"

// Params are the four classifier tunables, decoupled from internal/config
// so this package stays free of a dependency on it.
type Params struct {
	HistoryPercentile float64
	HistoryMargin     float64
	PeerPercentile    float64
	PeerMargin        float64
}

// Flag runs both the history test and the peer test for one metric and
// returns the set of brokers flagged by either. current holds every
// non-skipped broker's current value for the metric; history holds each
// broker's filtered historical samples (may be absent or empty, in which
// case the history test simply cannot fire for that broker).
func Flag(current map[domain.BrokerID]float64, history map[domain.BrokerID][]float64, p Params) map[domain.BrokerID]bool {
	flagged := make(map[domain.BrokerID]bool)

	for broker, currentValue := range current {
		hist := history[broker]
		if !DataSufficient(len(hist), p.HistoryPercentile) {
			continue
		}
		base := Percentile(hist, p.HistoryPercentile)
		if currentValue > base*p.HistoryMargin {
			flagged[broker] = true
		}
	}

	if DataSufficient(len(current), p.PeerPercentile) {
		values := make([]float64, 0, len(current))
		for _, v := range current {
			values = append(values, v)
		}
		base := Percentile(values, p.PeerPercentile)
		for broker, currentValue := range current {
			if currentValue > base*p.PeerMargin {
				flagged[broker] = true
			}
		}
	}

	return flagged
}
