// Package escalation implements EscalationPolicy from spec.md §4.5: turning
// this round's post-update scoreboard state into zero, one, or two
// SlowBrokerAnomaly records, gated by the fleet-wide fixability check.
package escalation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TeamTap/cruise-control/internal/domain"
)

// Params carries the tunables EscalationPolicy needs from Config.
type Params struct {
	DemotionScore             int
	DecommissionScore         int
	SelfHealingUnfixableRatio float64
	SlowBrokerRemovalEnabled  bool
}

// Emit partitions anomalous into toRemove/toDemote using the scoreboard's
// post-update scores, applies the fixability gate, and returns the
// anomalies for this round. clusterSize is |history|, not the non-skipped
// subset (spec.md §9's resolved ambiguity).
func Emit(anomalous map[domain.BrokerID]bool, entries map[domain.BrokerID]domain.ScoreEntry, clusterSize int, nowMs int64, p Params) []domain.SlowBrokerAnomaly {
	toRemove := make(map[domain.BrokerID]domain.ScoreEntry)
	toDemote := make(map[domain.BrokerID]domain.ScoreEntry)

	for broker := range anomalous {
		entry, ok := entries[broker]
		if !ok {
			continue
		}
		switch {
		case entry.Score == p.DecommissionScore:
			toRemove[broker] = entry
		case entry.Score >= p.DemotionScore:
			toDemote[broker] = entry
		}
	}

	flagged := len(toRemove) + len(toDemote)
	if flagged == 0 {
		return nil
	}

	if float64(flagged) > float64(clusterSize)*p.SelfHealingUnfixableRatio {
		union := make(map[domain.BrokerID]domain.ScoreEntry, flagged)
		for b, e := range toRemove {
			union[b] = e
		}
		for b, e := range toDemote {
			union[b] = e
		}
		return []domain.SlowBrokerAnomaly{buildAnomaly(union, false, false, nowMs)}
	}

	var anomalies []domain.SlowBrokerAnomaly
	if len(toDemote) > 0 {
		anomalies = append(anomalies, buildAnomaly(toDemote, true, false, nowMs))
	}
	if len(toRemove) > 0 {
		anomalies = append(anomalies, buildAnomaly(toRemove, p.SlowBrokerRemovalEnabled, true, nowMs))
	}
	return anomalies
}

func buildAnomaly(entries map[domain.BrokerID]domain.ScoreEntry, fixable, removeSlowBroker bool, nowMs int64) domain.SlowBrokerAnomaly {
	brokers := make(map[domain.BrokerID]int64, len(entries))
	ids := make([]string, 0, len(entries))
	for broker, entry := range entries {
		brokers[broker] = entry.FirstDetectedAtMs
		ids = append(ids, string(broker))
	}
	sort.Strings(ids)

	return domain.SlowBrokerAnomaly{
		Brokers:          brokers,
		Fixable:          fixable,
		RemoveSlowBroker: removeSlowBroker,
		Description:      describe(ids, entries),
		DetectionTimeMs:  nowMs,
	}
}

func describe(ids []string, entries map[domain.BrokerID]domain.ScoreEntry) string {
	fragments := make([]string, 0, len(ids))
	for _, id := range ids {
		entry := entries[domain.BrokerID(id)]
		fragments = append(fragments, fmt.Sprintf("Broker %s's performance degraded at %s",
			id, entry.FirstDetectedAt().Format("2006-01-02T15:04:05Z")))
	}
	return "{" + strings.Join(fragments, ", ") + "}"
}
