package escalation

import (
	"testing"

	"github.com/TeamTap/cruise-control/internal/domain"
)

func defaultParams() Params {
	return Params{DemotionScore: 5, DecommissionScore: 50, SelfHealingUnfixableRatio: 0.1, SlowBrokerRemovalEnabled: false}
}

// Scenario B: single broker at demotionScore emits one fixable demote anomaly.
func TestEmit_ScenarioB_DemotionAnomaly(t *testing.T) {
	anomalous := map[domain.BrokerID]bool{"x": true}
	entries := map[domain.BrokerID]domain.ScoreEntry{"x": {Score: 5, FirstDetectedAtMs: 1000}}

	got := Emit(anomalous, entries, 10, 5000, defaultParams())
	if len(got) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(got))
	}
	a := got[0]
	if !a.Fixable || a.RemoveSlowBroker {
		t.Errorf("expected fixable demote anomaly, got %+v", a)
	}
	if a.Brokers["x"] != 1000 {
		t.Errorf("expected first-detected 1000, got %d", a.Brokers["x"])
	}
}

// Scenario C: broker saturated at decommissionScore emits a removal anomaly
// whose fixability equals the configured flag, and no separate demote anomaly.
func TestEmit_ScenarioC_RemovalAnomaly(t *testing.T) {
	anomalous := map[domain.BrokerID]bool{"x": true}
	entries := map[domain.BrokerID]domain.ScoreEntry{"x": {Score: 50, FirstDetectedAtMs: 1000}}

	params := defaultParams()
	params.SlowBrokerRemovalEnabled = true
	got := Emit(anomalous, entries, 10, 5000, params)
	if len(got) != 1 {
		t.Fatalf("expected 1 anomaly, got %d", len(got))
	}
	a := got[0]
	if !a.RemoveSlowBroker || !a.Fixable {
		t.Errorf("expected fixable removal anomaly, got %+v", a)
	}
}

// Scenario D: fleet-wide gate fires when flagged exceeds clusterSize*ratio.
func TestEmit_ScenarioD_FixabilityGate(t *testing.T) {
	anomalous := map[domain.BrokerID]bool{"a": true, "b": true}
	entries := map[domain.BrokerID]domain.ScoreEntry{
		"a": {Score: 5, FirstDetectedAtMs: 1000},
		"b": {Score: 5, FirstDetectedAtMs: 2000},
	}
	// clusterSize=10, ratio=0.1 -> threshold 1; flagged=2 > 1, gate fires.
	got := Emit(anomalous, entries, 10, 5000, defaultParams())
	if len(got) != 1 {
		t.Fatalf("expected single gated anomaly, got %d", len(got))
	}
	a := got[0]
	if a.Fixable || a.RemoveSlowBroker {
		t.Errorf("expected unfixable, non-removal anomaly, got %+v", a)
	}
	if len(a.Brokers) != 2 {
		t.Errorf("expected union of both brokers, got %v", a.Brokers)
	}
}

func TestEmit_BelowDemotionScoreEmitsNothing(t *testing.T) {
	anomalous := map[domain.BrokerID]bool{"x": true}
	entries := map[domain.BrokerID]domain.ScoreEntry{"x": {Score: 1, FirstDetectedAtMs: 1000}}
	got := Emit(anomalous, entries, 10, 5000, defaultParams())
	if len(got) != 0 {
		t.Errorf("expected no anomalies, got %v", got)
	}
}

func TestEmit_BothBandsPresentBelowGateEmitsTwo(t *testing.T) {
	anomalous := map[domain.BrokerID]bool{"a": true, "b": true}
	entries := map[domain.BrokerID]domain.ScoreEntry{
		"a": {Score: 5, FirstDetectedAtMs: 1000},
		"b": {Score: 50, FirstDetectedAtMs: 2000},
	}
	// clusterSize large enough that the gate does not fire.
	got := Emit(anomalous, entries, 1000, 5000, defaultParams())
	if len(got) != 2 {
		t.Fatalf("expected 2 anomalies (demote + remove), got %d", len(got))
	}
	var sawDemote, sawRemove bool
	for _, a := range got {
		if a.RemoveSlowBroker {
			sawRemove = true
		} else {
			sawDemote = true
		}
	}
	if !sawDemote || !sawRemove {
		t.Errorf("expected one demote and one remove anomaly, got %+v", got)
	}
}

func TestEmit_DescriptionFormat(t *testing.T) {
	anomalous := map[domain.BrokerID]bool{"3": true}
	entries := map[domain.BrokerID]domain.ScoreEntry{"3": {Score: 5, FirstDetectedAtMs: 0}}
	got := Emit(anomalous, entries, 10, 5000, defaultParams())
	want := "{Broker 3's performance degraded at 1970-01-01T00:00:00Z}"
	if got[0].Description != want {
		t.Errorf("got %q, want %q", got[0].Description, want)
	}
}
