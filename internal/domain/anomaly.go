package domain

// SlowBrokerAnomaly is a single round's output record. The detector may
// emit zero, one, or two of these per round (see escalation.Emit).
type SlowBrokerAnomaly struct {
	// Brokers maps each named broker to its first-detected-at epoch ms, as
	// recorded in the scoreboard at the time this anomaly was built.
	Brokers map[BrokerID]int64

	// Fixable is true when the control plane is cleared to auto-remediate.
	Fixable bool

	// RemoveSlowBroker is true for a removal-typed anomaly, false for a
	// demotion-typed one.
	RemoveSlowBroker bool

	// Description is a human-readable summary enumerating each named
	// broker's first-detection time.
	Description string

	// DetectionTimeMs equals the round's nowMs.
	DetectionTimeMs int64
}
