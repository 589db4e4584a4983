// Package scoreboard implements SlownessScoreboard from spec.md §4.4: the
// persistent, in-memory broker->score map and the hysteresis update rule
// that drives the Absent/Suspected/DemoteEligible/RemoveEligible states.
package scoreboard

import "github.com/TeamTap/cruise-control/internal/domain"

// Scoreboard is exclusively owned by the detector instance that created
// it; it is not safe for concurrent use without an external lock (the
// detector provides one).
type Scoreboard struct {
	entries map[domain.BrokerID]domain.ScoreEntry
	cap     int
}

// New creates an empty scoreboard that saturates scores at decommissionScore.
func New(decommissionScore int) *Scoreboard {
	return &Scoreboard{
		entries: make(map[domain.BrokerID]domain.ScoreEntry),
		cap:     decommissionScore,
	}
}

// Update applies one round's anomalous-broker set to the scoreboard,
// following spec.md §4.4's update protocol exactly:
//  1. every anomalous broker is inserted (score=1, firstDetectedAtMs=now)
//     or incremented (saturating at cap).
//  2. every scoreboard broker not in this round's anomalous set is
//     decremented; reaching zero evicts it, clearing its timestamp.
//
// The insert-or-increment pass runs before the decay pass, matching the
// original Java implementation's putIfAbsent-then-compute ordering so the
// first-detected timestamp invariant holds under the same sequencing.
func (s *Scoreboard) Update(anomalous map[domain.BrokerID]bool, nowMs int64) {
	for broker := range anomalous {
		entry, ok := s.entries[broker]
		if !ok {
			s.entries[broker] = domain.ScoreEntry{Score: 1, FirstDetectedAtMs: nowMs}
			continue
		}
		entry.Score = min(entry.Score+1, s.cap)
		s.entries[broker] = entry
	}

	for broker, entry := range s.entries {
		if anomalous[broker] {
			continue
		}
		entry.Score--
		if entry.Score == 0 {
			delete(s.entries, broker)
			continue
		}
		s.entries[broker] = entry
	}
}

// SetCap updates the saturation ceiling applied to future increments. It
// does not retroactively clamp existing entries; a lowered cap only takes
// effect as brokers are next incremented.
func (s *Scoreboard) SetCap(decommissionScore int) {
	s.cap = decommissionScore
}

// Get returns the entry for broker and whether it is present.
func (s *Scoreboard) Get(broker domain.BrokerID) (domain.ScoreEntry, bool) {
	entry, ok := s.entries[broker]
	return entry, ok
}

// Snapshot returns a copy of every scoreboard entry, safe for the caller
// to retain after the lock protecting the scoreboard is released.
func (s *Scoreboard) Snapshot() map[domain.BrokerID]domain.ScoreEntry {
	out := make(map[domain.BrokerID]domain.ScoreEntry, len(s.entries))
	for broker, entry := range s.entries {
		out[broker] = entry
	}
	return out
}

// Clone deep-copies the scoreboard so a round can be computed against a
// detached copy and only committed back on success (spec.md §5 atomicity).
func (s *Scoreboard) Clone() *Scoreboard {
	clone := &Scoreboard{
		entries: s.Snapshot(),
		cap:     s.cap,
	}
	return clone
}

// State derives the escalation band for a score, per spec.md §4.4.
func State(score, demotionScore, decommissionScore int) domain.State {
	switch {
	case score <= 0:
		return domain.StateAbsent
	case score >= decommissionScore:
		return domain.StateRemoveEligible
	case score >= demotionScore:
		return domain.StateDemoteEligible
	default:
		return domain.StateSuspected
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
