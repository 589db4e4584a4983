package domain

import "errors"

var (
	// ErrConfigRejected wraps any tunable that fails parsing or range
	// validation. Raised only from Configure, never from DetectRound.
	ErrConfigRejected = errors.New("configuration rejected")

	// ErrRoundFailed marks a round that panicked or returned an unexpected
	// error partway through. The caller still receives an empty anomaly
	// set; the scoreboard is left exactly as it was before the round.
	ErrRoundFailed = errors.New("detection round failed")
)
