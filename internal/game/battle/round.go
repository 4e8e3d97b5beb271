package battle

import "time"

// State is the Engine's position in its round lifecycle.
type State int

const (
	StateIdle State = iota
	StateRoundActive
	StateRoundSettling
	StateFinished
)

// String returns a label for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRoundActive:
		return "round_active"
	case StateRoundSettling:
		return "round_settling"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Round is one fixed-length wall-clock window.
//
// Invariant: End == Start + round duration.
type Round struct {
	Index int
	Start time.Time
	End   time.Time
}

// Remaining returns the time left in the round at now, floored at zero.
func (r Round) Remaining(now time.Time) time.Duration {
	if d := r.End.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Over reports whether now has reached the round end.
func (r Round) Over(now time.Time) bool {
	return !now.Before(r.End)
}

// roundFlags are reset when a round becomes active.
type roundFlags struct {
	playerUsedCard bool
	playerActed    bool
	opponentActed  bool
	// opponentAt is the planned opponent instant; valid only when opponentPlanned.
	opponentAt      time.Time
	opponentPlanned bool
}
