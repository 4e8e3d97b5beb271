// Package ai decides when the opponent acts within a round.
package ai

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// DefaultActionBuffer is the closing slice of every round in which the opponent never acts.
const DefaultActionBuffer = 300 * time.Millisecond

// PlanAction picks the instant within [start, end) at which the opponent may
// use its action this round.
//
// The earliest candidate is start + remaining (the action's cooldown must have
// expired). The latest is end - buffer. When the window is empty the earliest
// instant is returned as-is; otherwise a delay is drawn uniformly in whole
// milliseconds from [0, latest-earliest].
//
// Precondition: start < end; remaining >= 0; buffer >= 0; src non-nil.
// Postcondition: ok is false iff start+remaining >= end. When ok,
// start+remaining <= at, and at <= end-buffer whenever start+remaining < end-buffer.
func PlanAction(start, end time.Time, remaining, buffer time.Duration, src dice.Source) (at time.Time, ok bool) {
	if remaining < 0 {
		remaining = 0
	}
	earliest := start.Add(remaining)
	if !earliest.Before(end) {
		return time.Time{}, false
	}
	latest := end.Add(-buffer)
	if !earliest.Before(latest) {
		return earliest, true
	}
	windowMs := int(latest.Sub(earliest) / time.Millisecond)
	if windowMs <= 0 {
		return earliest, true
	}
	delay := time.Duration(src.Intn(windowMs+1)) * time.Millisecond
	return earliest.Add(delay), true
}
