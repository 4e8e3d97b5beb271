package combat

import "time"

// Cooldown is a countdown attached to an action, advanced by elapsed wall-clock time.
//
// Invariant: remaining >= 0. remaining may exceed total only while an initial
// lockout set by WithLockout is still running.
type Cooldown struct {
	total     time.Duration
	remaining time.Duration
}

// NewCooldown returns a ready Cooldown that resets to total when triggered.
//
// Precondition: total >= 0.
// Postcondition: Ready() is true.
func NewCooldown(total time.Duration) *Cooldown {
	if total < 0 {
		total = 0
	}
	return &Cooldown{total: total}
}

// WithLockout sets an initial remaining time and returns c for chaining.
// Negative values are treated as zero.
//
// Postcondition: Remaining() == max(0, d).
func (c *Cooldown) WithLockout(d time.Duration) *Cooldown {
	if d < 0 {
		d = 0
	}
	c.remaining = d
	return c
}

// Total returns the configured cooldown length.
func (c *Cooldown) Total() time.Duration { return c.total }

// Remaining returns the time left before the action may be used again.
func (c *Cooldown) Remaining() time.Duration { return c.remaining }

// Ready reports whether the owning action may be used.
func (c *Cooldown) Ready() bool { return c.remaining == 0 }

// Trigger starts the cooldown from its full length, regardless of the current remaining time.
//
// Postcondition: Remaining() == Total().
func (c *Cooldown) Trigger() { c.remaining = c.total }

// Tick advances the cooldown by elapsed and reports whether this call made it ready.
// A zero or negative elapsed is a no-op and never reports a transition.
//
// Postcondition: Remaining() >= 0.
func (c *Cooldown) Tick(elapsed time.Duration) bool {
	if elapsed <= 0 || c.remaining == 0 {
		return false
	}
	c.remaining = saturatingSub(c.remaining, elapsed)
	return c.remaining == 0
}

// Reduce shortens the remaining time by amount, floored at zero.
//
// Postcondition: Remaining() >= 0.
func (c *Cooldown) Reduce(amount time.Duration) {
	if amount <= 0 {
		return
	}
	c.remaining = saturatingSub(c.remaining, amount)
}

// RemainingSeconds returns the remaining time rounded up to whole seconds, for display.
//
// Postcondition: Returns 0 iff Ready().
func (c *Cooldown) RemainingSeconds() int {
	if c.remaining == 0 {
		return 0
	}
	return int((c.remaining + time.Second - 1) / time.Second)
}

func saturatingSub(a, b time.Duration) time.Duration {
	if b >= a {
		return 0
	}
	return a - b
}
