package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestCooldown_NewIsReady(t *testing.T) {
	c := combat.NewCooldown(3 * time.Second)
	assert.True(t, c.Ready())
	assert.Equal(t, 0, c.RemainingSeconds())
}

func TestCooldown_TriggerTickSequence(t *testing.T) {
	c := combat.NewCooldown(3000 * time.Millisecond)
	c.Trigger()
	assert.Equal(t, 3000*time.Millisecond, c.Remaining())
	assert.False(t, c.Ready())

	assert.False(t, c.Tick(1500*time.Millisecond))
	assert.Equal(t, 1500*time.Millisecond, c.Remaining())
	assert.False(t, c.Ready())

	assert.True(t, c.Tick(1500*time.Millisecond), "second tick must report the ready transition")
	assert.Equal(t, time.Duration(0), c.Remaining())
	assert.True(t, c.Ready())
}

func TestCooldown_TickZeroIsNoop(t *testing.T) {
	c := combat.NewCooldown(time.Second)
	c.Trigger()
	assert.False(t, c.Tick(0))
	assert.Equal(t, time.Second, c.Remaining())

	ready := combat.NewCooldown(time.Second)
	assert.False(t, ready.Tick(0), "tick(0) on a ready cooldown is not a transition")
	assert.False(t, ready.Tick(time.Second), "ticking an already ready cooldown is not a transition")
}

func TestCooldown_TickFloorsAtZero(t *testing.T) {
	c := combat.NewCooldown(time.Second)
	c.Trigger()
	assert.True(t, c.Tick(10*time.Second))
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestCooldown_Reduce(t *testing.T) {
	c := combat.NewCooldown(3 * time.Second)
	c.Trigger()
	c.Reduce(time.Second)
	assert.Equal(t, 2*time.Second, c.Remaining())
	c.Reduce(5 * time.Second)
	assert.Equal(t, time.Duration(0), c.Remaining())
	c.Reduce(-time.Second)
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestCooldown_WithLockout(t *testing.T) {
	c := combat.NewCooldown(3 * time.Second).WithLockout(time.Second)
	assert.False(t, c.Ready())
	assert.Equal(t, time.Second, c.Remaining())

	long := combat.NewCooldown(time.Second).WithLockout(5 * time.Second)
	assert.Equal(t, 5*time.Second, long.Remaining(), "lockout may exceed the total cooldown")

	neg := combat.NewCooldown(time.Second).WithLockout(-time.Second)
	assert.True(t, neg.Ready())
}

func TestCooldown_RemainingSecondsRoundsUp(t *testing.T) {
	c := combat.NewCooldown(3 * time.Second)
	c.Trigger()
	c.Tick(2001 * time.Millisecond)
	assert.Equal(t, 1, c.RemainingSeconds())
	c.Tick(998 * time.Millisecond)
	assert.Equal(t, 1, c.RemainingSeconds(), "1ms remaining still displays as 1s")
}

// TestCooldown_Property_NeverNegative verifies remaining time never underflows
// and Trigger always resets to the configured total.
func TestCooldown_Property_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := time.Duration(rapid.IntRange(0, 30000).Draw(rt, "total_ms")) * time.Millisecond
		c := combat.NewCooldown(total)
		steps := rapid.SliceOf(rapid.IntRange(-100, 5000)).Draw(rt, "steps")
		for i, ms := range steps {
			if i%3 == 0 {
				c.Trigger()
				assert.Equal(rt, total, c.Remaining())
			}
			c.Tick(time.Duration(ms) * time.Millisecond)
			assert.GreaterOrEqual(rt, c.Remaining(), time.Duration(0))
			assert.Equal(rt, c.Remaining() == 0, c.Ready())
		}
	})
}
