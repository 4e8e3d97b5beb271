package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

type fixedSrc struct {
	val   int
	calls int
}

func (f *fixedSrc) Intn(_ int) int {
	f.calls++
	return f.val
}

// TestCryptoSource_Intn_InRange verifies the postcondition:
// every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies the precondition:
// Intn panics when called with n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestChance_ZeroNeverDraws(t *testing.T) {
	src := &fixedSrc{val: 0}
	assert.False(t, dice.Chance(src, 0))
	assert.False(t, dice.Chance(src, -0.5))
	assert.Equal(t, 0, src.calls)
}

func TestChance_OneAlwaysSucceeds(t *testing.T) {
	src := &fixedSrc{val: 9999}
	assert.True(t, dice.Chance(src, 1))
	assert.Equal(t, 0, src.calls)
}

func TestChance_Threshold(t *testing.T) {
	// 10% → draws below 1000 succeed.
	assert.True(t, dice.Chance(&fixedSrc{val: 999}, 0.1))
	assert.False(t, dice.Chance(&fixedSrc{val: 1000}, 0.1))
}

// TestChance_Property verifies that a draw of v succeeds iff v < p*10000.
func TestChance_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(0, 9999).Draw(rt, "v")
		pct := rapid.IntRange(1, 99).Draw(rt, "pct")
		p := float64(pct) / 100
		got := dice.Chance(&fixedSrc{val: v}, p)
		assert.Equal(rt, v < pct*100, got)
	})
}

func TestLoggedSource_LogsDraws(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	src := dice.NewLoggedSource(&fixedSrc{val: 4}, zap.New(core))

	assert.Equal(t, 4, src.Intn(10))
	entries := logs.FilterMessage("random draw").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.EqualValues(t, 10, fields["bound"])
		assert.EqualValues(t, 4, fields["value"])
	}
}
