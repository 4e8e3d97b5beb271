// Package dice provides the randomness abstraction used by the battle engine.
// Opponent timing and dodge rolls draw from an injected Source so tests can
// substitute a deterministic one.
package dice

// Source is the randomness provider for every random decision in a battle.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Chance reports whether a roll against probability p succeeds.
// The roll is made at 1/10000 resolution. No value is drawn from src when
// p <= 0, and p >= 1 always succeeds without drawing.
//
// Precondition: src must be non-nil.
// Postcondition: Returns false for p <= 0 and true for p >= 1.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Intn(chanceResolution) < int(p*chanceResolution)
}

const chanceResolution = 10000
