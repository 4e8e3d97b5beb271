package combat

import (
	"math"

	"github.com/google/uuid"
)

// Combatant is the capability set shared by the player and every opponent variant.
type Combatant interface {
	ID() string
	Name() string
	HP() int
	MaxHP() int
	Speed() int
	Shield() int
	// AddShield raises the damage-absorption buffer by amount.
	AddShield(amount int)
	// ClearShield zeroes the shield. Called at round boundaries only.
	ClearShield()
	// TakeDamage absorbs through the shield first and returns the absorbed amount.
	TakeDamage(amount int) int
	// Heal raises hp by at most amount, capped at MaxHP, and returns the amount healed.
	Heal(amount int) int
	// DodgeChance is the probability in [0, 1] that an incoming attack is negated.
	DodgeChance() float64
	IsAlive() bool
}

// Stats holds the state common to all combatants and implements every
// Combatant method except DodgeChance.
//
// Invariant: 0 <= hp <= maxHP; shield >= 0.
type Stats struct {
	id     string
	name   string
	hp     int
	maxHP  int
	speed  int
	shield int
}

// NewStats returns full-health Stats with a fresh unique ID.
//
// Precondition: maxHP >= 1.
// Postcondition: HP() == MaxHP() == maxHP; Shield() == 0.
func NewStats(name string, maxHP, speed int) Stats {
	return Stats{
		id:    uuid.New().String(),
		name:  name,
		hp:    maxHP,
		maxHP: maxHP,
		speed: speed,
	}
}

func (s *Stats) ID() string   { return s.id }
func (s *Stats) Name() string { return s.name }
func (s *Stats) HP() int      { return s.hp }
func (s *Stats) MaxHP() int   { return s.maxHP }
func (s *Stats) Speed() int   { return s.speed }
func (s *Stats) Shield() int  { return s.shield }

// IsAlive reports whether hp is above zero.
func (s *Stats) IsAlive() bool { return s.hp > 0 }

// AddShield raises the shield. Non-positive amounts are ignored.
func (s *Stats) AddShield(amount int) {
	if amount > 0 {
		s.shield += amount
	}
}

// ClearShield zeroes the shield.
func (s *Stats) ClearShield() { s.shield = 0 }

// TakeDamage consumes min(amount, shield) from the shield, then reduces hp by
// the remainder, flooring at zero.
//
// Precondition: amount >= 0; negative amounts are treated as zero.
// Postcondition: returns absorbed == min(amount, old shield);
// HP() == max(0, old hp - (amount - absorbed)).
func (s *Stats) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	absorbed := min(amount, s.shield)
	s.shield -= absorbed
	s.hp = max(0, s.hp-(amount-absorbed))
	return absorbed
}

// Heal raises hp by amount capped at MaxHP.
//
// Postcondition: returns HP() - old hp, which is 0 when already at full health.
func (s *Stats) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := s.hp
	s.hp = min(s.maxHP, s.hp+amount)
	return s.hp - before
}

// PlainOpponent has no passive: it never dodges.
type PlainOpponent struct {
	Stats
}

// NewPlainOpponent creates a full-health opponent without passives.
func NewPlainOpponent(name string, maxHP, speed int) *PlainOpponent {
	return &PlainOpponent{Stats: NewStats(name, maxHP, speed)}
}

// DodgeChance always returns 0.
func (p *PlainOpponent) DodgeChance() float64 { return 0 }

// EvasiveOpponent negates each incoming attack with a fixed probability.
type EvasiveOpponent struct {
	Stats
	dodge float64
}

// NewEvasiveOpponent creates an opponent that dodges with probability dodge, clamped to [0, 1].
func NewEvasiveOpponent(name string, maxHP, speed int, dodge float64) *EvasiveOpponent {
	return &EvasiveOpponent{Stats: NewStats(name, maxHP, speed), dodge: clampChance(dodge)}
}

// DodgeChance returns the configured evasion probability.
func (e *EvasiveOpponent) DodgeChance() float64 { return e.dodge }

// DodgeFunc computes a dodge probability from the opponent's current state.
// ok is false when no value could be computed.
type DodgeFunc func(name string, hp, maxHP int) (chance float64, ok bool)

// ScriptedOpponent asks a DodgeFunc for its evasion probability on every attack,
// falling back to a static chance when the function declines.
type ScriptedOpponent struct {
	Stats
	fallback float64
	dodge    DodgeFunc
}

// NewScriptedOpponent creates an opponent whose DodgeChance is computed by fn.
// A nil fn behaves like an EvasiveOpponent with the fallback chance.
func NewScriptedOpponent(name string, maxHP, speed int, fallback float64, fn DodgeFunc) *ScriptedOpponent {
	return &ScriptedOpponent{
		Stats:    NewStats(name, maxHP, speed),
		fallback: clampChance(fallback),
		dodge:    fn,
	}
}

// DodgeChance returns fn's result clamped to [0, 1], or the fallback.
func (s *ScriptedOpponent) DodgeChance() float64 {
	if s.dodge == nil {
		return s.fallback
	}
	chance, ok := s.dodge(s.name, s.hp, s.maxHP)
	if !ok {
		return s.fallback
	}
	return clampChance(chance)
}

func clampChance(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
