package combat

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Outcome reports what one effect application did.
type Outcome struct {
	Effect EffectKind
	// Target is the name of the combatant the effect landed on.
	Target string
	// Dodged is true when a damage effect was negated by the target's evasion roll.
	Dodged   bool
	Absorbed int
	Dealt    int
	Shielded int
	Healed   int
	Reduced  time.Duration
}

// Resolver applies effects to combatants. Dodge rolls draw from its Source.
type Resolver struct {
	src dice.Source
}

// NewResolver creates a Resolver drawing randomness from src.
//
// Precondition: src must be non-nil.
func NewResolver(src dice.Source) *Resolver {
	return &Resolver{src: src}
}

// Apply resolves e as used by caster against opponent. Damage lands on the
// opponent; shield and heal land on the caster; cooldown reduction shortens
// every cooldown in casterCards and touches no combatant.
//
// Precondition: caster and opponent must be non-nil.
// Postcondition: exactly one combatant or card set is mutated, or none on a dodge.
func (r *Resolver) Apply(e Effect, caster, opponent Combatant, casterCards []*Action) Outcome {
	switch e.Kind {
	case EffectDamage:
		return r.Strike(e.Amount, opponent)
	case EffectShield:
		caster.AddShield(e.Amount)
		return Outcome{Effect: EffectShield, Target: caster.Name(), Shielded: e.Amount}
	case EffectHeal:
		return Outcome{Effect: EffectHeal, Target: caster.Name(), Healed: caster.Heal(e.Amount)}
	case EffectReduceCardCooldown:
		for _, c := range casterCards {
			c.Cooldown.Reduce(e.Duration)
		}
		return Outcome{Effect: EffectReduceCardCooldown, Target: caster.Name(), Reduced: e.Duration}
	default:
		return Outcome{Effect: e.Kind}
	}
}

// Strike rolls target's dodge, then applies amount damage through its shield.
//
// Postcondition: on a dodge, target is unchanged and Dodged is true; otherwise
// Absorbed == min(amount, old shield) and Dealt == amount - Absorbed.
func (r *Resolver) Strike(amount int, target Combatant) Outcome {
	out := Outcome{Effect: EffectDamage, Target: target.Name()}
	if dice.Chance(r.src, target.DodgeChance()) {
		out.Dodged = true
		return out
	}
	if amount < 0 {
		amount = 0
	}
	out.Absorbed = target.TakeDamage(amount)
	out.Dealt = amount - out.Absorbed
	return out
}
