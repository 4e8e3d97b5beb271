package combat

import (
	"fmt"
	"time"
)

// ActionKind distinguishes cards (once per round) from skills (cooldown only).
type ActionKind int

const (
	KindCard ActionKind = iota
	KindSkill
)

// String returns "card" or "skill".
func (k ActionKind) String() string {
	if k == KindSkill {
		return "skill"
	}
	return "card"
}

// EffectKind identifies what an action does when used.
// The zero value (EffectUnknown) is intentionally invalid.
type EffectKind int

const (
	EffectUnknown            EffectKind = iota
	EffectDamage                        // Amount damage to the opponent
	EffectShield                        // Amount shield on the caster
	EffectHeal                          // Amount hp on the caster
	EffectReduceCardCooldown            // Duration off every caster card cooldown
)

var effectNames = map[EffectKind]string{
	EffectDamage:             "damage",
	EffectShield:             "shield",
	EffectHeal:               "heal",
	EffectReduceCardCooldown: "reduce_card_cooldown",
}

// String returns the content-file name of the effect, or "unknown".
func (k EffectKind) String() string {
	if n, ok := effectNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseEffectKind maps a content-file name to an EffectKind.
//
// Postcondition: returns a non-nil error iff name is not a known effect.
func ParseEffectKind(name string) (EffectKind, error) {
	for k, n := range effectNames {
		if n == name {
			return k, nil
		}
	}
	return EffectUnknown, fmt.Errorf("combat: unknown effect type %q", name)
}

// Effect is the payload of an action.
type Effect struct {
	Kind EffectKind
	// Amount is the magnitude for damage, shield and heal effects.
	Amount int
	// Duration is the magnitude for cooldown-reduction effects.
	Duration time.Duration
}

// Action is a card or skill together with its cooldown.
type Action struct {
	ID          string
	Name        string
	Description string
	Kind        ActionKind
	Effect      Effect
	Cooldown    *Cooldown
}

// NewCard creates a ready card action.
func NewCard(id, name, description string, effect Effect, cooldown time.Duration) *Action {
	return &Action{ID: id, Name: name, Description: description, Kind: KindCard, Effect: effect, Cooldown: NewCooldown(cooldown)}
}

// NewSkill creates a ready skill action.
func NewSkill(id, name, description string, effect Effect, cooldown time.Duration) *Action {
	return &Action{ID: id, Name: name, Description: description, Kind: KindSkill, Effect: effect, Cooldown: NewCooldown(cooldown)}
}

// Ready reports whether the action's cooldown has expired.
func (a *Action) Ready() bool { return a.Cooldown.Ready() }
