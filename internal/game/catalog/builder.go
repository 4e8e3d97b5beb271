package catalog

import (
	"fmt"
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Loadout describes the player's stats and equipped templates.
type Loadout struct {
	Name   string
	MaxHP  int
	Speed  int
	Cards  []string
	Skills []string
}

// DodgeHooks evaluates named dodge hooks for scripted enemies.
type DodgeHooks interface {
	// DodgeChance calls hook with the enemy's state; ok is false when the hook
	// is missing or failed.
	DodgeChance(hook, name string, hp, maxHP int) (chance float64, ok bool)
}

// NewCard materialises the card template id. The card is ready unless lockout > 0.
//
// Postcondition: returns an error wrapping ErrUnknownID when id is not registered.
func NewCard(reg *Registry, id string, lockout time.Duration) (*combat.Action, error) {
	tmpl, ok := reg.Card(id)
	if !ok {
		return nil, fmt.Errorf("card %q: %w", id, ErrUnknownID)
	}
	effect, err := tmpl.Effect.Effect()
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", id, err)
	}
	cd, err := tmpl.CooldownDuration()
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", id, err)
	}
	card := combat.NewCard(tmpl.ID, tmpl.Name, tmpl.Description, effect, cd)
	card.Cooldown.WithLockout(lockout)
	return card, nil
}

// NewSkill materialises the skill template id with its initial cooldown applied.
//
// Postcondition: returns an error wrapping ErrUnknownID when id is not registered.
func NewSkill(reg *Registry, id string) (*combat.Action, error) {
	tmpl, ok := reg.Skill(id)
	if !ok {
		return nil, fmt.Errorf("skill %q: %w", id, ErrUnknownID)
	}
	effect, err := tmpl.Effect.Effect()
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", id, err)
	}
	cd, err := parseDuration("cooldown", tmpl.Cooldown, 0)
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", id, err)
	}
	initial, err := parseDuration("initial_cooldown", tmpl.InitialCooldown, 0)
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", id, err)
	}
	skill := combat.NewSkill(tmpl.ID, tmpl.Name, tmpl.Description, effect, cd)
	skill.Cooldown.WithLockout(initial)
	return skill, nil
}

// NewPlayer builds the player described by lo. Every card starts locked for cardLockout.
//
// Precondition: lo.MaxHP >= 1.
// Postcondition: returns combat.ErrSkillCapacity (wrapped) when lo names more
// skills than can be equipped, and ErrUnknownID for unregistered templates.
func NewPlayer(lo Loadout, reg *Registry, cardLockout time.Duration) (*combat.Player, error) {
	p := combat.NewPlayer(lo.Name, lo.MaxHP, lo.Speed)
	for _, id := range lo.Cards {
		card, err := NewCard(reg, id, cardLockout)
		if err != nil {
			return nil, fmt.Errorf("building player %q: %w", lo.Name, err)
		}
		p.AddCard(card)
	}
	for _, id := range lo.Skills {
		skill, err := NewSkill(reg, id)
		if err != nil {
			return nil, fmt.Errorf("building player %q: %w", lo.Name, err)
		}
		if err := p.EquipSkill(skill); err != nil {
			return nil, fmt.Errorf("building player %q: %w", lo.Name, err)
		}
	}
	return p, nil
}

// NewOpponent builds the enemy template id and its single card, locked for cardLockout.
// hooks may be nil, in which case scripted enemies use their static dodge chance.
//
// Postcondition: returns an error wrapping ErrUnknownID when id or its card is not registered.
func NewOpponent(reg *Registry, id string, hooks DodgeHooks, cardLockout time.Duration) (combat.Combatant, *combat.Action, error) {
	tmpl, ok := reg.Enemy(id)
	if !ok {
		return nil, nil, fmt.Errorf("enemy %q: %w", id, ErrUnknownID)
	}
	card, err := NewCard(reg, tmpl.Card, cardLockout)
	if err != nil {
		return nil, nil, fmt.Errorf("enemy %q: %w", id, err)
	}

	var opp combat.Combatant
	switch tmpl.Kind {
	case KindEvasive:
		opp = combat.NewEvasiveOpponent(tmpl.Name, tmpl.MaxHP, tmpl.Speed, tmpl.DodgeChance)
	case KindScripted:
		var fn combat.DodgeFunc
		if hooks != nil {
			hook := tmpl.DodgeHook
			fn = func(name string, hp, maxHP int) (float64, bool) {
				return hooks.DodgeChance(hook, name, hp, maxHP)
			}
		}
		opp = combat.NewScriptedOpponent(tmpl.Name, tmpl.MaxHP, tmpl.Speed, tmpl.DodgeChance, fn)
	default:
		opp = combat.NewPlainOpponent(tmpl.Name, tmpl.MaxHP, tmpl.Speed)
	}
	return opp, card, nil
}
