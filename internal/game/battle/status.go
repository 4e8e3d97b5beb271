package battle

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// CombatantStatus is a read-only view of one side.
type CombatantStatus struct {
	Name   string
	HP     int
	MaxHP  int
	Shield int
	Speed  int
}

// ActionStatus is a read-only view of one card or skill.
type ActionStatus struct {
	// Index is the 1-based menu number the player types; 0 for the opponent's action.
	Index            int
	Name             string
	Description      string
	Kind             combat.ActionKind
	Effect           combat.Effect
	Ready            bool
	Remaining        time.Duration
	RemainingSeconds int
}

// Status is the snapshot exposed at the start of every round.
type Status struct {
	Round          int
	RoundDuration  time.Duration
	Player         CombatantStatus
	Opponent       CombatantStatus
	Actions        []ActionStatus
	OpponentAction ActionStatus
	// CardUsed is true when the player has spent this round's card.
	CardUsed bool
}

func combatantStatus(c combat.Combatant) CombatantStatus {
	return CombatantStatus{
		Name:   c.Name(),
		HP:     c.HP(),
		MaxHP:  c.MaxHP(),
		Shield: c.Shield(),
		Speed:  c.Speed(),
	}
}

func actionStatus(index int, a *combat.Action) ActionStatus {
	return ActionStatus{
		Index:            index,
		Name:             a.Name,
		Description:      a.Description,
		Kind:             a.Kind,
		Effect:           a.Effect,
		Ready:            a.Ready(),
		Remaining:        a.Cooldown.Remaining(),
		RemainingSeconds: a.Cooldown.RemainingSeconds(),
	}
}
