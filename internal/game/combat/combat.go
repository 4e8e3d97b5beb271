// Package combat implements the combatants, actions and effect resolution of a
// two-sided skirmish. All state here is owned by a single goroutine (the
// battle engine); nothing in this package is safe for concurrent use.
package combat

import (
	"errors"
	"time"
)

// MaxEquippedSkills is the number of skill slots a Player has.
const MaxEquippedSkills = 2

// DefaultCardCooldown is the cooldown applied to cards that do not configure one.
const DefaultCardCooldown = 3 * time.Second

// ErrSkillCapacity is returned by EquipSkill when every skill slot is taken.
var ErrSkillCapacity = errors.New("combat: skill slots full")
