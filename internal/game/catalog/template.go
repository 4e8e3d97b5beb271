// Package catalog loads card, skill, and enemy templates from YAML and
// materialises them into live combatants and actions.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// EffectSpec is the YAML form of combat.Effect.
type EffectSpec struct {
	Type   string `yaml:"type"`
	Amount int    `yaml:"amount"`
	// Duration is a Go duration string, used by reduce_card_cooldown.
	Duration string `yaml:"duration"`
}

// Effect converts e into a combat.Effect.
//
// Postcondition: returns an error for an unknown type, a negative amount, or
// a malformed or negative duration.
func (e EffectSpec) Effect() (combat.Effect, error) {
	kind, err := combat.ParseEffectKind(e.Type)
	if err != nil {
		return combat.Effect{}, err
	}
	if e.Amount < 0 {
		return combat.Effect{}, fmt.Errorf("effect %s: amount must be >= 0", e.Type)
	}
	d, err := parseDuration("duration", e.Duration, 0)
	if err != nil {
		return combat.Effect{}, fmt.Errorf("effect %s: %w", e.Type, err)
	}
	if kind == combat.EffectReduceCardCooldown && d == 0 {
		return combat.Effect{}, fmt.Errorf("effect %s: duration must be > 0", e.Type)
	}
	return combat.Effect{Kind: kind, Amount: e.Amount, Duration: d}, nil
}

// CardTemplate defines a card loaded from YAML.
type CardTemplate struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Effect      EffectSpec `yaml:"effect"`
	// Cooldown defaults to combat.DefaultCardCooldown when empty.
	Cooldown string `yaml:"cooldown"`
}

// Validate checks that the card template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, the effect parses,
// and Cooldown, if set, is a positive duration.
func (t *CardTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("card template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("card template %q: name must not be empty", t.ID)
	}
	if _, err := t.Effect.Effect(); err != nil {
		return fmt.Errorf("card template %q: %w", t.ID, err)
	}
	if _, err := t.CooldownDuration(); err != nil {
		return fmt.Errorf("card template %q: %w", t.ID, err)
	}
	return nil
}

// CooldownDuration returns the parsed cooldown, or the card default when unset.
func (t *CardTemplate) CooldownDuration() (time.Duration, error) {
	d, err := parseDuration("cooldown", t.Cooldown, combat.DefaultCardCooldown)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("cooldown must be > 0")
	}
	return d, nil
}

// SkillTemplate defines a skill loaded from YAML.
type SkillTemplate struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Effect      EffectSpec `yaml:"effect"`
	Cooldown    string     `yaml:"cooldown"`
	// InitialCooldown locks the skill at battle start; empty means ready.
	InitialCooldown string `yaml:"initial_cooldown"`
}

// Validate checks that the skill template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, the effect parses,
// Cooldown is a positive duration and InitialCooldown, if set, is non-negative.
func (t *SkillTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("skill template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("skill template %q: name must not be empty", t.ID)
	}
	if _, err := t.Effect.Effect(); err != nil {
		return fmt.Errorf("skill template %q: %w", t.ID, err)
	}
	if t.Cooldown == "" {
		return fmt.Errorf("skill template %q: cooldown must not be empty", t.ID)
	}
	d, err := parseDuration("cooldown", t.Cooldown, 0)
	if err != nil {
		return fmt.Errorf("skill template %q: %w", t.ID, err)
	}
	if d <= 0 {
		return fmt.Errorf("skill template %q: cooldown must be > 0", t.ID)
	}
	if _, err := parseDuration("initial_cooldown", t.InitialCooldown, 0); err != nil {
		return fmt.Errorf("skill template %q: %w", t.ID, err)
	}
	return nil
}

// Enemy kinds.
const (
	KindPlain    = "plain"
	KindEvasive  = "evasive"
	KindScripted = "scripted"
)

// EnemyTemplate defines an opponent archetype loaded from YAML.
type EnemyTemplate struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Kind is plain, evasive or scripted; empty means plain.
	Kind  string `yaml:"kind"`
	MaxHP int    `yaml:"max_hp"`
	Speed int    `yaml:"speed"`
	// DodgeChance is the evasive chance, and the fallback for scripted enemies.
	DodgeChance float64 `yaml:"dodge_chance"`
	// DodgeHook names the Lua function computing a scripted enemy's dodge chance.
	DodgeHook string `yaml:"dodge_hook"`
	// Card is the ID of the single card the enemy uses.
	Card string `yaml:"card"`
}

// Validate checks that the enemy template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID, Name and Card are non-empty, MaxHP >= 1,
// Speed >= 0, DodgeChance is within [0,1], Kind is known, and scripted
// enemies name a DodgeHook.
func (t *EnemyTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("enemy template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("enemy template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("enemy template %q: max_hp must be >= 1", t.ID)
	}
	if t.Speed < 0 {
		return fmt.Errorf("enemy template %q: speed must be >= 0", t.ID)
	}
	if t.DodgeChance < 0 || t.DodgeChance > 1 {
		return fmt.Errorf("enemy template %q: dodge_chance must be within [0,1]", t.ID)
	}
	if t.Card == "" {
		return fmt.Errorf("enemy template %q: card must not be empty", t.ID)
	}
	switch t.Kind {
	case "", KindPlain, KindEvasive:
	case KindScripted:
		if t.DodgeHook == "" {
			return fmt.Errorf("enemy template %q: scripted enemies require dodge_hook", t.ID)
		}
	default:
		return fmt.Errorf("enemy template %q: unknown kind %q", t.ID, t.Kind)
	}
	return nil
}

// LoadCardFromBytes parses a single card template from raw YAML bytes.
func LoadCardFromBytes(data []byte) (*CardTemplate, error) {
	return loadFromBytes[CardTemplate](data)
}

// LoadSkillFromBytes parses a single skill template from raw YAML bytes.
func LoadSkillFromBytes(data []byte) (*SkillTemplate, error) {
	return loadFromBytes[SkillTemplate](data)
}

// LoadEnemyFromBytes parses a single enemy template from raw YAML bytes.
func LoadEnemyFromBytes(data []byte) (*EnemyTemplate, error) {
	return loadFromBytes[EnemyTemplate](data)
}

// LoadCards reads all *.yaml files in dir as card templates.
func LoadCards(dir string) ([]*CardTemplate, error) {
	return loadDir[CardTemplate](dir, "card")
}

// LoadSkills reads all *.yaml files in dir as skill templates.
func LoadSkills(dir string) ([]*SkillTemplate, error) {
	return loadDir[SkillTemplate](dir, "skill")
}

// LoadEnemies reads all *.yaml files in dir as enemy templates.
func LoadEnemies(dir string) ([]*EnemyTemplate, error) {
	return loadDir[EnemyTemplate](dir, "enemy")
}

type template[T any] interface {
	*T
	Validate() error
}

func loadFromBytes[T any, PT template[T]](data []byte) (*T, error) {
	var tmpl T
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := PT(&tmpl).Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// loadDir parses every *.yaml file in dir.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func loadDir[T any, PT template[T]](dir, kind string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s dir %q: %w", kind, dir, err)
	}

	var templates []*T
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := loadFromBytes[T, PT](data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// parseDuration parses s, returning def when s is empty.
func parseDuration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a valid duration: %w", field, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s %q must not be negative", field, s)
	}
	return d, nil
}
