package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownID is returned when a loadout or enemy references a template that is not registered.
var ErrUnknownID = errors.New("catalog: unknown template id")

// Registry holds all loaded card, skill, and enemy templates indexed by ID.
type Registry struct {
	cards   map[string]*CardTemplate
	skills  map[string]*SkillTemplate
	enemies map[string]*EnemyTemplate
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		cards:   make(map[string]*CardTemplate),
		skills:  make(map[string]*SkillTemplate),
		enemies: make(map[string]*EnemyTemplate),
	}
}

// RegisterCard adds c to the registry.
//
// Precondition:  c must not be nil.
// Postcondition: Card(c.ID) returns c; returns error if c.ID already registered.
func (r *Registry) RegisterCard(c *CardTemplate) error {
	if _, exists := r.cards[c.ID]; exists {
		return fmt.Errorf("catalog: Registry.RegisterCard: card ID %q already registered", c.ID)
	}
	r.cards[c.ID] = c
	return nil
}

// RegisterSkill adds s to the registry.
//
// Precondition:  s must not be nil.
// Postcondition: Skill(s.ID) returns s; returns error if s.ID already registered.
func (r *Registry) RegisterSkill(s *SkillTemplate) error {
	if _, exists := r.skills[s.ID]; exists {
		return fmt.Errorf("catalog: Registry.RegisterSkill: skill ID %q already registered", s.ID)
	}
	r.skills[s.ID] = s
	return nil
}

// RegisterEnemy adds e to the registry.
//
// Precondition:  e must not be nil.
// Postcondition: Enemy(e.ID) returns e; returns error if e.ID already registered.
func (r *Registry) RegisterEnemy(e *EnemyTemplate) error {
	if _, exists := r.enemies[e.ID]; exists {
		return fmt.Errorf("catalog: Registry.RegisterEnemy: enemy ID %q already registered", e.ID)
	}
	r.enemies[e.ID] = e
	return nil
}

// Card returns the card template for id and whether it was found.
func (r *Registry) Card(id string) (*CardTemplate, bool) {
	c, ok := r.cards[id]
	return c, ok
}

// Skill returns the skill template for id and whether it was found.
func (r *Registry) Skill(id string) (*SkillTemplate, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// Enemy returns the enemy template for id and whether it was found.
func (r *Registry) Enemy(id string) (*EnemyTemplate, bool) {
	e, ok := r.enemies[id]
	return e, ok
}

// EnemyIDs returns every registered enemy ID in sorted order.
func (r *Registry) EnemyIDs() []string {
	ids := make([]string, 0, len(r.enemies))
	for id := range r.enemies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dirs names the content directories a Registry is loaded from.
type Dirs struct {
	Cards   string
	Skills  string
	Enemies string
}

// LoadRegistry loads every template under dirs and checks that each enemy's
// card reference resolves.
//
// Postcondition: returns a fully cross-referenced Registry or the first error.
func LoadRegistry(dirs Dirs) (*Registry, error) {
	r := NewRegistry()

	cards, err := LoadCards(dirs.Cards)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		if err := r.RegisterCard(c); err != nil {
			return nil, err
		}
	}

	skills, err := LoadSkills(dirs.Skills)
	if err != nil {
		return nil, err
	}
	for _, s := range skills {
		if err := r.RegisterSkill(s); err != nil {
			return nil, err
		}
	}

	enemies, err := LoadEnemies(dirs.Enemies)
	if err != nil {
		return nil, err
	}
	for _, e := range enemies {
		if _, ok := r.Card(e.Card); !ok {
			return nil, fmt.Errorf("enemy %q card %q: %w", e.ID, e.Card, ErrUnknownID)
		}
		if err := r.RegisterEnemy(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}
