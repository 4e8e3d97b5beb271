package combat

import "fmt"

// Player is the human-controlled combatant. It owns an ordered hand of cards
// and up to MaxEquippedSkills skills.
type Player struct {
	Stats
	hand   []*Action
	skills []*Action
}

// NewPlayer creates a full-health player with an empty hand.
func NewPlayer(name string, maxHP, speed int) *Player {
	return &Player{Stats: NewStats(name, maxHP, speed)}
}

// DodgeChance always returns 0; the player has no evasion passive.
func (p *Player) DodgeChance() float64 { return 0 }

// AddCard appends a card to the hand.
//
// Precondition: card.Kind == KindCard.
func (p *Player) AddCard(card *Action) {
	p.hand = append(p.hand, card)
}

// EquipSkill fills the next free skill slot.
//
// Postcondition: returns ErrSkillCapacity without mutating state when all slots are taken.
func (p *Player) EquipSkill(skill *Action) error {
	if len(p.skills) >= MaxEquippedSkills {
		return fmt.Errorf("equipping %q: %w", skill.Name, ErrSkillCapacity)
	}
	p.skills = append(p.skills, skill)
	return nil
}

// Hand returns the cards in hand order. The slice must not be modified.
func (p *Player) Hand() []*Action { return p.hand }

// Skills returns the equipped skills in slot order. The slice must not be modified.
func (p *Player) Skills() []*Action { return p.skills }

// ActionAt resolves a 1-based menu index over [hand..., skills...].
//
// Postcondition: ok is false when index is outside [1, len(hand)+len(skills)].
func (p *Player) ActionAt(index int) (*Action, bool) {
	if index < 1 {
		return nil, false
	}
	i := index - 1
	if i < len(p.hand) {
		return p.hand[i], true
	}
	i -= len(p.hand)
	if i < len(p.skills) {
		return p.skills[i], true
	}
	return nil, false
}

// ActionCount returns len(hand) + len(skills).
func (p *Player) ActionCount() int { return len(p.hand) + len(p.skills) }
