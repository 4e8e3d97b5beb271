package battle

import (
	"time"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// EventKind identifies a discrete notification emitted by the Engine.
type EventKind int

const (
	EventRoundStarted     EventKind = iota // Status is set
	EventActionUsed                        // Actor used Action
	EventDamageDealt                       // Amount hp lost by Target
	EventShieldAbsorbed                    // Amount absorbed by Target's shield
	EventAttackBlocked                     // shield absorbed the whole attack
	EventShieldGained                      // Amount shield added to Target
	EventHealed                            // Amount hp restored to Target
	EventHealWasted                        // heal used at full health
	EventCooldownsReduced                  // Duration taken off Actor's card cooldowns
	EventDodged                            // Target evaded the attack
	EventActionRejected                    // Reason explains why Input did nothing
	EventSideIdle                          // Actor took no action this round
	EventRoundEnded                        // round settled, shields cleared
	EventInputClosed                       // no further player input will arrive
	EventDefeated                          // Target reached 0 hp; the battle is over
)

var eventNames = [...]string{
	EventRoundStarted:     "round_started",
	EventActionUsed:       "action_used",
	EventDamageDealt:      "damage_dealt",
	EventShieldAbsorbed:   "shield_absorbed",
	EventAttackBlocked:    "attack_blocked",
	EventShieldGained:     "shield_gained",
	EventHealed:           "healed",
	EventHealWasted:       "heal_wasted",
	EventCooldownsReduced: "cooldowns_reduced",
	EventDodged:           "dodged",
	EventActionRejected:   "action_rejected",
	EventSideIdle:         "side_idle",
	EventRoundEnded:       "round_ended",
	EventInputClosed:      "input_closed",
	EventDefeated:         "defeated",
}

// String returns a snake_case label for logs.
func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// RejectReason explains why a player input had no effect.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectNotANumber
	RejectOutOfRange
	RejectCardAlreadyUsed
	RejectNotReady
)

// String returns the human-readable rejection message.
func (r RejectReason) String() string {
	switch r {
	case RejectNotANumber:
		return "input is not a number"
	case RejectOutOfRange:
		return "no action with that number"
	case RejectCardAlreadyUsed:
		return "already used a card this round"
	case RejectNotReady:
		return "action is still on cooldown"
	default:
		return "none"
	}
}

// Event is one notification for the presentation layer. Fields not relevant
// to Kind are zero.
type Event struct {
	Kind     EventKind
	Round    int
	At       time.Time
	Actor    string
	Target   string
	Action   string
	Amount   int
	Duration time.Duration
	// Remaining is the rejected action's cooldown for RejectNotReady.
	Remaining time.Duration
	Reason    RejectReason
	Input     string
	// Status is the read-only snapshot delivered with EventRoundStarted.
	Status *Status
	// ActionKind is set for EventActionUsed.
	ActionKind combat.ActionKind
}

// EventSink receives engine events on the engine goroutine. Implementations must not block.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }
