// Package battle runs the real-time round engine: fixed-length rounds in
// which a polled human player and a randomly timed opponent use
// cooldown-gated actions.
package battle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Config holds the engine's timing parameters.
type Config struct {
	// RoundDuration is the length of every round.
	RoundDuration time.Duration
	// TickInterval is the target cadence of the round loop.
	TickInterval time.Duration
	// ActionBuffer is the closing slice of a round in which the opponent never acts.
	ActionBuffer time.Duration
}

// DefaultConfig returns 5s rounds, a 100ms tick and a 300ms opponent buffer.
func DefaultConfig() Config {
	return Config{
		RoundDuration: 5 * time.Second,
		TickInterval:  100 * time.Millisecond,
		ActionBuffer:  ai.DefaultActionBuffer,
	}
}

// Inbox is the consumer side of the player's input queue.
type Inbox interface {
	// Drain returns every pending line without blocking.
	Drain() []string
	// Closed reports that no further line will ever arrive.
	Closed() bool
}

// Sides are the two combatants of a battle.
type Sides struct {
	Player   *combat.Player
	Opponent combat.Combatant
	// OpponentAction is the single action the opponent uses.
	OpponentAction *combat.Action
}

// Result summarises a finished battle.
type Result struct {
	BattleID   string
	PlayerWon  bool
	Winner     string
	Rounds     int
	PlayerHP   int
	OpponentHP int
}

// Engine is the round scheduler. All combat state is owned by the goroutine
// calling Run; the Inbox is the only value shared with another goroutine.
type Engine struct {
	cfg      Config
	sides    Sides
	inbox    Inbox
	sink     EventSink
	clock    Clock
	src      dice.Source
	resolver *combat.Resolver
	logger   *zap.Logger

	id          string
	state       State
	round       Round
	flags       roundFlags
	lastTick    time.Time
	inputClosed bool
}

// NewEngine creates an idle Engine for one battle.
//
// Precondition: sides fields, inbox, sink, clock, src and logger must be non-nil;
// cfg durations must be positive with TickInterval <= RoundDuration.
// Postcondition: State() == StateIdle; round numbering starts at 1.
func NewEngine(cfg Config, sides Sides, inbox Inbox, sink EventSink, clock Clock, src dice.Source, logger *zap.Logger) *Engine {
	id := uuid.New().String()
	return &Engine{
		cfg:      cfg,
		sides:    sides,
		inbox:    inbox,
		sink:     sink,
		clock:    clock,
		src:      src,
		resolver: combat.NewResolver(src),
		logger:   logger.With(zap.String("battle_id", id)),
		id:       id,
		state:    StateIdle,
		round:    Round{Index: 1},
	}
}

// ID returns the battle's unique identifier.
func (e *Engine) ID() string { return e.id }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Run plays rounds until one side reaches 0 hp or ctx is cancelled.
//
// Postcondition: on a nil error State() == StateFinished and exactly one side is defeated.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	started := e.clock.Now()
	e.logger.Info("battle started",
		zap.String("player", e.sides.Player.Name()),
		zap.String("opponent", e.sides.Opponent.Name()),
	)

	for e.bothAlive() {
		err := ctx.Err()
		if err == nil {
			err = e.playRound(ctx)
		}
		if err != nil {
			e.logger.Info("battle aborted", zap.Int("round", e.round.Index), zap.Error(err))
			return Result{}, fmt.Errorf("battle %s round %d: %w", e.id, e.round.Index, err)
		}
	}
	e.state = StateFinished

	res := e.result()
	loser := e.sides.Opponent
	if !res.PlayerWon {
		loser = e.sides.Player
	}
	e.emit(Event{Kind: EventDefeated, Target: loser.Name(), Actor: res.Winner})
	e.logger.Info("battle finished",
		zap.String("winner", res.Winner),
		zap.Int("rounds", res.Rounds),
		zap.Int("player_hp", res.PlayerHP),
		zap.Int("opponent_hp", res.OpponentHP),
		zap.Duration("elapsed", e.clock.Now().Sub(started)),
	)
	return res, nil
}

// Status returns a read-only snapshot of both sides and every action.
func (e *Engine) Status() Status {
	p := e.sides.Player
	st := Status{
		Round:          e.round.Index,
		RoundDuration:  e.cfg.RoundDuration,
		Player:         combatantStatus(p),
		Opponent:       combatantStatus(e.sides.Opponent),
		OpponentAction: actionStatus(0, e.sides.OpponentAction),
		CardUsed:       e.flags.playerUsedCard,
	}
	for i := 1; i <= p.ActionCount(); i++ {
		a, _ := p.ActionAt(i)
		st.Actions = append(st.Actions, actionStatus(i, a))
	}
	return st
}

// playRound runs one round from activation through settling.
func (e *Engine) playRound(ctx context.Context) error {
	start := e.clock.Now()
	e.round = Round{Index: e.round.Index, Start: start, End: start.Add(e.cfg.RoundDuration)}
	e.flags = roundFlags{}
	e.lastTick = start
	e.state = StateRoundActive

	e.flags.opponentAt, e.flags.opponentPlanned = ai.PlanAction(
		e.round.Start, e.round.End,
		e.sides.OpponentAction.Cooldown.Remaining(),
		e.cfg.ActionBuffer, e.src,
	)
	if e.flags.opponentPlanned {
		e.logger.Debug("opponent action planned",
			zap.Int("round", e.round.Index),
			zap.Duration("offset", e.flags.opponentAt.Sub(start)),
		)
	}
	st := e.Status()
	e.emit(Event{Kind: EventRoundStarted, Status: &st})

	for {
		now := e.clock.Now()
		e.advance(now)
		e.drainInput()
		e.opponentTurn(now)
		if !e.bothAlive() || e.round.Over(now) {
			break
		}
		wait := min(e.cfg.TickInterval, e.round.Remaining(now))
		if err := e.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}

	e.state = StateRoundSettling
	e.advance(e.clock.Now())
	if !e.bothAlive() {
		return nil
	}
	if !e.flags.playerActed {
		e.emit(Event{Kind: EventSideIdle, Actor: e.sides.Player.Name()})
	}
	if !e.flags.opponentActed {
		e.emit(Event{Kind: EventSideIdle, Actor: e.sides.Opponent.Name()})
	}
	e.sides.Player.ClearShield()
	e.sides.Opponent.ClearShield()
	e.emit(Event{Kind: EventRoundEnded})
	e.round.Index++
	return nil
}

// advance ticks every cooldown on both sides by the time since the last tick.
func (e *Engine) advance(now time.Time) {
	elapsed := now.Sub(e.lastTick)
	if elapsed <= 0 {
		return
	}
	e.lastTick = now
	for _, a := range e.sides.Player.Hand() {
		e.tickAction(a, elapsed)
	}
	for _, a := range e.sides.Player.Skills() {
		e.tickAction(a, elapsed)
	}
	e.tickAction(e.sides.OpponentAction, elapsed)
}

func (e *Engine) tickAction(a *combat.Action, elapsed time.Duration) {
	if a.Cooldown.Tick(elapsed) {
		e.logger.Debug("cooldown ready",
			zap.Int("round", e.round.Index),
			zap.String("action", a.Name),
			zap.Stringer("kind", a.Kind),
		)
	}
}

// drainInput executes every pending line; lines left after the battle is decided are dropped.
func (e *Engine) drainInput() {
	for _, line := range e.inbox.Drain() {
		if !e.bothAlive() {
			e.logger.Debug("input dropped after defeat", zap.String("input", line))
			continue
		}
		e.playerAction(line)
	}
	if !e.inputClosed && e.inbox.Closed() {
		e.inputClosed = true
		e.emit(Event{Kind: EventInputClosed})
	}
}

// playerAction parses line as a 1-based index over [hand..., skills...] and
// uses the selected action if it is allowed.
func (e *Engine) playerAction(line string) {
	p := e.sides.Player
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		e.reject(line, RejectNotANumber, nil)
		return
	}
	action, ok := p.ActionAt(n)
	if !ok {
		e.reject(line, RejectOutOfRange, nil)
		return
	}
	if action.Kind == combat.KindCard && e.flags.playerUsedCard {
		e.reject(line, RejectCardAlreadyUsed, action)
		return
	}
	if !action.Ready() {
		e.reject(line, RejectNotReady, action)
		return
	}

	action.Cooldown.Trigger()
	if action.Kind == combat.KindCard {
		e.flags.playerUsedCard = true
	}
	e.flags.playerActed = true
	e.emit(Event{Kind: EventActionUsed, Actor: p.Name(), Action: action.Name, ActionKind: action.Kind, Input: line})
	e.report(p, e.resolver.Apply(action.Effect, p, e.sides.Opponent, p.Hand()))
}

func (e *Engine) reject(line string, reason RejectReason, action *combat.Action) {
	ev := Event{Kind: EventActionRejected, Actor: e.sides.Player.Name(), Reason: reason, Input: line}
	if action != nil {
		ev.Action = action.Name
		ev.ActionKind = action.Kind
		ev.Remaining = action.Cooldown.Remaining()
	}
	e.emit(ev)
}

// opponentTurn uses the opponent's action once per round at or after the
// planned instant. Reaching the instant while the action is not ready forfeits the round.
func (e *Engine) opponentTurn(now time.Time) {
	if e.flags.opponentActed || !e.flags.opponentPlanned || !e.bothAlive() {
		return
	}
	if now.Before(e.flags.opponentAt) || e.round.Over(now) {
		return
	}
	action := e.sides.OpponentAction
	if !action.Ready() {
		e.flags.opponentPlanned = false
		e.logger.Debug("opponent forfeits round",
			zap.Int("round", e.round.Index),
			zap.Duration("remaining", action.Cooldown.Remaining()),
		)
		return
	}

	opp := e.sides.Opponent
	action.Cooldown.Trigger()
	e.flags.opponentActed = true
	e.emit(Event{Kind: EventActionUsed, Actor: opp.Name(), Action: action.Name, ActionKind: action.Kind})
	e.report(opp, e.resolver.Apply(action.Effect, opp, e.sides.Player, []*combat.Action{action}))
}

// report translates a resolver outcome into events.
func (e *Engine) report(actor combat.Combatant, out combat.Outcome) {
	base := Event{Actor: actor.Name(), Target: out.Target}
	with := func(kind EventKind, amount int) Event {
		ev := base
		ev.Kind = kind
		ev.Amount = amount
		return ev
	}
	switch out.Effect {
	case combat.EffectDamage:
		if out.Dodged {
			e.emit(with(EventDodged, 0))
			return
		}
		if out.Absorbed > 0 {
			e.emit(with(EventShieldAbsorbed, out.Absorbed))
		}
		if out.Dealt > 0 {
			e.emit(with(EventDamageDealt, out.Dealt))
		} else {
			e.emit(with(EventAttackBlocked, 0))
		}
	case combat.EffectShield:
		e.emit(with(EventShieldGained, out.Shielded))
	case combat.EffectHeal:
		if out.Healed > 0 {
			e.emit(with(EventHealed, out.Healed))
		} else {
			e.emit(with(EventHealWasted, 0))
		}
	case combat.EffectReduceCardCooldown:
		ev := with(EventCooldownsReduced, 0)
		ev.Duration = out.Reduced
		e.emit(ev)
	}
}

func (e *Engine) emit(ev Event) {
	ev.Round = e.round.Index
	ev.At = e.clock.Now()
	e.logger.Debug("battle event",
		zap.Stringer("event", ev.Kind),
		zap.Int("round", ev.Round),
		zap.String("actor", ev.Actor),
		zap.String("target", ev.Target),
		zap.String("action", ev.Action),
		zap.Int("amount", ev.Amount),
	)
	e.sink.Emit(ev)
}

func (e *Engine) bothAlive() bool {
	return e.sides.Player.IsAlive() && e.sides.Opponent.IsAlive()
}

func (e *Engine) result() Result {
	p, o := e.sides.Player, e.sides.Opponent
	res := Result{
		BattleID:   e.id,
		PlayerWon:  p.IsAlive(),
		Rounds:     e.round.Index,
		PlayerHP:   p.HP(),
		OpponentHP: o.HP(),
	}
	if res.PlayerWon {
		res.Winner = p.Name()
	} else {
		res.Winner = o.Name()
	}
	return res
}
