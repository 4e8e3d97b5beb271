package battle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// fixedSrc returns val clamped into [0, n).
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return min(f.val, n-1) }

type timedLine struct {
	at   time.Duration
	line string
}

// scheduledInbox releases each line once the clock reaches its offset from start.
type scheduledInbox struct {
	clock   Clock
	start   time.Time
	lines   []timedLine
	closeAt time.Duration
	closes  bool
}

func (s *scheduledInbox) Drain() []string {
	var out []string
	elapsed := s.clock.Now().Sub(s.start)
	for len(s.lines) > 0 && s.lines[0].at <= elapsed {
		out = append(out, s.lines[0].line)
		s.lines = s.lines[1:]
	}
	return out
}

func (s *scheduledInbox) Closed() bool {
	return s.closes && len(s.lines) == 0 && s.clock.Now().Sub(s.start) >= s.closeAt
}

type recorder struct {
	events  []Event
	onEvent func(Event)
}

func (r *recorder) Emit(ev Event) {
	r.events = append(r.events, ev)
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

func (r *recorder) ofKind(k EventKind) []Event {
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	engine   *Engine
	clock    *ManualClock
	inbox    *scheduledInbox
	rec      *recorder
	player   *combat.Player
	opponent combat.Combatant
	oppCard  *combat.Action
}

// newFixture builds Hero (3hp, attack/defense, heal/fast cycle) against opponent.
func newFixture(t *testing.T, opponent combat.Combatant, src fixedSrc, lines ...timedLine) *fixture {
	t.Helper()
	return buildFixture(opponent, src, zap.NewNop(), lines...)
}

func buildFixture(opponent combat.Combatant, src fixedSrc, logger *zap.Logger, lines ...timedLine) *fixture {
	clock := NewManualClock(epoch)
	player := combat.NewPlayer("Hero", 3, 3)
	player.AddCard(combat.NewCard("attack", "Attack", "Deal 1 damage",
		combat.Effect{Kind: combat.EffectDamage, Amount: 1}, combat.DefaultCardCooldown))
	player.AddCard(combat.NewCard("defense", "Defense", "Gain 1 shield",
		combat.Effect{Kind: combat.EffectShield, Amount: 1}, combat.DefaultCardCooldown))
	for _, c := range player.Hand() {
		c.Cooldown.WithLockout(time.Second)
	}
	_ = player.EquipSkill(combat.NewSkill("emergency_heal", "Emergency Heal", "Restore 1 hp",
		combat.Effect{Kind: combat.EffectHeal, Amount: 1}, 20*time.Second))
	fast := combat.NewSkill("fast_cycle", "Fast Cycle", "Cards recover 1s faster",
		combat.Effect{Kind: combat.EffectReduceCardCooldown, Duration: time.Second}, 20*time.Second)
	fast.Cooldown.WithLockout(5 * time.Second)
	_ = player.EquipSkill(fast)

	oppCard := combat.NewCard("attack", "Attack", "Deal 1 damage",
		combat.Effect{Kind: combat.EffectDamage, Amount: 1}, combat.DefaultCardCooldown)
	oppCard.Cooldown.WithLockout(2 * time.Second)

	inbox := &scheduledInbox{clock: clock, start: epoch, lines: lines}
	rec := &recorder{}
	sides := Sides{Player: player, Opponent: opponent, OpponentAction: oppCard}
	e := NewEngine(DefaultConfig(), sides, inbox, rec, clock, src, logger)
	return &fixture{engine: e, clock: clock, inbox: inbox, rec: rec, player: player, opponent: opponent, oppCard: oppCard}
}

// stopAfterRound cancels the battle once round n has settled.
func (f *fixture) stopAfterRound(n int) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	f.rec.onEvent = func(ev Event) {
		if ev.Kind == EventRoundEnded && ev.Round == n {
			cancel()
		}
	}
	return ctx
}

func TestEngine_IdlePlayerLosesInThreeRounds(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0})
	f.inbox.closes = true

	res, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.PlayerWon)
	assert.Equal(t, "Slime", res.Winner)
	assert.Equal(t, 3, res.Rounds)
	assert.Equal(t, 0, res.PlayerHP)
	assert.Equal(t, 3, res.OpponentHP)
	assert.Equal(t, f.engine.ID(), res.BattleID)
	assert.Equal(t, StateFinished, f.engine.State())

	assert.Len(t, f.rec.ofKind(EventInputClosed), 1)
	assert.Len(t, f.rec.ofKind(EventDamageDealt), 3)

	ended := f.rec.ofKind(EventRoundEnded)
	require.Len(t, ended, 2)
	assert.Equal(t, epoch.Add(5*time.Second), ended[0].At)
	assert.Equal(t, epoch.Add(10*time.Second), ended[1].At)

	idle := f.rec.ofKind(EventSideIdle)
	require.Len(t, idle, 2)
	for _, ev := range idle {
		assert.Equal(t, "Hero", ev.Actor)
	}

	defeated := f.rec.ofKind(EventDefeated)
	require.Len(t, defeated, 1)
	assert.Equal(t, "Hero", defeated[0].Target)
	assert.Equal(t, 3, defeated[0].Round)
}

func TestEngine_OpponentActsAtPlannedInstants(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0})
	_, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	var hits []time.Duration
	for _, ev := range f.rec.ofKind(EventActionUsed) {
		if ev.Actor == "Slime" {
			hits = append(hits, ev.At.Sub(epoch))
		}
	}
	// 2s initial lockout, then ready again at each later round start.
	assert.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}, hits)
}

func TestEngine_PlayerWinsAndDropsLinesAfterDefeat(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 2, 3), fixedSrc{val: 0},
		timedLine{at: time.Second, line: "1"},
		timedLine{at: 5500 * time.Millisecond, line: "1"},
		timedLine{at: 5500 * time.Millisecond, line: "3"},
	)

	res, err := f.engine.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.PlayerWon)
	assert.Equal(t, "Hero", res.Winner)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 1, res.PlayerHP, "heal queued behind the killing blow must be dropped")
	assert.Equal(t, 0, res.OpponentHP)
	assert.Empty(t, f.rec.ofKind(EventHealed))
	assert.Empty(t, f.rec.ofKind(EventHealWasted))
}

func TestEngine_OneCardPerRoundSkillsUngated(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0},
		timedLine{at: time.Second, line: "1"},
		timedLine{at: time.Second, line: "2"},
		timedLine{at: time.Second, line: "3"},
	)
	_, err := f.engine.Run(f.stopAfterRound(1))
	require.ErrorIs(t, err, context.Canceled)

	rejected := f.rec.ofKind(EventActionRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, RejectCardAlreadyUsed, rejected[0].Reason)
	assert.Equal(t, "Defense", rejected[0].Action)

	var used []string
	for _, ev := range f.rec.ofKind(EventActionUsed) {
		if ev.Actor == "Hero" {
			used = append(used, ev.Action)
		}
	}
	assert.Equal(t, []string{"Attack", "Emergency Heal"}, used)
	assert.Len(t, f.rec.ofKind(EventHealWasted), 1, "heal at full health restores nothing")
	assert.Equal(t, 2, f.opponent.HP())
}

func TestEngine_InitialLockoutThenReady(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0},
		timedLine{at: 500 * time.Millisecond, line: "1"},
		timedLine{at: time.Second, line: "1"},
	)
	_, err := f.engine.Run(f.stopAfterRound(1))
	require.ErrorIs(t, err, context.Canceled)

	rejected := f.rec.ofKind(EventActionRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, RejectNotReady, rejected[0].Reason)
	assert.Equal(t, 500*time.Millisecond, rejected[0].Remaining)
	assert.Equal(t, 2, f.opponent.HP())
}

func TestEngine_LineQueuedAfterRoundEndCarriesOver(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0},
		timedLine{at: time.Second, line: "1"},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.rec.onEvent = func(ev Event) {
		if ev.Kind != EventRoundEnded {
			return
		}
		switch ev.Round {
		case 1:
			// Arrives after round 1's last drain; already released by offset.
			f.inbox.lines = append(f.inbox.lines, timedLine{at: 0, line: "1"})
		case 2:
			cancel()
		}
	}

	_, err := f.engine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, f.rec.ofKind(EventActionRejected))
	var used []Event
	for _, ev := range f.rec.ofKind(EventActionUsed) {
		if ev.Actor == "Hero" {
			used = append(used, ev)
		}
	}
	require.Len(t, used, 2)
	assert.Equal(t, 1, used[0].Round)
	assert.Equal(t, 2, used[1].Round)
	assert.Equal(t, "Attack", used[1].Action)
	assert.Equal(t, 5*time.Second, used[1].At.Sub(epoch), "carried line runs on round 2's first drain")
	assert.Equal(t, 1, f.opponent.HP())
}

func TestEngine_ShieldAbsorbsThenClearsAtRoundEnd(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0},
		timedLine{at: time.Second, line: "2"},
	)
	var shieldAtEnd = -1
	ctx, cancel := context.WithCancel(context.Background())
	f.rec.onEvent = func(ev Event) {
		if ev.Kind == EventRoundEnded {
			shieldAtEnd = f.player.Shield()
			cancel()
		}
	}
	_, err := f.engine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	absorbed := f.rec.ofKind(EventShieldAbsorbed)
	require.Len(t, absorbed, 1)
	assert.Equal(t, 1, absorbed[0].Amount)
	assert.Len(t, f.rec.ofKind(EventAttackBlocked), 1)
	assert.Empty(t, f.rec.ofKind(EventDamageDealt))
	assert.Equal(t, 3, f.player.HP())
	assert.Equal(t, 0, shieldAtEnd)
}

func TestEngine_InvalidInputs(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0},
		timedLine{at: 100 * time.Millisecond, line: "abc"},
		timedLine{at: 100 * time.Millisecond, line: ""},
		timedLine{at: 100 * time.Millisecond, line: "0"},
		timedLine{at: 100 * time.Millisecond, line: "9"},
		timedLine{at: 100 * time.Millisecond, line: "4"},
	)
	_, err := f.engine.Run(f.stopAfterRound(1))
	require.ErrorIs(t, err, context.Canceled)

	var reasons []RejectReason
	for _, ev := range f.rec.ofKind(EventActionRejected) {
		reasons = append(reasons, ev.Reason)
	}
	assert.Equal(t, []RejectReason{
		RejectNotANumber, RejectNotANumber, RejectOutOfRange, RejectOutOfRange, RejectNotReady,
	}, reasons)
	assert.Equal(t, 3, f.opponent.HP(), "rejected inputs have no effect")
}

func TestEngine_DodgedAttack(t *testing.T) {
	rogue := combat.NewEvasiveOpponent("Goblin Rogue", 4, 4, 0.5)
	f := newFixture(t, rogue, fixedSrc{val: 0}, timedLine{at: time.Second, line: "1"})
	_, err := f.engine.Run(f.stopAfterRound(1))
	require.ErrorIs(t, err, context.Canceled)

	dodged := f.rec.ofKind(EventDodged)
	require.Len(t, dodged, 1)
	assert.Equal(t, "Goblin Rogue", dodged[0].Target)
	assert.Equal(t, 4, rogue.HP())
}

func TestEngine_FastCycleShortensCardCooldowns(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 9, 3), fixedSrc{val: 0},
		timedLine{at: 3 * time.Second, line: "1"},
		timedLine{at: 5 * time.Second, line: "4"},
		timedLine{at: 5100 * time.Millisecond, line: "1"},
	)
	_, err := f.engine.Run(f.stopAfterRound(2))
	require.ErrorIs(t, err, context.Canceled)

	reduced := f.rec.ofKind(EventCooldownsReduced)
	require.Len(t, reduced, 1)
	assert.Equal(t, time.Second, reduced[0].Duration)
	// Attack used at 3s would be ready at 6s; fast cycle at 5s makes it ready immediately.
	assert.Empty(t, f.rec.ofKind(EventActionRejected))
	assert.Equal(t, 7, f.opponent.HP())
}

func TestEngine_LockoutInsideBufferActsAtEarliest(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0})
	f.oppCard.Cooldown.WithLockout(4800 * time.Millisecond)
	_, err := f.engine.Run(f.stopAfterRound(1))
	require.ErrorIs(t, err, context.Canceled)

	used := f.rec.ofKind(EventActionUsed)
	require.Len(t, used, 1)
	assert.Equal(t, 4800*time.Millisecond, used[0].At.Sub(epoch))
}

func TestEngine_LockoutPastRoundEndSkipsRound(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0})
	f.oppCard.Cooldown.WithLockout(6 * time.Second)
	_, err := f.engine.Run(f.stopAfterRound(1))
	require.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, f.rec.ofKind(EventActionUsed))
	idle := f.rec.ofKind(EventSideIdle)
	require.Len(t, idle, 2)
	assert.Equal(t, "Slime", idle[1].Actor)
}

func TestEngine_RoundStartSnapshot(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0})
	_, err := f.engine.Run(f.stopAfterRound(1))
	require.ErrorIs(t, err, context.Canceled)

	started := f.rec.ofKind(EventRoundStarted)
	require.NotEmpty(t, started)
	st := started[0].Status
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, 5*time.Second, st.RoundDuration)
	assert.Equal(t, "Hero", st.Player.Name)
	assert.Equal(t, 3, st.Opponent.HP)
	require.Len(t, st.Actions, 4)
	assert.Equal(t, 1, st.Actions[0].Index)
	assert.False(t, st.Actions[0].Ready)
	assert.Equal(t, 1, st.Actions[0].RemainingSeconds)
	assert.True(t, st.Actions[2].Ready)
	assert.Equal(t, 5, st.Actions[3].RemainingSeconds)
	assert.Equal(t, 2, st.OpponentAction.RemainingSeconds)
}

func TestEngine_CancelledBeforeStart(t *testing.T) {
	f := newFixture(t, combat.NewPlainOpponent("Slime", 3, 3), fixedSrc{val: 0})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotEqual(t, StateFinished, f.engine.State())
}

func TestEngine_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "lines")
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = rapid.IntRange(0, 20000).Draw(rt, fmt.Sprintf("at%d", i))
		}
		slices.Sort(offsets)
		lines := make([]timedLine, n)
		for i, ms := range offsets {
			lines[i] = timedLine{
				at:   time.Duration(ms) * time.Millisecond,
				line: rapid.SampledFrom([]string{"1", "2", "3", "4", "x", "7"}).Draw(rt, fmt.Sprintf("line%d", i)),
			}
		}
		src := fixedSrc{val: rapid.IntRange(0, 5000).Draw(rt, "draw")}
		f := buildFixture(combat.NewPlainOpponent("Slime", 3, 3), src, zap.NewNop(), lines...)

		res, err := f.engine.Run(context.Background())
		if err != nil {
			rt.Fatalf("run: %v", err)
		}
		if f.player.IsAlive() == f.opponent.IsAlive() {
			rt.Fatalf("exactly one side must be defeated")
		}
		if res.PlayerWon != f.player.IsAlive() {
			rt.Fatalf("result disagrees with combatants")
		}

		cards := map[int]int{}
		oppActs := map[int]int{}
		lastRound := 0
		for _, ev := range f.rec.events {
			if ev.Round < lastRound {
				rt.Fatalf("round numbers went backwards")
			}
			lastRound = ev.Round
			if ev.Kind != EventActionUsed {
				continue
			}
			if ev.Actor == "Slime" {
				oppActs[ev.Round]++
				offset := ev.At.Sub(epoch) - time.Duration(ev.Round-1)*5*time.Second
				if offset < 0 || offset >= 5*time.Second {
					rt.Fatalf("opponent acted outside its round: %v", offset)
				}
			} else if ev.ActionKind == combat.KindCard {
				cards[ev.Round]++
			}
		}
		for r, c := range cards {
			if c > 1 {
				rt.Fatalf("round %d: %d cards used", r, c)
			}
		}
		for r, c := range oppActs {
			if c > 1 {
				rt.Fatalf("round %d: opponent acted %d times", r, c)
			}
		}
	})
}
