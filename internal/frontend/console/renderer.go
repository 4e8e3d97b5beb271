package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Renderer writes battle output to a terminal. It implements battle.EventSink.
type Renderer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewRenderer creates a Renderer writing to w. When color is false all ANSI
// sequences are stripped before writing.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

// Emit renders ev and writes it. Events with no visible form are skipped.
func (r *Renderer) Emit(ev battle.Event) {
	r.write(RenderEvent(ev))
}

// Intro writes the battle banner.
func (r *Renderer) Intro(player, opponent string) {
	var b strings.Builder
	b.WriteString(Colorize(Bold+BrightWhite, "=== SKIRMISH ==="))
	b.WriteString("\n")
	b.WriteString(Colorf(White, "%s faces %s. Type an action number and press Enter.", player, opponent))
	b.WriteString("\n")
	r.write(b.String())
}

// Result writes the end-of-battle summary.
func (r *Renderer) Result(res battle.Result) {
	r.write(RenderResult(res))
}

func (r *Renderer) write(s string) {
	if s == "" {
		return
	}
	if !r.color {
		s = StripANSI(s)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.w, s)
}

// RenderEvent formats one engine event as a line of coloured text, or "" for
// events with no visible form.
func RenderEvent(ev battle.Event) string {
	switch ev.Kind {
	case battle.EventRoundStarted:
		if ev.Status == nil {
			return ""
		}
		return RenderStatus(*ev.Status)
	case battle.EventActionUsed:
		return line(BrightWhite, "%s uses %s.", ev.Actor, ev.Action)
	case battle.EventDamageDealt:
		return line(BrightRed, "%s takes %d damage.", ev.Target, ev.Amount)
	case battle.EventShieldAbsorbed:
		return line(Cyan, "%s's shield absorbs %d.", ev.Target, ev.Amount)
	case battle.EventAttackBlocked:
		return line(BrightCyan, "The attack is fully blocked.")
	case battle.EventShieldGained:
		return line(Cyan, "%s gains %d shield.", ev.Target, ev.Amount)
	case battle.EventHealed:
		return line(BrightGreen, "%s recovers %d hp.", ev.Target, ev.Amount)
	case battle.EventHealWasted:
		return line(Green, "%s is already at full health.", ev.Target)
	case battle.EventCooldownsReduced:
		return line(Magenta, "%s's card cooldowns drop by %s.", ev.Target, seconds(ev.Duration.Seconds()))
	case battle.EventDodged:
		return line(Yellow, "%s dodges the attack!", ev.Target)
	case battle.EventActionRejected:
		return rejection(ev)
	case battle.EventSideIdle:
		return line(Dim, "%s did not act this round.", ev.Actor)
	case battle.EventRoundEnded:
		return line(BrightBlack, "--- round %d over, shields fade ---", ev.Round)
	case battle.EventInputClosed:
		return line(BrightBlack, "Input closed. The battle plays out without you.")
	case battle.EventDefeated:
		return line(Bold+BrightYellow, "%s is defeated!", ev.Target)
	default:
		return ""
	}
}

func rejection(ev battle.Event) string {
	switch ev.Reason {
	case battle.RejectNotReady:
		return line(Yellow, "%s is cooling down (%s left).", ev.Action, seconds(ev.Remaining.Seconds()))
	case battle.RejectCardAlreadyUsed:
		return line(Yellow, "You already played a card this round.")
	default:
		return line(Yellow, "%q: %s.", ev.Input, ev.Reason)
	}
}

// RenderStatus formats the round banner, both sides and the numbered action list.
func RenderStatus(st battle.Status) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(Colorf(Bold+BrightYellow, "Round %d (%s)", st.Round, seconds(st.RoundDuration.Seconds())))
	b.WriteString("\n")
	b.WriteString(combatantLine(st.Player, Green))
	b.WriteString(combatantLine(st.Opponent, Red))

	for _, a := range st.Actions {
		kind := Colorize(Blue, "card ")
		if a.Kind == combat.KindSkill {
			kind = Colorize(Magenta, "skill")
		}
		state := Colorize(BrightGreen, "ready")
		if !a.Ready {
			state = Colorf(BrightBlack, "%ds", a.RemainingSeconds)
		}
		fmt.Fprintf(&b, "  %s[%d]%s %s %-16s %s  %s\n",
			BrightCyan, a.Index, Reset, kind, a.Name, state,
			Colorize(Dim, a.Description))
	}
	opp := Colorize(BrightGreen, "ready")
	if !st.OpponentAction.Ready {
		opp = Colorf(BrightBlack, "%ds", st.OpponentAction.RemainingSeconds)
	}
	fmt.Fprintf(&b, "  %s %s: %s\n", Colorize(Red, "enemy"), st.OpponentAction.Name, opp)
	return b.String()
}

func combatantLine(c battle.CombatantStatus, color string) string {
	hearts := strings.Repeat("#", max(c.HP, 0)) + strings.Repeat(".", max(c.MaxHP-c.HP, 0))
	s := fmt.Sprintf("  %s [%s] %d/%d hp", Colorize(color, c.Name), hearts, c.HP, c.MaxHP)
	if c.Shield > 0 {
		s += Colorf(Cyan, " +%d shield", c.Shield)
	}
	return s + Colorf(BrightBlack, "  spd %d", c.Speed) + "\n"
}

// RenderResult formats the victory or defeat summary.
func RenderResult(res battle.Result) string {
	var b strings.Builder
	b.WriteString("\n")
	if res.PlayerWon {
		b.WriteString(Colorize(Bold+BrightGreen, "VICTORY"))
	} else {
		b.WriteString(Colorize(Bold+BrightRed, "DEFEAT"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  winner: %s\n", res.Winner)
	fmt.Fprintf(&b, "  rounds fought: %d\n", res.Rounds)
	fmt.Fprintf(&b, "  final hp: you %d, enemy %d\n", res.PlayerHP, res.OpponentHP)
	return b.String()
}

func line(color, format string, args ...any) string {
	return Colorf(color, format, args...) + "\n"
}

// seconds formats s without trailing zeros, e.g. "1s", "0.5s".
func seconds(s float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", s), "0"), ".") + "s"
}
