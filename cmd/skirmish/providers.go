package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/frontend/console"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/input"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// ColorOutput enables ANSI colour in the console renderer.
type ColorOutput bool

// Stdin is the player's input stream.
type Stdin io.Reader

// Stdout is where the battle is rendered.
type Stdout io.Writer

func provideLogger(cfg config.LoggingConfig) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideRegistry(cfg config.ContentConfig, logger *zap.Logger) (*catalog.Registry, error) {
	reg, err := catalog.LoadRegistry(catalog.Dirs{
		Cards:   cfg.CardsDir,
		Skills:  cfg.SkillsDir,
		Enemies: cfg.EnemiesDir,
	})
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	logger.Info("content loaded", zap.Strings("enemies", reg.EnemyIDs()))
	return reg, nil
}

// provideScripts loads the Lua hooks. An empty script dir leaves the manager
// unloaded, so scripted enemies fall back to their static dodge chance.
func provideScripts(cfg config.ScriptingConfig, logger *zap.Logger) (*scripting.Manager, func(), error) {
	mgr := scripting.NewManager(logger)
	if cfg.ScriptDir == "" {
		logger.Info("scripting disabled")
		return mgr, mgr.Close, nil
	}
	if err := mgr.Load(cfg.ScriptDir, cfg.InstructionLimit); err != nil {
		return nil, nil, fmt.Errorf("loading scripts: %w", err)
	}
	return mgr, mgr.Close, nil
}

func provideSource(logger *zap.Logger) dice.Source {
	return dice.NewLoggedSource(dice.NewCryptoSource(), logger)
}

func provideSides(pc config.PlayerConfig, ec config.EnemyConfig, bc config.BattleConfig, reg *catalog.Registry, hooks catalog.DodgeHooks) (battle.Sides, error) {
	player, err := catalog.NewPlayer(catalog.Loadout{
		Name:   pc.Name,
		MaxHP:  pc.MaxHP,
		Speed:  pc.Speed,
		Cards:  pc.Cards,
		Skills: pc.Skills,
	}, reg, bc.PlayerInitialCooldown)
	if err != nil {
		return battle.Sides{}, err
	}
	opp, card, err := catalog.NewOpponent(reg, ec.Template, hooks, bc.EnemyInitialCooldown)
	if err != nil {
		return battle.Sides{}, err
	}
	return battle.Sides{Player: player, Opponent: opp, OpponentAction: card}, nil
}

func provideBattleConfig(bc config.BattleConfig) battle.Config {
	return battle.Config{
		RoundDuration: bc.RoundDuration,
		TickInterval:  bc.TickInterval,
		ActionBuffer:  bc.EnemyActionBuffer,
	}
}

func provideReader(stdin Stdin, queue *input.Queue, logger *zap.Logger) *input.Reader {
	return input.NewReader(stdin, queue, logger)
}

func provideRenderer(stdout Stdout, color ColorOutput) *console.Renderer {
	return console.NewRenderer(stdout, bool(color))
}
