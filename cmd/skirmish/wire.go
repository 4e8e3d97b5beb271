//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/frontend/console"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/input"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/server"
)

func initializeApp(cfg config.Config, stdin Stdin, stdout Stdout, color ColorOutput) (*App, func(), error) {
	wire.Build(
		wire.FieldsOf(new(config.Config), "Logging", "Battle", "Player", "Enemy", "Content", "Scripting"),
		provideLogger,
		provideRegistry,
		provideScripts,
		wire.Bind(new(catalog.DodgeHooks), new(*scripting.Manager)),
		provideSource,
		provideSides,
		provideBattleConfig,
		input.NewQueue,
		wire.Bind(new(battle.Inbox), new(*input.Queue)),
		provideReader,
		provideRenderer,
		wire.Bind(new(battle.EventSink), new(*console.Renderer)),
		battle.NewSystemClock,
		wire.Bind(new(battle.Clock), new(battle.SystemClock)),
		battle.NewEngine,
		server.NewLifecycle,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
