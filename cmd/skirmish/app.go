package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/frontend/console"
	"github.com/cory-johannsen/skirmish/internal/game/battle"
	"github.com/cory-johannsen/skirmish/internal/input"
	"github.com/cory-johannsen/skirmish/internal/server"
)

// App is one assembled battle: the engine, its input reader and the renderer.
type App struct {
	Engine    *battle.Engine
	Sides     battle.Sides
	Reader    *input.Reader
	Renderer  *console.Renderer
	Lifecycle *server.Lifecycle
	Logger    *zap.Logger
}

// Run reads player input in the background and plays the battle in the foreground.
// An interrupted battle returns nil; only real failures are reported.
func (a *App) Run(ctx context.Context) error {
	readCtx, stopReading := context.WithCancel(ctx)
	a.Lifecycle.Add("input", &server.FuncService{
		StartFn: func() error { return a.Reader.Run(readCtx) },
		StopFn:  stopReading,
	})

	a.Renderer.Intro(a.Sides.Player.Name(), a.Sides.Opponent.Name())
	err := a.Lifecycle.Run(ctx, func(ctx context.Context) error {
		res, err := a.Engine.Run(ctx)
		if err != nil {
			return err
		}
		a.Renderer.Result(res)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		a.Logger.Info("battle interrupted")
		return nil
	}
	return err
}
