// Package main provides the skirmish binary: a real-time, round-based battle
// between the player at the terminal and a computer-controlled opponent.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	enemy := flag.String("enemy", "", "enemy template ID; overrides enemy.template")
	noColor := flag.Bool("no-color", false, "disable ANSI colours")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *enemy != "" {
		cfg.Enemy.Template = *enemy
	}

	app, cleanup, err := initializeApp(cfg, os.Stdin, os.Stdout, ColorOutput(!*noColor))
	if err != nil {
		log.Fatalf("initializing: %v", err)
	}
	defer cleanup()

	app.Logger.Info("skirmish ready",
		zap.String("battle_id", app.Engine.ID()),
		zap.String("enemy", cfg.Enemy.Template),
		zap.Duration("startup", time.Since(start)),
	)

	if err := app.Run(context.Background()); err != nil {
		app.Logger.Error("battle failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}
