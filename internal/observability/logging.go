// Package observability builds the process logger.
//
// Stdout belongs to the battle display, so logs are written to stderr or to a
// configured file and never interleave with round banners or prompts.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// NewLogger creates the battle logger from cfg.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a logger that never writes to stdout, or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	zapCfg, err := baseConfig(cfg.Format)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = sinkPaths(cfg.File)
	zapCfg.ErrorOutputPaths = sinkPaths(cfg.File)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger for %v: %w", zapCfg.OutputPaths, err)
	}
	return logger, nil
}

func baseConfig(format string) (zap.Config, error) {
	switch format {
	case "json":
		return zap.NewProductionConfig(), nil
	case "console":
		return zap.NewDevelopmentConfig(), nil
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", format)
	}
}

// sinkPaths routes log output to file when set, otherwise to stderr.
func sinkPaths(file string) []string {
	if file == "" {
		return []string{"stderr"}
	}
	return []string{file}
}
