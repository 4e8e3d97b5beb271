// Package config provides Viper-based configuration loading for the battle binary.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MaxEquippedSkills mirrors the combat package's skill slot count.
const MaxEquippedSkills = 2

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File redirects log output to a file; empty means stderr.
	File string `mapstructure:"file"`
}

// BattleConfig holds the round engine's timing.
type BattleConfig struct {
	// RoundDuration is the fixed length of every round.
	RoundDuration time.Duration `mapstructure:"round_duration"`
	// TickInterval is the target cadence of the round loop.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// EnemyActionBuffer is the closing slice of a round in which the enemy never acts.
	EnemyActionBuffer time.Duration `mapstructure:"enemy_action_buffer"`
	// PlayerInitialCooldown locks every player card at battle start.
	PlayerInitialCooldown time.Duration `mapstructure:"player_initial_cooldown"`
	// EnemyInitialCooldown locks the enemy's card at battle start.
	EnemyInitialCooldown time.Duration `mapstructure:"enemy_initial_cooldown"`
}

// PlayerConfig describes the player's loadout.
type PlayerConfig struct {
	Name   string   `mapstructure:"name"`
	MaxHP  int      `mapstructure:"max_hp"`
	Speed  int      `mapstructure:"speed"`
	Cards  []string `mapstructure:"cards"`
	Skills []string `mapstructure:"skills"`
}

// EnemyConfig selects the opponent.
type EnemyConfig struct {
	// Template is the enemy template ID from the content catalog.
	Template string `mapstructure:"template"`
}

// ContentConfig names the YAML template directories.
type ContentConfig struct {
	CardsDir   string `mapstructure:"cards_dir"`
	SkillsDir  string `mapstructure:"skills_dir"`
	EnemiesDir string `mapstructure:"enemies_dir"`
}

// ScriptingConfig holds Lua settings.
type ScriptingConfig struct {
	// ScriptDir holds *.lua hook files; empty disables scripting.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Battle    BattleConfig    `mapstructure:"battle"`
	Player    PlayerConfig    `mapstructure:"player"`
	Enemy     EnemyConfig     `mapstructure:"enemy"`
	Content   ContentConfig   `mapstructure:"content"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, err := range []error{
		validateLogging(c.Logging),
		validateBattle(c.Battle),
		validatePlayer(c.Player),
		validateEnemy(c.Enemy),
		validateContent(c.Content),
		validateScripting(c.Scripting),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.RoundDuration <= 0 {
		errs = append(errs, "battle.round_duration must be > 0")
	}
	if b.TickInterval <= 0 {
		errs = append(errs, "battle.tick_interval must be > 0")
	} else if b.TickInterval > b.RoundDuration {
		errs = append(errs, "battle.tick_interval must not exceed battle.round_duration")
	}
	if b.EnemyActionBuffer < 0 || b.EnemyActionBuffer >= b.RoundDuration {
		errs = append(errs, fmt.Sprintf("battle.enemy_action_buffer must be within [0, round_duration), got %s", b.EnemyActionBuffer))
	}
	if b.PlayerInitialCooldown < 0 {
		errs = append(errs, "battle.player_initial_cooldown must not be negative")
	}
	if b.EnemyInitialCooldown < 0 {
		errs = append(errs, "battle.enemy_initial_cooldown must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	if p.Name == "" {
		errs = append(errs, "player.name must not be empty")
	}
	if p.MaxHP < 1 {
		errs = append(errs, fmt.Sprintf("player.max_hp must be >= 1, got %d", p.MaxHP))
	}
	if p.Speed < 0 {
		errs = append(errs, fmt.Sprintf("player.speed must be >= 0, got %d", p.Speed))
	}
	if len(p.Cards) == 0 {
		errs = append(errs, "player.cards must not be empty")
	}
	if len(p.Skills) > MaxEquippedSkills {
		errs = append(errs, fmt.Sprintf("player.skills must hold at most %d entries, got %d", MaxEquippedSkills, len(p.Skills)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEnemy(e EnemyConfig) error {
	if e.Template == "" {
		return errors.New("enemy.template must not be empty")
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.CardsDir == "" {
		errs = append(errs, "content.cards_dir must not be empty")
	}
	if c.SkillsDir == "" {
		errs = append(errs, "content.skills_dir must not be empty")
	}
	if c.EnemiesDir == "" {
		errs = append(errs, "content.enemies_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// newViper returns a Viper with defaults and SKIRMISH_ environment overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	v.SetDefault("battle.round_duration", "5s")
	v.SetDefault("battle.tick_interval", "100ms")
	v.SetDefault("battle.enemy_action_buffer", "300ms")
	v.SetDefault("battle.player_initial_cooldown", "1s")
	v.SetDefault("battle.enemy_initial_cooldown", "2s")

	v.SetDefault("player.name", "Hero")
	v.SetDefault("player.max_hp", 3)
	v.SetDefault("player.speed", 3)
	v.SetDefault("player.cards", []string{"attack", "defense"})
	v.SetDefault("player.skills", []string{"emergency_heal", "fast_cycle"})

	v.SetDefault("enemy.template", "slime")

	v.SetDefault("content.cards_dir", "content/cards")
	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.enemies_dir", "content/enemies")

	v.SetDefault("scripting.script_dir", "content/scripts")
	v.SetDefault("scripting.instruction_limit", 0)
}
