package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Window  WindowConfig  `toml:"window"`
	Paths   PathsConfig   `toml:"paths"`
	ECS     ECSConfig     `toml:"ecs"`
	Logging LoggingConfig `toml:"logging"`
}

// MaxFPS bounds game.fps so the frame duration stays a usable ticker interval.
const MaxFPS = 1000

type GameConfig struct {
	Title     string `toml:"title"`
	FPS       int    `toml:"fps"`
	MaxFrames uint64 `toml:"max_frames"` // 0 = run until quit
	Debug     bool   `toml:"debug"`      // collider overlay at start
}

// FrameDuration is the fixed simulation step.
func (g GameConfig) FrameDuration() time.Duration {
	return time.Second / time.Duration(g.FPS)
}

type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type PathsConfig struct {
	Level   string `toml:"level"`
	Scripts string `toml:"scripts"`
}

type ECSConfig struct {
	MaxEventDepth int `toml:"max_event_depth"` // nested Emit limit
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	var errs []error
	if c.Game.FPS <= 0 {
		errs = append(errs, fmt.Errorf("game.fps must be positive, got %d", c.Game.FPS))
	} else if c.Game.FPS > MaxFPS {
		errs = append(errs, fmt.Errorf("game.fps must be at most %d, got %d", MaxFPS, c.Game.FPS))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.ECS.MaxEventDepth <= 0 {
		errs = append(errs, fmt.Errorf("ecs.max_event_depth must be positive, got %d", c.ECS.MaxEventDepth))
	}
	if c.Paths.Level == "" {
		errs = append(errs, errors.New("paths.level is required"))
	}
	return errors.Join(errs...)
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			Title: "Arena",
			FPS:   60,
		},
		Window: WindowConfig{
			Width:  800,
			Height: 600,
		},
		Paths: PathsConfig{
			Level:   "data/levels/jungle.yaml",
			Scripts: "scripts",
		},
		ECS: ECSConfig{
			MaxEventDepth: 16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
