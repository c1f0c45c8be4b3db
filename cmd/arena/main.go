package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/game"
	"github.com/l1jgo/arena/internal/render"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgFlag := flag.String("config", "", "path to the TOML config (default $ARENA_CONFIG or config/arena.toml)")
	profMode := flag.String("profile", "", "write a profile to the working directory: cpu or mem")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(configPath(*cfgFlag))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch *profMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profMode)
	}

	// 3. Build the game against the headless renderer
	g := game.New(cfg, render.NewRecorder(log.Named("render")), log)
	defer g.Close()
	if err := g.Setup(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	log.Info("arena started",
		zap.String("title", cfg.Game.Title),
		zap.Stringer("session", g.Session()),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))

	// 4. Run until quit, max_frames or a signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := g.Run(ctx); err != nil {
		return err
	}
	log.Info("arena stopped", zap.Uint64("frames", g.Frame()))
	return nil
}

func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		return p
	}
	return "config/arena.toml"
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
