package main

import (
	"testing"

	"github.com/l1jgo/arena/internal/config"
)

func TestConfigPath(t *testing.T) {
	t.Setenv("ARENA_CONFIG", "")
	if got := configPath(""); got != "config/arena.toml" {
		t.Errorf("expected default path, got %q", got)
	}
	t.Setenv("ARENA_CONFIG", "/etc/arena.toml")
	if got := configPath(""); got != "/etc/arena.toml" {
		t.Errorf("expected env path, got %q", got)
	}
	if got := configPath("local.toml"); got != "local.toml" {
		t.Errorf("expected flag to win, got %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := newLogger(config.LoggingConfig{Level: "nonsense", Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !log.Core().Enabled(0) || log.Core().Enabled(-1) {
			t.Errorf("%s: expected unknown level to fall back to info", format)
		}
	}
}
