package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/input"
	"github.com/l1jgo/arena/internal/render"
	"go.uber.org/zap/zaptest"
)

const testLevel = `
assets:
  - {id: jungle, path: jungle.png, width: 320, height: 96}
  - {id: chopper, path: chopper.png, width: 64, height: 128}
  - {id: tank, path: tank.png, width: 32, height: 32}
  - {id: bullet-image, path: bullet.png, width: 4, height: 4}
tilemap:
  asset: jungle
  tile_size: 32
  scale: 1
  rows: ["00,01", "10,11"]
entities:
  - tag: player
    transform: {position: [10, 10]}
    rigid_body: {velocity: [0, 0]}
    sprite: {asset: chopper, width: 32, height: 32, z: 1}
    box_collider: {width: 32, height: 32}
    keyboard_controlled: {up: [0, -80], right: [80, 0], down: [0, 80], left: [-80, 0]}
    camera_follow: true
    health: {percentage: 100}
    projectile_emitter: {velocity: [200, 200], duration: 5s, damage: 10, friendly: true}
  - group: enemies
    transform: {position: [100, 10]}
    rigid_body: {velocity: [0, 0]}
    sprite: {asset: tank, width: 32, height: 32, z: 1}
    box_collider: {width: 32, height: 32}
    health: {percentage: 10}
    script: sink
`

const testScript = `
function sink(id, dt)
  entity.set_velocity(id, 0, 10)
end
`

func newTestGame(t *testing.T, tweak func(*config.Config)) (*Game, *render.Recorder) {
	t.Helper()
	dir := t.TempDir()
	levelPath := filepath.Join(dir, "level.yaml")
	if err := os.WriteFile(levelPath, []byte(testLevel), 0o644); err != nil {
		t.Fatal(err)
	}
	scripts := filepath.Join(dir, "scripts")
	if err := os.MkdirAll(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scripts, "sink.lua"), []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Game.FPS = 10
	cfg.Paths.Level = levelPath
	cfg.Paths.Scripts = scripts
	if tweak != nil {
		tweak(cfg)
	}

	log := zaptest.NewLogger(t)
	rec := render.NewRecorder(log)
	g := New(cfg, rec, log)
	t.Cleanup(g.Close)
	return g, rec
}

func setup(t *testing.T, g *Game, src input.Source) {
	t.Helper()
	if src != nil {
		g.SetInput(src)
	}
	if err := g.Setup(); err != nil {
		t.Fatal(err)
	}
}

func step(t *testing.T, g *Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := g.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func position(t *testing.T, g *Game, id ecs.EntityID) mgl64.Vec2 {
	t.Helper()
	tf, err := ecs.GetComponent[component.Transform](g.Registry(), id)
	if err != nil {
		t.Fatal(err)
	}
	return tf.Position
}

func TestStepBeforeSetup(t *testing.T) {
	g, _ := newTestGame(t, nil)
	if err := g.Step(); !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
	if err := g.Run(context.Background()); !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup from Run, got %v", err)
	}
	if err := g.ProcessInput(); !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup from ProcessInput, got %v", err)
	}
}

func TestFirstFrameCommitsAndRenders(t *testing.T) {
	g, rec := newTestGame(t, nil)
	setup(t, g, input.NewScript())
	step(t, g, 1)

	if n := g.Registry().NumEntities(); n != 6 {
		t.Errorf("expected 4 tiles and 2 entities, got %d", n)
	}
	if rec.Frames() != 1 {
		t.Errorf("expected 1 presented frame, got %d", rec.Frames())
	}
	calls := rec.Last()
	if len(calls) != 6 {
		t.Fatalf("expected 6 draws, got %d", len(calls))
	}
	for i := 0; i < 4; i++ {
		if calls[i].Texture.ID != "jungle" {
			t.Errorf("draw %d: expected tile first, got %s", i, calls[i].Texture.ID)
		}
	}
	if g.Now() != 100*time.Millisecond {
		t.Errorf("expected clock at 100ms, got %v", g.Now())
	}
	if g.Session().String() == "" {
		t.Error("expected a session id")
	}
}

func TestKeyboardMovesPlayerAndScriptRuns(t *testing.T) {
	g, _ := newTestGame(t, nil)
	keys := input.NewScript()
	keys.Press(1, input.KeyRight)
	setup(t, g, keys)
	step(t, g, 2)

	player, err := g.Registry().GetEntityByTag("player")
	if err != nil {
		t.Fatal(err)
	}
	if got := position(t, g, player); got != (mgl64.Vec2{18, 10}) {
		t.Errorf("expected player at (18,10), got %v", got)
	}

	enemies, err := g.Registry().GetEntitiesByGroup("enemies")
	if err != nil || len(enemies) != 1 {
		t.Fatalf("expected one enemy, got %v (%v)", enemies, err)
	}
	if got := position(t, g, enemies[0]); got != (mgl64.Vec2{100, 12}) {
		t.Errorf("expected scripted enemy at (100,12), got %v", got)
	}
}

func TestProjectileKillsEnemy(t *testing.T) {
	g, _ := newTestGame(t, nil)
	keys := input.NewScript()
	keys.Press(1, input.KeyRight)
	keys.Press(2, input.KeySpace)
	setup(t, g, keys)
	step(t, g, 1)

	enemies, err := g.Registry().GetEntitiesByGroup("enemies")
	if err != nil {
		t.Fatal(err)
	}
	enemy := enemies[0]

	step(t, g, 4) // frames 1-4: the shot travels toward the enemy
	if !g.Registry().IsAlive(enemy) {
		t.Fatal("expected enemy alive before the hit")
	}
	shots, err := g.Registry().GetEntitiesByGroup("projectiles")
	if err != nil || len(shots) != 1 {
		t.Fatalf("expected one projectile, got %v (%v)", shots, err)
	}
	if got := position(t, g, shots[0]); got != (mgl64.Vec2{94, 26}) {
		t.Errorf("expected projectile at (94,26), got %v", got)
	}

	step(t, g, 2) // frame 5 hits, frame 6 commits the kills
	if g.Registry().IsAlive(enemy) {
		t.Error("expected enemy killed")
	}
	if g.Registry().IsAlive(shots[0]) {
		t.Error("expected projectile killed")
	}
}

func TestEscapeAndDebugKeys(t *testing.T) {
	g, rec := newTestGame(t, nil)
	keys := input.NewScript()
	keys.Press(1, input.KeyDebug)
	keys.Press(3, input.KeyEscape)
	setup(t, g, keys)

	step(t, g, 2)
	if !g.DebugOverlay() {
		t.Fatal("expected debug overlay on")
	}
	var rects int
	for _, c := range rec.Last() {
		if c.Kind == render.DrawRectCall {
			rects++
		}
	}
	if rects != 2 {
		t.Errorf("expected 2 collider outlines, got %d", rects)
	}

	if !g.Running() {
		t.Fatal("expected game running")
	}
	step(t, g, 2)
	if g.Running() {
		t.Error("expected escape to stop the game")
	}
}

func TestDebugConfigStartsWithOverlay(t *testing.T) {
	g, _ := newTestGame(t, func(c *config.Config) { c.Game.Debug = true })
	setup(t, g, input.NewScript())
	if !g.DebugOverlay() {
		t.Error("expected overlay enabled from config")
	}
}

func TestRunStopsAtMaxFrames(t *testing.T) {
	g, rec := newTestGame(t, func(c *config.Config) {
		c.Game.FPS = 500
		c.Game.MaxFrames = 5
	})
	setup(t, g, input.NewScript())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if g.Frame() != 5 || rec.Frames() != 5 {
		t.Errorf("expected 5 frames, got %d (presented %d)", g.Frame(), rec.Frames())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g, _ := newTestGame(t, nil)
	setup(t, g, input.NewScript())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if g.Frame() != 0 {
		t.Errorf("expected no frames after cancel, got %d", g.Frame())
	}
}

func TestSetupFailsOnMissingLevel(t *testing.T) {
	g, _ := newTestGame(t, func(c *config.Config) { c.Paths.Level = "does/not/exist.yaml" })
	if err := g.Setup(); err == nil {
		t.Error("expected level load error")
	}
}
