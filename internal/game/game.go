package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/asset"
	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/input"
	"github.com/l1jgo/arena/internal/level"
	"github.com/l1jgo/arena/internal/render"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/system"
	"go.uber.org/zap"
)

// ErrNotSetup is returned when a frame is stepped before Setup.
var ErrNotSetup = errors.New("game not set up")

// subscriber is implemented by systems that react to bus events. They are
// re-subscribed at the start of every Update, after the bus is reset.
type subscriber interface {
	SubscribeToEvents(bus *event.Bus) error
}

// Game drives the frame loop: input, simulation, render. One goroutine only.
type Game struct {
	cfg      *config.Config
	log      *zap.Logger
	session  uuid.UUID
	renderer render.Renderer

	reg    *ecs.Registry
	bus    *event.Bus
	runner *coresys.Runner
	clock  *coresys.Clock
	assets *asset.Store
	lua    *scripting.Engine
	input  input.Source
	camera render.Rect

	cameraSys   *system.CameraMovementSystem
	colliderSys *system.RenderColliderSystem

	frameDur time.Duration
	frame    uint64
	running  bool
	ready    bool
}

// New creates a game drawing to renderer. Every log line carries a session
// id so several runs can share one log sink.
func New(cfg *config.Config, renderer render.Renderer, log *zap.Logger) *Game {
	session := uuid.New()
	log = log.With(zap.String("session", session.String()))
	return &Game{
		cfg:      cfg,
		log:      log,
		session:  session,
		renderer: renderer,
		reg:      ecs.NewRegistry(log.Named("ecs")),
		bus:      event.NewBus(cfg.ECS.MaxEventDepth, log.Named("event")),
		runner:   coresys.NewRunner(),
		clock:    &coresys.Clock{},
		assets:   asset.NewStore(log.Named("asset")),
		camera:   render.Rect{W: cfg.Window.Width, H: cfg.Window.Height},
		frameDur: cfg.Game.FrameDuration(),
	}
}

// SetInput replaces the input source. Without one, Setup uses the level's
// scripted inputs.
func (g *Game) SetInput(src input.Source) { g.input = src }

func (g *Game) Session() uuid.UUID { return g.session }
func (g *Game) Registry() *ecs.Registry { return g.reg }
func (g *Game) Camera() render.Rect { return g.camera }
func (g *Game) Frame() uint64 { return g.frame }
func (g *Game) Running() bool { return g.running }
func (g *Game) Now() time.Duration { return g.clock.Now() }
func (g *Game) DebugOverlay() bool { return g.colliderSys != nil && g.colliderSys.Enabled() }

// Setup loads the level and scripts, registers the systems and spawns the
// level's entities. The spawned entities are committed by the first Update.
func (g *Game) Setup() error {
	lvl, err := level.Load(g.cfg.Paths.Level)
	if err != nil {
		return err
	}

	g.lua, err = scripting.NewEngine(g.cfg.Paths.Scripts, g.reg, g.log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}

	if err := g.registerSystems(); err != nil {
		return fmt.Errorf("register systems: %w", err)
	}

	spawned, err := level.Spawn(lvl, g.reg, g.assets, g.log.Named("level"))
	if err != nil {
		return fmt.Errorf("spawn level: %w", err)
	}
	mapW, mapH := spawned.MapWidth, spawned.MapHeight
	if mapW == 0 || mapH == 0 {
		mapW, mapH = g.camera.W, g.camera.H
	}
	g.cameraSys.SetMapSize(mapW, mapH)

	if g.input == nil {
		g.input = lvl.InputScript()
	}
	if g.cfg.Game.Debug {
		g.colliderSys.Toggle()
	}
	if err := g.subscribe(); err != nil {
		return err
	}

	g.running = true
	g.ready = true
	g.log.Info("game ready",
		zap.String("level", g.cfg.Paths.Level),
		zap.Int("systems", g.runner.Len()),
		zap.Duration("frame", g.frameDur))
	return nil
}

// registerSystems adds each system to the registry and the runner. Within a
// phase, systems run in the order listed here.
func (g *Game) registerSystems() error {
	g.runner.Register(system.NewCommitSystem(g.reg))

	script, err := system.NewScriptSystem(g.reg, g.lua, g.log)
	if err := register(g, script, err); err != nil {
		return err
	}
	keyboard, err := system.NewKeyboardControlSystem(g.reg, g.log)
	if err := register(g, keyboard, err); err != nil {
		return err
	}
	movement, err := system.NewMovementSystem(g.reg, g.log)
	if err := register(g, movement, err); err != nil {
		return err
	}
	animation, err := system.NewAnimationSystem(g.reg, g.clock, g.log)
	if err := register(g, animation, err); err != nil {
		return err
	}
	collision, err := system.NewCollisionSystem(g.reg, g.bus, g.log)
	if err := register(g, collision, err); err != nil {
		return err
	}
	damage, err := system.NewDamageSystem(g.reg, g.log)
	if err := register(g, damage, err); err != nil {
		return err
	}
	emit, err := system.NewProjectileEmitSystem(g.reg, g.clock, g.log)
	if err := register(g, emit, err); err != nil {
		return err
	}
	g.cameraSys, err = system.NewCameraMovementSystem(g.reg, &g.camera, g.log)
	if err := register(g, g.cameraSys, err); err != nil {
		return err
	}
	lifecycle, err := system.NewProjectileLifecycleSystem(g.reg, g.clock, g.log)
	if err := register(g, lifecycle, err); err != nil {
		return err
	}
	rs, err := system.NewRenderSystem(g.reg, g.renderer, g.assets, &g.camera, g.log)
	if err := register(g, rs, err); err != nil {
		return err
	}
	g.colliderSys, err = system.NewRenderColliderSystem(g.reg, g.renderer, &g.camera, g.log)
	return register(g, g.colliderSys, err)
}

func register[S interface {
	ecs.System
	coresys.System
}](g *Game, s S, err error) error {
	if err != nil {
		return err
	}
	if err := ecs.AddSystem(g.reg, s); err != nil {
		return err
	}
	g.runner.Register(s)
	return nil
}

func (g *Game) subscribe() error {
	for _, s := range g.reg.Systems() {
		if sub, ok := s.(subscriber); ok {
			if err := sub.SubscribeToEvents(g.bus); err != nil {
				return fmt.Errorf("subscribe %T: %w", s, err)
			}
		}
	}
	return nil
}

// ProcessInput polls this frame's keys. Escape stops the game, the debug key
// toggles the collider overlay, anything else goes out as a KeyPressedEvent.
func (g *Game) ProcessInput() error {
	if !g.ready {
		return ErrNotSetup
	}
	for _, key := range g.input.Poll(g.frame) {
		switch key {
		case input.KeyEscape:
			g.log.Info("quit requested", zap.Uint64("frame", g.frame))
			g.running = false
		case input.KeyDebug:
			on := g.colliderSys.Toggle()
			g.log.Info("collider overlay", zap.Bool("enabled", on))
		default:
			if err := event.Emit(g.bus, event.KeyPressedEvent{Key: key}); err != nil {
				g.log.Warn("key event dropped", zap.Stringer("key", key), zap.Error(err))
			}
		}
	}
	return nil
}

// Update runs one simulation step: the bus is reset and resubscribed, then
// the commit, update and post-update phases run in order.
func (g *Game) Update(dt time.Duration) error {
	g.clock.Advance(dt)
	g.bus.Reset()
	if err := g.subscribe(); err != nil {
		return err
	}
	for _, phase := range coresys.SimulationPhases {
		g.runner.TickPhase(phase, dt)
	}
	return nil
}

// Render draws the current frame.
func (g *Game) Render() {
	g.renderer.Clear(render.Background)
	g.runner.TickPhase(coresys.PhaseRender, g.frameDur)
	g.renderer.Present()
}

// Step runs one whole frame. It stops the game once max_frames is reached.
func (g *Game) Step() error {
	if !g.ready {
		return ErrNotSetup
	}
	if err := g.ProcessInput(); err != nil {
		return err
	}
	if err := g.Update(g.frameDur); err != nil {
		return fmt.Errorf("frame %d: %w", g.frame, err)
	}
	g.Render()
	g.frame++
	if limit := g.cfg.Game.MaxFrames; limit > 0 && g.frame >= limit {
		g.running = false
	}
	return nil
}

// Run steps a frame per tick of the configured FPS until the game stops or
// ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	if !g.ready {
		return ErrNotSetup
	}
	ticker := time.NewTicker(g.frameDur)
	defer ticker.Stop()

	g.log.Info("game loop started", zap.Int("fps", g.cfg.Game.FPS))
	for g.running {
		select {
		case <-ctx.Done():
			g.log.Info("game loop cancelled", zap.Uint64("frames", g.frame))
			return nil
		case <-ticker.C:
			if err := g.Step(); err != nil {
				return err
			}
		}
	}
	g.log.Info("game loop stopped", zap.Uint64("frames", g.frame))
	return nil
}

// Close releases the script engine.
func (g *Game) Close() {
	if g.lua != nil {
		g.lua.Close()
		g.lua = nil
	}
	g.assets.Clear()
	g.ready = false
	g.running = false
}
