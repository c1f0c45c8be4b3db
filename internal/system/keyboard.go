package system

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/input"
	"go.uber.org/zap"
)

// KeyboardControlSystem steers keyboard-controlled entities: an arrow key
// sets the velocity from KeyboardControlled and selects the matching
// sprite-sheet row (up, right, down, left).
type KeyboardControlSystem struct {
	ecs.BaseSystem
	reg *ecs.Registry
	log *zap.Logger
}

func NewKeyboardControlSystem(reg *ecs.Registry, log *zap.Logger) (*KeyboardControlSystem, error) {
	s := &KeyboardControlSystem{reg: reg, log: log}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.KeyboardControlled],
		ecs.RequireComponent[component.Sprite],
		ecs.RequireComponent[component.RigidBody],
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *KeyboardControlSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Update is a no-op; velocity changes only on key events.
func (s *KeyboardControlSystem) Update(_ time.Duration) {}

func (s *KeyboardControlSystem) SubscribeToEvents(bus *event.Bus) error {
	return event.Subscribe(bus, s, s.onKeyPressed)
}

func (s *KeyboardControlSystem) onKeyPressed(ev *event.KeyPressedEvent) {
	for _, e := range s.Entities() {
		kc, err1 := ecs.GetComponent[component.KeyboardControlled](s.reg, e)
		sp, err2 := ecs.GetComponent[component.Sprite](s.reg, e)
		rb, err3 := ecs.GetComponent[component.RigidBody](s.reg, e)
		if err := errors.Join(err1, err2, err3); err != nil {
			s.log.Warn("keyboard: skipping entity", zap.Error(err))
			continue
		}

		var (
			vel mgl64.Vec2
			row int
		)
		switch ev.Key {
		case input.KeyUp:
			vel, row = kc.Up, 0
		case input.KeyRight:
			vel, row = kc.Right, 1
		case input.KeyDown:
			vel, row = kc.Down, 2
		case input.KeyLeft:
			vel, row = kc.Left, 3
		default:
			return
		}
		rb.Velocity = vel
		sp.Src.Y = sp.Height * row
	}
}
