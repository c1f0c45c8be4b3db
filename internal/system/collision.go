package system

import (
	"errors"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"go.uber.org/zap"
)

// CollisionSystem tests every pair of colliders and emits a CollisionEvent
// for each overlapping pair. Phase 1 (Update), after movement.
type CollisionSystem struct {
	ecs.BaseSystem
	reg *ecs.Registry
	bus *event.Bus
	log *zap.Logger
}

func NewCollisionSystem(reg *ecs.Registry, bus *event.Bus, log *zap.Logger) (*CollisionSystem, error) {
	s := &CollisionSystem{reg: reg, bus: bus, log: log}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.Transform],
		ecs.RequireComponent[component.BoxCollider],
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *CollisionSystem) Update(_ time.Duration) {
	entities := s.Entities()
	boxes := make([]aabb, len(entities))
	ok := make([]bool, len(entities))
	for i, e := range entities {
		box, err := s.box(e)
		if err != nil {
			s.log.Warn("collision: skipping entity", zap.Error(err))
			continue
		}
		boxes[i], ok[i] = box, true
	}

	for i := 0; i < len(entities); i++ {
		if !ok[i] {
			continue
		}
		for j := i + 1; j < len(entities); j++ {
			if !ok[j] || !boxes[i].overlaps(boxes[j]) {
				continue
			}
			if err := event.Emit(s.bus, event.CollisionEvent{A: entities[i], B: entities[j]}); err != nil {
				s.log.Warn("collision event dropped",
					zap.Uint32("a", uint32(entities[i])),
					zap.Uint32("b", uint32(entities[j])),
					zap.Error(err))
			}
		}
	}
}

// box returns e's collider in world space. Offset and size are scaled by
// the transform.
func (s *CollisionSystem) box(e ecs.EntityID) (aabb, error) {
	tf, err1 := ecs.GetComponent[component.Transform](s.reg, e)
	bc, err2 := ecs.GetComponent[component.BoxCollider](s.reg, e)
	if err := errors.Join(err1, err2); err != nil {
		return aabb{}, err
	}
	return colliderBox(tf, bc), nil
}

type aabb struct {
	X, Y, W, H float64
}

func (a aabb) overlaps(b aabb) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

func colliderBox(tf *component.Transform, bc *component.BoxCollider) aabb {
	return aabb{
		X: tf.Position.X() + bc.Offset.X()*tf.Scale.X(),
		Y: tf.Position.Y() + bc.Offset.Y()*tf.Scale.Y(),
		W: float64(bc.Width) * tf.Scale.X(),
		H: float64(bc.Height) * tf.Scale.Y(),
	}
}
