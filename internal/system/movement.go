package system

import (
	"errors"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"go.uber.org/zap"
)

// MovementSystem integrates velocity into position. Phase 1 (Update).
type MovementSystem struct {
	ecs.BaseSystem
	reg *ecs.Registry
	log *zap.Logger
}

func NewMovementSystem(reg *ecs.Registry, log *zap.Logger) (*MovementSystem, error) {
	s := &MovementSystem{reg: reg, log: log}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.Transform],
		ecs.RequireComponent[component.RigidBody],
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for _, e := range s.Entities() {
		tf, err1 := ecs.GetComponent[component.Transform](s.reg, e)
		rb, err2 := ecs.GetComponent[component.RigidBody](s.reg, e)
		if err := errors.Join(err1, err2); err != nil {
			s.log.Warn("movement: skipping entity", zap.Error(err))
			continue
		}
		tf.Position = tf.Position.Add(rb.Velocity.Mul(secs))
	}
}
