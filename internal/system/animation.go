package system

import (
	"errors"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"go.uber.org/zap"
)

// AnimationSystem advances sprite-sheet animations from the simulation
// clock. Phase 1 (Update).
type AnimationSystem struct {
	ecs.BaseSystem
	reg   *ecs.Registry
	clock *coresys.Clock
	log   *zap.Logger
}

func NewAnimationSystem(reg *ecs.Registry, clock *coresys.Clock, log *zap.Logger) (*AnimationSystem, error) {
	s := &AnimationSystem{reg: reg, clock: clock, log: log}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.Sprite],
		ecs.RequireComponent[component.Animation],
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *AnimationSystem) Update(_ time.Duration) {
	now := s.clock.Now()
	for _, e := range s.Entities() {
		sp, err1 := ecs.GetComponent[component.Sprite](s.reg, e)
		an, err2 := ecs.GetComponent[component.Animation](s.reg, e)
		if err := errors.Join(err1, err2); err != nil {
			s.log.Warn("animation: skipping entity", zap.Error(err))
			continue
		}
		if an.NumFrames <= 0 {
			continue
		}
		an.CurrentFrame = frameAt(an, now)
		sp.Src.X = an.CurrentFrame * sp.Width
	}
}

// frameAt returns the frame shown at now. Non-looping animations hold
// their last frame.
func frameAt(an *component.Animation, now time.Duration) int {
	elapsed := now - an.StartTime
	if elapsed < 0 {
		return 0
	}
	frame := int(elapsed.Milliseconds() * int64(an.FrameRate) / 1000)
	if !an.Loop && frame >= an.NumFrames {
		return an.NumFrames - 1
	}
	return frame % an.NumFrames
}
