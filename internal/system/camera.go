package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/render"
	"go.uber.org/zap"
)

// CameraMovementSystem centres the camera on the followed entity and keeps
// it inside the map. Phase 2 (PostUpdate).
type CameraMovementSystem struct {
	ecs.BaseSystem
	reg    *ecs.Registry
	camera *render.Rect
	mapW   int
	mapH   int
	log    *zap.Logger
}

func NewCameraMovementSystem(reg *ecs.Registry, camera *render.Rect, log *zap.Logger) (*CameraMovementSystem, error) {
	s := &CameraMovementSystem{reg: reg, camera: camera, log: log}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.CameraFollow],
		ecs.RequireComponent[component.Transform],
	); err != nil {
		return nil, err
	}
	return s, nil
}

// SetMapSize sets the world bounds in pixels.
func (s *CameraMovementSystem) SetMapSize(w, h int) {
	s.mapW, s.mapH = w, h
}

func (s *CameraMovementSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *CameraMovementSystem) Update(_ time.Duration) {
	for _, e := range s.Entities() {
		tf, err := ecs.GetComponent[component.Transform](s.reg, e)
		if err != nil {
			s.log.Warn("camera: skipping entity", zap.Error(err))
			continue
		}
		s.camera.X = clamp(int(tf.Position.X())-s.camera.W/2, 0, s.mapW-s.camera.W)
		s.camera.Y = clamp(int(tf.Position.Y())-s.camera.H/2, 0, s.mapH-s.camera.H)
	}
}

// clamp bounds v to [lo, hi]; a map smaller than the camera pins it at lo.
func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
