package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/input"
	"go.uber.org/zap"
)

// Projectile sprite and collider size, in pixels.
const (
	ProjectileAsset = "bullet-image"
	projectileSize  = 4
	projectileZ     = 4
)

// ProjectileEmitSystem spawns projectiles. Emitters with a RepeatFrequency
// fire on their own timer; camera-followed emitters fire on Space in the
// direction their rigid body is moving. Phase 1 (Update).
type ProjectileEmitSystem struct {
	ecs.BaseSystem
	reg   *ecs.Registry
	clock *coresys.Clock
	log   *zap.Logger
}

func NewProjectileEmitSystem(reg *ecs.Registry, clock *coresys.Clock, log *zap.Logger) (*ProjectileEmitSystem, error) {
	s := &ProjectileEmitSystem{reg: reg, clock: clock, log: log}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.ProjectileEmitter],
		ecs.RequireComponent[component.Transform],
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ProjectileEmitSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ProjectileEmitSystem) SubscribeToEvents(bus *event.Bus) error {
	return event.Subscribe(bus, s, s.onKeyPressed)
}

func (s *ProjectileEmitSystem) onKeyPressed(ev *event.KeyPressedEvent) {
	if ev.Key != input.KeySpace {
		return
	}
	for _, e := range s.Entities() {
		if !ecs.HasComponent[component.CameraFollow](s.reg, e) {
			continue
		}
		em, tf, err := s.emitter(e)
		if err != nil {
			s.log.Warn("projectile: skipping emitter", zap.Error(err))
			continue
		}
		var heading mgl64.Vec2
		if rb, err := ecs.GetComponent[component.RigidBody](s.reg, e); err == nil {
			heading = rb.Velocity
		}
		if err := s.spawn(e, tf, em, aim(em.Velocity, heading)); err != nil {
			s.log.Warn("projectile spawn failed", zap.Error(err))
		}
	}
}

func (s *ProjectileEmitSystem) Update(_ time.Duration) {
	now := s.clock.Now()
	for _, e := range s.Entities() {
		em, tf, err := s.emitter(e)
		if err != nil {
			s.log.Warn("projectile: skipping emitter", zap.Error(err))
			continue
		}
		if em.RepeatFrequency <= 0 || now-em.LastEmission <= em.RepeatFrequency {
			continue
		}
		if err := s.spawn(e, tf, em, em.Velocity); err != nil {
			s.log.Warn("projectile spawn failed", zap.Error(err))
			continue
		}
		em.LastEmission = now
	}
}

func (s *ProjectileEmitSystem) emitter(e ecs.EntityID) (*component.ProjectileEmitter, *component.Transform, error) {
	em, err1 := ecs.GetComponent[component.ProjectileEmitter](s.reg, e)
	tf, err2 := ecs.GetComponent[component.Transform](s.reg, e)
	if err := errors.Join(err1, err2); err != nil {
		return nil, nil, err
	}
	return em, tf, nil
}

// aim points speed along the sign of heading on each axis. A shot that would
// not move, such as one from a stationary shooter, fires up.
func aim(speed, heading mgl64.Vec2) mgl64.Vec2 {
	sign := func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}
	v := mgl64.Vec2{speed.X() * sign(heading.X()), speed.Y() * sign(heading.Y())}
	if v.X() == 0 && v.Y() == 0 {
		return mgl64.Vec2{0, -speed.Y()}
	}
	return v
}

// spawn creates a projectile at the centre of owner's sprite, or at its
// position when it has none. The new entity joins systems at the next commit.
func (s *ProjectileEmitSystem) spawn(owner ecs.EntityID, tf *component.Transform, em *component.ProjectileEmitter, vel mgl64.Vec2) error {
	pos := tf.Position
	if sp, err := ecs.GetComponent[component.Sprite](s.reg, owner); err == nil {
		pos = pos.Add(mgl64.Vec2{
			float64(sp.Width/2) * tf.Scale.X(),
			float64(sp.Height/2) * tf.Scale.Y(),
		})
	}

	id := s.reg.CreateEntity()
	if err := errors.Join(
		ecs.AddComponent(s.reg, id, component.Transform{Position: pos, Scale: mgl64.Vec2{1, 1}}),
		ecs.AddComponent(s.reg, id, component.RigidBody{Velocity: vel}),
		ecs.AddComponent(s.reg, id, component.NewSprite(ProjectileAsset, projectileSize, projectileSize, projectileZ, false, 0, 0)),
		ecs.AddComponent(s.reg, id, component.BoxCollider{Width: projectileSize, Height: projectileSize}),
		ecs.AddComponent(s.reg, id, component.Projectile{
			IsFriendly:       em.IsFriendly,
			HitPercentDamage: em.HitPercentDamage,
			Duration:         em.Duration,
			StartTime:        s.clock.Now(),
		}),
	); err != nil {
		s.reg.KillEntity(id)
		return fmt.Errorf("spawn projectile from %d: %w", owner, err)
	}
	s.reg.GroupEntity(id, GroupProjectiles)
	s.log.Debug("projectile spawned",
		zap.Uint32("owner", uint32(owner)),
		zap.Uint32("entity", uint32(id)),
		zap.Bool("friendly", em.IsFriendly))
	return nil
}

// ProjectileLifecycleSystem kills projectiles whose duration has elapsed.
// Phase 2 (PostUpdate).
type ProjectileLifecycleSystem struct {
	ecs.BaseSystem
	reg   *ecs.Registry
	clock *coresys.Clock
	log   *zap.Logger
}

func NewProjectileLifecycleSystem(reg *ecs.Registry, clock *coresys.Clock, log *zap.Logger) (*ProjectileLifecycleSystem, error) {
	s := &ProjectileLifecycleSystem{reg: reg, clock: clock, log: log}
	if err := require(reg, &s.BaseSystem, ecs.RequireComponent[component.Projectile]); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ProjectileLifecycleSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ProjectileLifecycleSystem) Update(_ time.Duration) {
	now := s.clock.Now()
	for _, e := range s.Entities() {
		p, err := ecs.GetComponent[component.Projectile](s.reg, e)
		if err != nil {
			s.log.Warn("projectile: skipping entity", zap.Error(err))
			continue
		}
		if now-p.StartTime > p.Duration {
			s.reg.KillEntity(e)
		}
	}
}
