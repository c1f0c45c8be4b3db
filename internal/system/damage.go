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

const (
	TagPlayer        = "player"
	GroupEnemies     = "enemies"
	GroupProjectiles = "projectiles"
)

// DamageSystem applies projectile hits reported by CollisionEvent. Enemy
// projectiles hurt the player, friendly ones hurt the enemies group. A
// projectile that lands is killed with its target's health at or below zero.
type DamageSystem struct {
	ecs.BaseSystem
	reg *ecs.Registry
	log *zap.Logger
}

func NewDamageSystem(reg *ecs.Registry, log *zap.Logger) (*DamageSystem, error) {
	s := &DamageSystem{reg: reg, log: log}
	if err := require(reg, &s.BaseSystem, ecs.RequireComponent[component.BoxCollider]); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DamageSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Update is a no-op; all work happens in the collision handler.
func (s *DamageSystem) Update(_ time.Duration) {}

func (s *DamageSystem) SubscribeToEvents(bus *event.Bus) error {
	return event.Subscribe(bus, s, s.onCollision)
}

func (s *DamageSystem) onCollision(ev *event.CollisionEvent) {
	s.log.Debug("collision",
		zap.Uint32("a", uint32(ev.A)),
		zap.Uint32("b", uint32(ev.B)))

	for _, pair := range [2][2]ecs.EntityID{{ev.A, ev.B}, {ev.B, ev.A}} {
		shot, target := pair[0], pair[1]
		if !s.reg.EntityBelongsToGroup(shot, GroupProjectiles) {
			continue
		}
		switch {
		case s.reg.EntityHasTag(target, TagPlayer):
			s.hit(shot, target, false)
		case s.reg.EntityBelongsToGroup(target, GroupEnemies):
			s.hit(shot, target, true)
		}
	}
}

// hit applies shot to target when the projectile's allegiance is friendly.
func (s *DamageSystem) hit(shot, target ecs.EntityID, friendly bool) {
	p, err1 := ecs.GetComponent[component.Projectile](s.reg, shot)
	hp, err2 := ecs.GetComponent[component.Health](s.reg, target)
	if err := errors.Join(err1, err2); err != nil {
		s.log.Warn("damage: skipping hit", zap.Error(err))
		return
	}
	if p.IsFriendly != friendly {
		return
	}

	hp.Percentage -= p.HitPercentDamage
	s.log.Debug("entity hit",
		zap.Uint32("target", uint32(target)),
		zap.Int("damage", p.HitPercentDamage),
		zap.Int("health", hp.Percentage))
	if hp.Percentage <= 0 {
		s.reg.KillEntity(target)
	}
	s.reg.KillEntity(shot)
}
