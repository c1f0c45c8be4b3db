package component

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Health is a percentage; the entity dies at zero or below.
type Health struct {
	Percentage int
}

// ProjectileEmitter spawns projectiles. A zero RepeatFrequency means the
// emitter only fires on demand (player key press).
type ProjectileEmitter struct {
	Velocity         mgl64.Vec2
	RepeatFrequency  time.Duration
	Duration         time.Duration
	HitPercentDamage int
	IsFriendly       bool
	LastEmission     time.Duration
}

// Projectile is a live shot; it expires Duration after StartTime.
type Projectile struct {
	IsFriendly       bool
	HitPercentDamage int
	Duration         time.Duration
	StartTime        time.Duration
}
