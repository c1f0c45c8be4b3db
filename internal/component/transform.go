package component

import "github.com/go-gl/mathgl/mgl64"

// Transform places an entity in world space.
type Transform struct {
	Position mgl64.Vec2
	Scale    mgl64.Vec2
	Rotation float64 // degrees
}

// RigidBody moves its entity by Velocity pixels per second.
type RigidBody struct {
	Velocity mgl64.Vec2
}

// BoxCollider is an axis-aligned box relative to the entity's position,
// scaled by its Transform.
type BoxCollider struct {
	Width  int
	Height int
	Offset mgl64.Vec2
}

// CameraFollow marks the entity the camera tracks.
type CameraFollow struct{}
