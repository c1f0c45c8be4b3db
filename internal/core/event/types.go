package event

import (
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/input"
)

// CollisionEvent reports that the colliders of A and B overlap this tick.
type CollisionEvent struct {
	A ecs.EntityID
	B ecs.EntityID
}

// KeyPressedEvent carries one key press from the input source.
type KeyPressedEvent struct {
	Key input.Key
}
