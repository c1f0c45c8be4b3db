package component

import "github.com/go-gl/mathgl/mgl64"

// KeyboardControlled sets the rigid body velocity per arrow key, clockwise
// from up.
type KeyboardControlled struct {
	Up    mgl64.Vec2
	Right mgl64.Vec2
	Down  mgl64.Vec2
	Left  mgl64.Vec2
}

// Script binds an entity to a Lua function called every frame with
// (entity, dt seconds).
type Script struct {
	Function string
}
