package component

import (
	"time"

	"github.com/l1jgo/arena/internal/render"
)

// Sprite draws a region of an asset-store texture.
// Fixed sprites are drawn in screen space and ignore the camera.
type Sprite struct {
	AssetID string
	Width   int
	Height  int
	ZIndex  int
	Fixed   bool
	Src     render.Rect
}

// NewSprite builds a sprite whose source rectangle starts at (srcX, srcY)
// and has the sprite's size.
func NewSprite(assetID string, width, height, zIndex int, fixed bool, srcX, srcY int) Sprite {
	return Sprite{
		AssetID: assetID,
		Width:   width,
		Height:  height,
		ZIndex:  zIndex,
		Fixed:   fixed,
		Src:     render.Rect{X: srcX, Y: srcY, W: width, H: height},
	}
}

// Animation cycles a horizontal sprite strip.
type Animation struct {
	NumFrames    int
	CurrentFrame int
	FrameRate    int // frames per second
	Loop         bool
	StartTime    time.Duration
}
