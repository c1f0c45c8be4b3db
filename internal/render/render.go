package render

import "image/color"

// Rect is an integer rectangle in pixels.
type Rect struct {
	X, Y, W, H int
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Texture is an opaque handle handed out by the asset store.
type Texture struct {
	ID     string
	Path   string
	Width  int
	Height int
}

var (
	Background   = color.RGBA{R: 21, G: 21, B: 21, A: 255}
	ColliderLine = color.RGBA{R: 255, A: 255}
)

// Renderer is the drawing backend the render systems write to.
type Renderer interface {
	Clear(c color.RGBA)
	DrawTexture(tex Texture, src, dst Rect, rotation float64)
	DrawRect(r Rect, c color.RGBA)
	Present()
}
