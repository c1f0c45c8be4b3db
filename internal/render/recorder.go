package render

import (
	"image/color"

	"go.uber.org/zap"
)

type DrawKind int

const (
	DrawTextureCall DrawKind = iota
	DrawRectCall
)

// DrawCall is one recorded draw.
type DrawCall struct {
	Kind     DrawKind
	Texture  Texture
	Src      Rect
	Dst      Rect
	Rotation float64
	Color    color.RGBA
}

// Recorder is a headless Renderer. It keeps the draw calls of the last
// presented frame and counts frames.
type Recorder struct {
	log     *zap.Logger
	pending []DrawCall
	last    []DrawCall
	frames  int
}

func NewRecorder(log *zap.Logger) *Recorder {
	return &Recorder{log: log}
}

func (r *Recorder) Clear(color.RGBA) {
	r.pending = r.pending[:0]
}

func (r *Recorder) DrawTexture(tex Texture, src, dst Rect, rotation float64) {
	r.pending = append(r.pending, DrawCall{Kind: DrawTextureCall, Texture: tex, Src: src, Dst: dst, Rotation: rotation})
}

func (r *Recorder) DrawRect(rect Rect, c color.RGBA) {
	r.pending = append(r.pending, DrawCall{Kind: DrawRectCall, Dst: rect, Color: c})
}

func (r *Recorder) Present() {
	r.last = append(r.last[:0], r.pending...)
	r.pending = r.pending[:0]
	r.frames++
	r.log.Debug("frame presented", zap.Int("frame", r.frames), zap.Int("draws", len(r.last)))
}

// Last returns the draw calls of the last presented frame.
func (r *Recorder) Last() []DrawCall { return r.last }

// Frames returns how many frames were presented.
func (r *Recorder) Frames() int { return r.frames }
