package system

import (
	"errors"
	"sort"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/render"
	"go.uber.org/zap"
)

// TextureSource resolves sprite asset ids.
type TextureSource interface {
	Texture(id string) (render.Texture, error)
}

// RenderSystem draws sprites back to front by z-index. Sprites are placed
// relative to the camera unless Fixed, and anything outside the camera is
// skipped. Phase 3 (Render).
type RenderSystem struct {
	ecs.BaseSystem
	reg      *ecs.Registry
	renderer render.Renderer
	assets   TextureSource
	camera   *render.Rect
	log      *zap.Logger

	missing map[string]struct{} // asset ids already warned about
}

func NewRenderSystem(reg *ecs.Registry, renderer render.Renderer, assets TextureSource, camera *render.Rect, log *zap.Logger) (*RenderSystem, error) {
	s := &RenderSystem{
		reg:      reg,
		renderer: renderer,
		assets:   assets,
		camera:   camera,
		log:      log,
		missing:  make(map[string]struct{}),
	}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.Transform],
		ecs.RequireComponent[component.Sprite],
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

type renderable struct {
	tf *component.Transform
	sp *component.Sprite
}

func (s *RenderSystem) Update(_ time.Duration) {
	entities := s.Entities()
	items := make([]renderable, 0, len(entities))
	for _, e := range entities {
		tf, err1 := ecs.GetComponent[component.Transform](s.reg, e)
		sp, err2 := ecs.GetComponent[component.Sprite](s.reg, e)
		if err := errors.Join(err1, err2); err != nil {
			s.log.Warn("render: skipping entity", zap.Error(err))
			continue
		}
		items = append(items, renderable{tf: tf, sp: sp})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].sp.ZIndex < items[j].sp.ZIndex
	})

	for _, it := range items {
		dst := render.Rect{
			X: int(it.tf.Position.X()),
			Y: int(it.tf.Position.Y()),
			W: int(float64(it.sp.Width) * it.tf.Scale.X()),
			H: int(float64(it.sp.Height) * it.tf.Scale.Y()),
		}
		if !it.sp.Fixed {
			if !dst.Intersects(*s.camera) {
				continue
			}
			dst.X -= s.camera.X
			dst.Y -= s.camera.Y
		}
		tex, err := s.assets.Texture(it.sp.AssetID)
		if err != nil {
			if _, seen := s.missing[it.sp.AssetID]; !seen {
				s.missing[it.sp.AssetID] = struct{}{}
				s.log.Warn("render: missing texture", zap.String("asset", it.sp.AssetID), zap.Error(err))
			}
			continue
		}
		s.renderer.DrawTexture(tex, it.sp.Src, dst, it.tf.Rotation)
	}
}

// RenderColliderSystem outlines colliders while the debug overlay is on.
// Phase 3 (Render).
type RenderColliderSystem struct {
	ecs.BaseSystem
	reg      *ecs.Registry
	renderer render.Renderer
	camera   *render.Rect
	enabled  bool
	log      *zap.Logger
}

func NewRenderColliderSystem(reg *ecs.Registry, renderer render.Renderer, camera *render.Rect, log *zap.Logger) (*RenderColliderSystem, error) {
	s := &RenderColliderSystem{reg: reg, renderer: renderer, camera: camera, log: log}
	if err := require(reg, &s.BaseSystem,
		ecs.RequireComponent[component.Transform],
		ecs.RequireComponent[component.BoxCollider],
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RenderColliderSystem) Enabled() bool { return s.enabled }

// Toggle flips the overlay and returns the new state.
func (s *RenderColliderSystem) Toggle() bool {
	s.enabled = !s.enabled
	return s.enabled
}

func (s *RenderColliderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderColliderSystem) Update(_ time.Duration) {
	if !s.enabled {
		return
	}
	for _, e := range s.Entities() {
		tf, err1 := ecs.GetComponent[component.Transform](s.reg, e)
		bc, err2 := ecs.GetComponent[component.BoxCollider](s.reg, e)
		if err := errors.Join(err1, err2); err != nil {
			s.log.Warn("collider overlay: skipping entity", zap.Error(err))
			continue
		}
		box := colliderBox(tf, bc)
		s.renderer.DrawRect(render.Rect{
			X: int(box.X) - s.camera.X,
			Y: int(box.Y) - s.camera.Y,
			W: int(box.W),
			H: int(box.H),
		}, render.ColliderLine)
	}
}
