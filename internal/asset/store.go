package asset

import (
	"fmt"

	"github.com/l1jgo/arena/internal/render"
	"go.uber.org/zap"
)

// Store maps asset ids to texture handles.
type Store struct {
	textures map[string]render.Texture
	log      *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{
		textures: make(map[string]render.Texture, 16),
		log:      log,
	}
}

// AddTexture registers a texture under id, replacing any previous one.
func (s *Store) AddTexture(id, path string, width, height int) {
	s.textures[id] = render.Texture{ID: id, Path: path, Width: width, Height: height}
	s.log.Debug("texture added", zap.String("asset", id), zap.String("path", path))
}

// Texture returns the texture registered under id.
func (s *Store) Texture(id string) (render.Texture, error) {
	tex, ok := s.textures[id]
	if !ok {
		return render.Texture{}, fmt.Errorf("texture %q not loaded", id)
	}
	return tex, nil
}

// Clear drops every asset.
func (s *Store) Clear() {
	clear(s.textures)
}

func (s *Store) Count() int { return len(s.textures) }
