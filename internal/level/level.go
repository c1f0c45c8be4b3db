package level

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/arena/internal/input"
	"gopkg.in/yaml.v3"
)

// Level is one YAML level file: the textures it uses, an optional tilemap,
// the entities to spawn and a scripted input sequence.
type Level struct {
	Assets   []Asset  `yaml:"assets"`
	Tilemap  *Tilemap `yaml:"tilemap"`
	Entities []Entity `yaml:"entities"`
	Inputs   []Press  `yaml:"inputs"`
}

type Asset struct {
	ID     string `yaml:"id"`
	Path   string `yaml:"path"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Tilemap rows hold comma-separated two-digit tile codes. The first digit
// is the tile's row in the source texture, the second its column.
type Tilemap struct {
	Asset    string   `yaml:"asset"`
	TileSize int      `yaml:"tile_size"`
	Scale    float64  `yaml:"scale"`
	Rows     []string `yaml:"rows"`
}

// Entity lists the components of one spawned entity. Nil blocks are absent.
type Entity struct {
	Tag   string `yaml:"tag"`
	Group string `yaml:"group"`

	Transform          *TransformDef `yaml:"transform"`
	RigidBody          *RigidBodyDef `yaml:"rigid_body"`
	Sprite             *SpriteDef    `yaml:"sprite"`
	Animation          *AnimationDef `yaml:"animation"`
	BoxCollider        *ColliderDef  `yaml:"box_collider"`
	KeyboardControlled *KeyboardDef  `yaml:"keyboard_controlled"`
	CameraFollow       bool          `yaml:"camera_follow"`
	Health             *HealthDef    `yaml:"health"`
	ProjectileEmitter  *EmitterDef   `yaml:"projectile_emitter"`
	Script             string        `yaml:"script"`
}

// Vec is a YAML [x, y] pair.
type Vec []float64

func (v Vec) vec2() (mgl64.Vec2, error) {
	switch len(v) {
	case 0:
		return mgl64.Vec2{}, nil
	case 2:
		return mgl64.Vec2{v[0], v[1]}, nil
	}
	return mgl64.Vec2{}, fmt.Errorf("vector needs 2 values, got %d", len(v))
}

type TransformDef struct {
	Position Vec     `yaml:"position"`
	Scale    Vec     `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
}

type RigidBodyDef struct {
	Velocity Vec `yaml:"velocity"`
}

type SpriteDef struct {
	Asset  string `yaml:"asset"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Z      int    `yaml:"z"`
	Fixed  bool   `yaml:"fixed"`
	SrcX   int    `yaml:"src_x"`
	SrcY   int    `yaml:"src_y"`
}

type AnimationDef struct {
	Frames    int  `yaml:"frames"`
	FrameRate int  `yaml:"frame_rate"`
	Loop      bool `yaml:"loop"`
}

type ColliderDef struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Offset Vec `yaml:"offset"`
}

type KeyboardDef struct {
	Up    Vec `yaml:"up"`
	Right Vec `yaml:"right"`
	Down  Vec `yaml:"down"`
	Left  Vec `yaml:"left"`
}

type HealthDef struct {
	Percentage int `yaml:"percentage"`
}

// EmitterDef durations are Go duration strings ("1500ms"). A zero repeat
// fires only on key press.
type EmitterDef struct {
	Velocity Vec           `yaml:"velocity"`
	Repeat   time.Duration `yaml:"repeat"`
	Duration time.Duration `yaml:"duration"`
	Damage   int           `yaml:"damage"`
	Friendly bool          `yaml:"friendly"`
}

// Press schedules a key for a frame of the input script.
type Press struct {
	Frame uint64 `yaml:"frame"`
	Key   string `yaml:"key"`
}

// Load reads and validates a level file.
func Load(path string) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}
	lvl, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("level: %s: %w", path, err)
	}
	return lvl, nil
}

// Parse decodes and validates level YAML.
func Parse(raw []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(raw, &lvl); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (l *Level) validate() error {
	var errs []error
	seen := make(map[string]bool, len(l.Assets))
	for i, a := range l.Assets {
		switch {
		case a.ID == "":
			errs = append(errs, fmt.Errorf("asset %d: missing id", i))
		case seen[a.ID]:
			errs = append(errs, fmt.Errorf("asset %q: duplicate id", a.ID))
		}
		seen[a.ID] = true
	}
	if tm := l.Tilemap; tm != nil {
		if tm.TileSize <= 0 {
			errs = append(errs, fmt.Errorf("tilemap: tile_size must be positive, got %d", tm.TileSize))
		}
		if _, err := tm.Grid(); err != nil {
			errs = append(errs, err)
		}
	}
	for i, p := range l.Inputs {
		if _, err := input.ParseKey(p.Key); err != nil {
			errs = append(errs, fmt.Errorf("input %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Tile is one decoded tilemap cell.
type Tile struct {
	Row, Col       int // position in the map
	SrcRow, SrcCol int // position in the source texture
}

// Grid decodes the rows into tiles, row-major. Every row must have the same
// number of cells.
func (tm *Tilemap) Grid() ([]Tile, error) {
	var (
		tiles []Tile
		cols  = -1
	)
	for r, row := range tm.Rows {
		cells := strings.Split(strings.TrimSpace(row), ",")
		if cols >= 0 && len(cells) != cols {
			return nil, fmt.Errorf("tilemap row %d: %d cells, want %d", r, len(cells), cols)
		}
		cols = len(cells)
		for c, cell := range cells {
			cell = strings.TrimSpace(cell)
			if len(cell) != 2 || !isDigit(cell[0]) || !isDigit(cell[1]) {
				return nil, fmt.Errorf("tilemap row %d col %d: bad tile code %q", r, c, cell)
			}
			tiles = append(tiles, Tile{
				Row:    r,
				Col:    c,
				SrcRow: int(cell[0] - '0'),
				SrcCol: int(cell[1] - '0'),
			})
		}
	}
	return tiles, nil
}

// Size returns the map size in pixels.
func (tm *Tilemap) Size() (width, height int) {
	if len(tm.Rows) == 0 {
		return 0, 0
	}
	cols := len(strings.Split(strings.TrimSpace(tm.Rows[0]), ","))
	side := float64(tm.TileSize) * tm.Scale
	return int(float64(cols) * side), int(float64(len(tm.Rows)) * side)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// InputScript builds the scripted input source from the level's presses.
// Unknown keys were rejected by Parse.
func (l *Level) InputScript() *input.Script {
	s := input.NewScript()
	for _, p := range l.Inputs {
		if k, err := input.ParseKey(p.Key); err == nil {
			s.Press(p.Frame, k)
		}
	}
	return s
}
