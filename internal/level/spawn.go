package level

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/arena/internal/asset"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"go.uber.org/zap"
)

// TilesGroup holds every tilemap entity.
const TilesGroup = "tiles"

// Spawned summarises what Spawn created.
type Spawned struct {
	Tiles     int
	Entities  int
	MapWidth  int
	MapHeight int
}

// Spawn registers the level's textures in assets and creates its tiles and
// entities in reg. Entities join systems at the next Registry.Update.
func Spawn(lvl *Level, reg *ecs.Registry, assets *asset.Store, log *zap.Logger) (Spawned, error) {
	var out Spawned
	for _, a := range lvl.Assets {
		assets.AddTexture(a.ID, a.Path, a.Width, a.Height)
	}

	if tm := lvl.Tilemap; tm != nil {
		n, err := spawnTiles(tm, reg)
		if err != nil {
			return out, err
		}
		out.Tiles = n
		out.MapWidth, out.MapHeight = tm.Size()
	}

	for i := range lvl.Entities {
		if _, err := spawnEntity(&lvl.Entities[i], reg); err != nil {
			return out, fmt.Errorf("entity %d (%s): %w", i, lvl.Entities[i].Tag, err)
		}
		out.Entities++
	}

	log.Info("level spawned",
		zap.Int("assets", len(lvl.Assets)),
		zap.Int("tiles", out.Tiles),
		zap.Int("entities", out.Entities),
		zap.Int("map_width", out.MapWidth),
		zap.Int("map_height", out.MapHeight))
	return out, nil
}

func spawnTiles(tm *Tilemap, reg *ecs.Registry) (int, error) {
	tiles, err := tm.Grid()
	if err != nil {
		return 0, err
	}
	side := float64(tm.TileSize) * tm.Scale
	for _, t := range tiles {
		id := reg.CreateEntity()
		if err := errors.Join(
			ecs.AddComponent(reg, id, component.Transform{
				Position: mgl64.Vec2{float64(t.Col) * side, float64(t.Row) * side},
				Scale:    mgl64.Vec2{tm.Scale, tm.Scale},
			}),
			ecs.AddComponent(reg, id, component.NewSprite(tm.Asset, tm.TileSize, tm.TileSize, 0, false,
				t.SrcCol*tm.TileSize, t.SrcRow*tm.TileSize)),
		); err != nil {
			return 0, fmt.Errorf("tile (%d,%d): %w", t.Row, t.Col, err)
		}
		reg.GroupEntity(id, TilesGroup)
	}
	return len(tiles), nil
}

func spawnEntity(def *Entity, reg *ecs.Registry) (ecs.EntityID, error) {
	id := reg.CreateEntity()
	if err := addComponents(def, reg, id); err != nil {
		reg.KillEntity(id)
		return id, err
	}
	if def.Tag != "" {
		reg.TagEntity(id, def.Tag)
	}
	if def.Group != "" {
		reg.GroupEntity(id, def.Group)
	}
	return id, nil
}

func addComponents(def *Entity, reg *ecs.Registry, id ecs.EntityID) error {
	if t := def.Transform; t != nil {
		pos, err1 := t.Position.vec2()
		scale, err2 := t.Scale.vec2()
		if err := errors.Join(err1, err2); err != nil {
			return fmt.Errorf("transform: %w", err)
		}
		if len(t.Scale) == 0 {
			scale = mgl64.Vec2{1, 1}
		}
		if err := ecs.AddComponent(reg, id, component.Transform{Position: pos, Scale: scale, Rotation: t.Rotation}); err != nil {
			return err
		}
	}
	if rb := def.RigidBody; rb != nil {
		vel, err := rb.Velocity.vec2()
		if err != nil {
			return fmt.Errorf("rigid_body: %w", err)
		}
		if err := ecs.AddComponent(reg, id, component.RigidBody{Velocity: vel}); err != nil {
			return err
		}
	}
	if sp := def.Sprite; sp != nil {
		if err := ecs.AddComponent(reg, id, component.NewSprite(sp.Asset, sp.Width, sp.Height, sp.Z, sp.Fixed, sp.SrcX, sp.SrcY)); err != nil {
			return err
		}
	}
	if an := def.Animation; an != nil {
		if an.Frames <= 0 {
			return fmt.Errorf("animation: frames must be positive, got %d", an.Frames)
		}
		if err := ecs.AddComponent(reg, id, component.Animation{
			NumFrames: an.Frames,
			FrameRate: an.FrameRate,
			Loop:      an.Loop,
		}); err != nil {
			return err
		}
	}
	if bc := def.BoxCollider; bc != nil {
		off, err := bc.Offset.vec2()
		if err != nil {
			return fmt.Errorf("box_collider: %w", err)
		}
		if err := ecs.AddComponent(reg, id, component.BoxCollider{Width: bc.Width, Height: bc.Height, Offset: off}); err != nil {
			return err
		}
	}
	if kc := def.KeyboardControlled; kc != nil {
		up, err1 := kc.Up.vec2()
		right, err2 := kc.Right.vec2()
		down, err3 := kc.Down.vec2()
		left, err4 := kc.Left.vec2()
		if err := errors.Join(err1, err2, err3, err4); err != nil {
			return fmt.Errorf("keyboard_controlled: %w", err)
		}
		if err := ecs.AddComponent(reg, id, component.KeyboardControlled{Up: up, Right: right, Down: down, Left: left}); err != nil {
			return err
		}
	}
	if def.CameraFollow {
		if err := ecs.AddComponent(reg, id, component.CameraFollow{}); err != nil {
			return err
		}
	}
	if h := def.Health; h != nil {
		if err := ecs.AddComponent(reg, id, component.Health{Percentage: h.Percentage}); err != nil {
			return err
		}
	}
	if em := def.ProjectileEmitter; em != nil {
		vel, err := em.Velocity.vec2()
		if err != nil {
			return fmt.Errorf("projectile_emitter: %w", err)
		}
		if err := ecs.AddComponent(reg, id, component.ProjectileEmitter{
			Velocity:         vel,
			RepeatFrequency:  em.Repeat,
			Duration:         em.Duration,
			HitPercentDamage: em.Damage,
			IsFriendly:       em.Friendly,
		}); err != nil {
			return err
		}
	}
	if def.Script != "" {
		if err := ecs.AddComponent(reg, id, component.Script{Function: def.Script}); err != nil {
			return err
		}
	}
	return nil
}
