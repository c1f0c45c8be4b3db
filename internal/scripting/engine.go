package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM running entity behaviour scripts.
// Single-goroutine access only (game loop).
//
// Scripts see a global "entity" table:
//
//	entity.get_position(id) -> x, y
//	entity.set_position(id, x, y)
//	entity.get_velocity(id) -> x, y
//	entity.set_velocity(id, x, y)
//	entity.has_tag(id, tag) -> bool
//	entity.kill(id)
//
// and a global log(msg).
type Engine struct {
	vm  *lua.LState
	reg *ecs.Registry
	log *zap.Logger
}

// NewEngine creates a Lua engine bound to reg and loads scripts from
// scriptsDir: core/ first, then the top level, then ai/. A missing
// directory is skipped.
func NewEngine(scriptsDir string, reg *ecs.Registry, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, reg: reg, log: log}
	e.registerBindings()

	if scriptsDir == "" {
		return e, nil
	}
	for _, dir := range []string{filepath.Join(scriptsDir, "core"), scriptsDir, filepath.Join(scriptsDir, "ai")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts %s: %w", dir, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, typically function definitions.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function called name exists.
func (e *Engine) HasFunction(name string) bool {
	return e.vm.GetGlobal(name).Type() == lua.LTFunction
}

// CallUpdate calls the global Lua function fn(id, dt).
func (e *Engine) CallUpdate(fn string, id ecs.EntityID, dt float64) error {
	f := e.vm.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return fmt.Errorf("lua function %s not found", fn)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(id), lua.LNumber(dt)); err != nil {
		return fmt.Errorf("call %s(%d): %w", fn, id, err)
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

func (e *Engine) registerBindings() {
	mod := e.vm.NewTable()
	e.vm.SetFuncs(mod, map[string]lua.LGFunction{
		"get_position": e.getPosition,
		"set_position": e.setPosition,
		"get_velocity": e.getVelocity,
		"set_velocity": e.setVelocity,
		"has_tag":      e.hasTag,
		"kill":         e.kill,
	})
	e.vm.SetGlobal("entity", mod)
	e.vm.SetGlobal("log", e.vm.NewFunction(e.luaLog))
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	v := float64(L.CheckNumber(n))
	if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		L.ArgError(n, "entity id out of range")
		return 0
	}
	return ecs.EntityID(v)
}

func pushVec2(L *lua.LState, v mgl64.Vec2) int {
	L.Push(lua.LNumber(v.X()))
	L.Push(lua.LNumber(v.Y()))
	return 2
}

func (e *Engine) getPosition(L *lua.LState) int {
	tf, err := ecs.GetComponent[component.Transform](e.reg, checkEntity(L, 1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	return pushVec2(L, tf.Position)
}

func (e *Engine) setPosition(L *lua.LState) int {
	tf, err := ecs.GetComponent[component.Transform](e.reg, checkEntity(L, 1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	tf.Position = mgl64.Vec2{float64(L.CheckNumber(2)), float64(L.CheckNumber(3))}
	return 0
}

func (e *Engine) getVelocity(L *lua.LState) int {
	rb, err := ecs.GetComponent[component.RigidBody](e.reg, checkEntity(L, 1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	return pushVec2(L, rb.Velocity)
}

func (e *Engine) setVelocity(L *lua.LState) int {
	rb, err := ecs.GetComponent[component.RigidBody](e.reg, checkEntity(L, 1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	rb.Velocity = mgl64.Vec2{float64(L.CheckNumber(2)), float64(L.CheckNumber(3))}
	return 0
}

func (e *Engine) hasTag(L *lua.LState) int {
	L.Push(lua.LBool(e.reg.EntityHasTag(checkEntity(L, 1), L.CheckString(2))))
	return 1
}

func (e *Engine) kill(L *lua.LState) int {
	e.reg.KillEntity(checkEntity(L, 1))
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
