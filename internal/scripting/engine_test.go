package scripting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"go.uber.org/zap/zaptest"
)

func newEntity(t *testing.T, reg *ecs.Registry) ecs.EntityID {
	t.Helper()
	id := reg.CreateEntity()
	if err := ecs.AddComponent(reg, id, component.Transform{Position: mgl64.Vec2{10, 20}, Scale: mgl64.Vec2{1, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.AddComponent(reg, id, component.RigidBody{}); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestBindingsReadAndWriteComponents(t *testing.T) {
	reg := ecs.NewRegistry(zaptest.NewLogger(t))
	id := newEntity(t, reg)
	reg.TagEntity(id, "player")

	e, err := NewEngine("", reg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if err := e.LoadString(`
function patrol(id, dt)
  local x, y = entity.get_position(id)
  entity.set_position(id, x + 1, y * 2)
  if entity.has_tag(id, "player") then
    entity.set_velocity(id, 5, -5)
  end
  log("patrolled")
end
`); err != nil {
		t.Fatal(err)
	}
	if !e.HasFunction("patrol") {
		t.Fatal("expected patrol to be defined")
	}
	if err := e.CallUpdate("patrol", id, 0.016); err != nil {
		t.Fatal(err)
	}

	tf, _ := ecs.GetComponent[component.Transform](reg, id)
	if tf.Position != (mgl64.Vec2{11, 40}) {
		t.Errorf("expected position (11,40), got %v", tf.Position)
	}
	rb, _ := ecs.GetComponent[component.RigidBody](reg, id)
	if rb.Velocity != (mgl64.Vec2{5, -5}) {
		t.Errorf("expected velocity (5,-5), got %v", rb.Velocity)
	}
}

func TestKillBindingDefersToUpdate(t *testing.T) {
	reg := ecs.NewRegistry(zaptest.NewLogger(t))
	id := newEntity(t, reg)
	reg.Update()

	e, err := NewEngine("", reg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.LoadString(`function die(id, dt) entity.kill(id) end`)

	if err := e.CallUpdate("die", id, 0); err != nil {
		t.Fatal(err)
	}
	if !reg.IsAlive(id) {
		t.Fatal("expected entity alive until Update")
	}
	reg.Update()
	if reg.IsAlive(id) {
		t.Error("expected entity dead after Update")
	}
}

func TestCallErrors(t *testing.T) {
	reg := ecs.NewRegistry(zaptest.NewLogger(t))
	e, err := NewEngine("", reg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if err := e.CallUpdate("nope", 0, 0); err == nil {
		t.Error("expected error for undefined function")
	}
	e.LoadString(`function touch(id, dt) entity.get_position(id) end`)
	if err := e.CallUpdate("touch", 7, 0); err == nil {
		t.Error("expected error for entity without transform")
	}
}

func TestEntityIDOutOfRange(t *testing.T) {
	reg := ecs.NewRegistry(zaptest.NewLogger(t))
	newEntity(t, reg)
	newEntity(t, reg) // id 1, which 2^32+1 would wrap to

	e, err := NewEngine("", reg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	for _, src := range []string{
		`function far(id, dt) entity.get_position(4294967297) end`,
		`function far(id, dt) entity.get_position(-1) end`,
		`function far(id, dt) entity.get_position(1.5) end`,
	} {
		if err := e.LoadString(src); err != nil {
			t.Fatal(err)
		}
		err := e.CallUpdate("far", 0, 0)
		if err == nil || !strings.Contains(err.Error(), "entity id out of range") {
			t.Errorf("%s: expected out of range error, got %v", src, err)
		}
	}
}

func TestNewEngineLoadsScriptDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "ai"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ai", "drift.lua"), []byte("function drift(id, dt) end\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEngine(dir, ecs.NewRegistry(zaptest.NewLogger(t)), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if !e.HasFunction("drift") {
		t.Error("expected drift loaded from ai/")
	}
}

func TestNewEngineReportsBadScript(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, ecs.NewRegistry(zaptest.NewLogger(t)), zaptest.NewLogger(t)); err == nil {
		t.Error("expected parse error")
	}
}

func TestShippedPatrolScript(t *testing.T) {
	reg := ecs.NewRegistry(zaptest.NewLogger(t))
	id := newEntity(t, reg)

	e, err := NewEngine(filepath.Join("..", "..", "scripts"), reg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if !e.HasFunction("patrol") || !e.HasFunction("clamp") {
		t.Fatal("expected patrol and clamp loaded")
	}

	// x=10 is left of the left post, so the entity turns right.
	if err := e.CallUpdate("patrol", id, 0.016); err != nil {
		t.Fatal(err)
	}
	rb, _ := ecs.GetComponent[component.RigidBody](reg, id)
	if rb.Velocity != (mgl64.Vec2{40, 0}) {
		t.Errorf("expected velocity (40,0), got %v", rb.Velocity)
	}
}
