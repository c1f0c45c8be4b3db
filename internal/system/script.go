package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"go.uber.org/zap"
)

// ScriptRunner calls a named script function for one entity.
type ScriptRunner interface {
	CallUpdate(fn string, id ecs.EntityID, dt float64) error
}

// ScriptSystem runs each entity's Lua behaviour once per frame. Phase 1
// (Update), registered ahead of movement so scripted velocity applies in
// the same frame.
type ScriptSystem struct {
	ecs.BaseSystem
	reg *ecs.Registry
	lua ScriptRunner
	log *zap.Logger
}

func NewScriptSystem(reg *ecs.Registry, lua ScriptRunner, log *zap.Logger) (*ScriptSystem, error) {
	s := &ScriptSystem{reg: reg, lua: lua, log: log}
	if err := require(reg, &s.BaseSystem, ecs.RequireComponent[component.Script]); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for _, e := range s.Entities() {
		sc, err := ecs.GetComponent[component.Script](s.reg, e)
		if err != nil {
			s.log.Warn("script: skipping entity", zap.Error(err))
			continue
		}
		if err := s.lua.CallUpdate(sc.Function, e, secs); err != nil {
			s.log.Warn("script failed", zap.Uint32("entity", uint32(e)), zap.Error(err))
		}
	}
}
