package system

import (
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	coresys "github.com/l1jgo/arena/internal/core/system"
)

// CommitSystem flushes the registry's deferred entity adds and kills at
// frame start. Phase 0 (Commit).
type CommitSystem struct {
	reg *ecs.Registry
}

func NewCommitSystem(reg *ecs.Registry) *CommitSystem {
	return &CommitSystem{reg: reg}
}

func (s *CommitSystem) Phase() coresys.Phase { return coresys.PhaseCommit }

func (s *CommitSystem) Update(_ time.Duration) {
	s.reg.Update()
}
