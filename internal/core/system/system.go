package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseCommit     Phase = iota // 0: commit pending entity adds/kills
	PhaseUpdate                  // 1: game logic, collisions, spawning
	PhasePostUpdate              // 2: camera, lifetimes
	PhaseRender                  // 3: draw
)

// Simulation phases run by Game.Update, in order.
var SimulationPhases = []Phase{PhaseCommit, PhaseUpdate, PhasePostUpdate}

func (p Phase) String() string {
	switch p {
	case PhaseCommit:
		return "commit"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseRender:
		return "render"
	}
	return "unknown"
}

// System is the interface every frame-driven system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
