package system

import (
	"testing"
	"time"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r *recorder) Phase() Phase { return r.phase }

func (r *recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	run := NewRunner()
	run.Register(&recorder{"render", PhaseRender, &log})
	run.Register(&recorder{"movement", PhaseUpdate, &log})
	run.Register(&recorder{"camera", PhasePostUpdate, &log})
	run.Register(&recorder{"collision", PhaseUpdate, &log})
	run.Register(&recorder{"commit", PhaseCommit, &log})

	run.Tick(time.Millisecond)
	want := []string{"commit", "movement", "collision", "camera", "render"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], log[i])
		}
	}
}

func TestTickPhaseRunsOnlyThatPhase(t *testing.T) {
	var log []string
	run := NewRunner()
	run.Register(&recorder{"movement", PhaseUpdate, &log})
	run.Register(&recorder{"render", PhaseRender, &log})

	run.TickPhase(PhaseRender, 0)
	if len(log) != 1 || log[0] != "render" {
		t.Errorf("expected [render], got %v", log)
	}
	if run.Len() != 2 {
		t.Errorf("expected 2 systems, got %d", run.Len())
	}
}
