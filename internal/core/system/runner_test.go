package system

import (
	"testing"
	"time"
)

type stubSystem struct {
	phase Phase
	name  string
	log   *[]string
}

func (p stubSystem) Phase() Phase { return p.phase }
func (p stubSystem) Update(_ time.Duration) { *p.log = append(*p.log, p.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(stubSystem{PhasePersist, "save", &log})
	r.Register(stubSystem{PhaseOutput, "send-a", &log})
	r.Register(stubSystem{PhaseInput, "input", &log})
	r.Register(stubSystem{PhaseOutput, "send-b", &log})

	r.Tick(200 * time.Millisecond)
	want := []string{"input", "send-a", "send-b", "save"}
	if len(log) != len(want) {
		t.Fatalf("ran %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("ran %v, want %v", log, want)
		}
	}

	// Registering again re-sorts before the next tick.
	log = nil
	r.Register(stubSystem{PhaseInput, "input-b", &log})
	r.Tick(0)
	if len(log) != 5 || log[1] != "input-b" || log[4] != "save" {
		t.Fatalf("after register ran %v", log)
	}
}
