package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput  Phase = iota // 0: drain queued commands
	PhaseUpdate              // 1: game logic
	PhaseOutput              // 2: flush pending client updates
	PhasePersist             // 3: batch save
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	}
	return "unknown"
}

// System is run once per tick by the Runner.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
