package system

import (
	"time"

	coresys "github.com/l1jgo/reputation/internal/core/system"
	"github.com/l1jgo/reputation/internal/world"
)

// ReputationSendSystem flushes every player's pending standing and forced
// reaction updates once per tick. Phase 2 (Output).
type ReputationSendSystem struct {
	world *world.State
}

func NewReputationSendSystem(ws *world.State) *ReputationSendSystem {
	return &ReputationSendSystem{world: ws}
}

func (s *ReputationSendSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *ReputationSendSystem) Update(_ time.Duration) {
	s.world.AllPlayers(func(p *world.Player) {
		p.Rep.SendPending()
	})
}
