package system

import (
	"time"

	coresys "github.com/l1jgo/reputation/internal/core/system"
	"github.com/l1jgo/reputation/internal/handler"
	"github.com/l1jgo/reputation/internal/world"
	"go.uber.org/zap"
)

// PersistenceSystem periodically queues every online player's dirty
// reputation rows on the async writer. Phase 3 (Persist).
type PersistenceSystem struct {
	world     *world.State
	deps      *handler.Deps
	log       *zap.Logger
	tickCount int
	interval  int // auto-save every N ticks
}

func NewPersistenceSystem(ws *world.State, deps *handler.Deps, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	if intervalTicks <= 0 {
		intervalTicks = 1
	}
	return &PersistenceSystem{
		world:    ws,
		deps:     deps,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.SaveAllPlayers()
}

// SaveAllPlayers queues every dirty player immediately. Called on the save
// interval and for graceful shutdown.
func (s *PersistenceSystem) SaveAllPlayers() {
	players, rows := 0, 0
	s.world.AllPlayers(func(p *world.Player) {
		if n := handler.SaveReputation(p, s.deps); n > 0 {
			players++
			rows += n
		}
	})
	if players > 0 {
		s.log.Debug("reputation auto-save queued", zap.Int("players", players), zap.Int("rows", rows))
	}
}
