package system

import (
	"io"
	"time"

	coresys "github.com/l1jgo/reputation/internal/core/system"
	"github.com/l1jgo/reputation/internal/handler"
	"go.uber.org/zap"
)

// Command is a GM command addressed to an in-world character.
type Command struct {
	CharID int32
	Text   string
	Reply  io.Writer
}

// InputSystem drains queued GM commands and runs them against the owning
// player inside the game loop. Phase 0 (Input).
type InputSystem struct {
	queue      chan Command
	deps       *handler.Deps
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(deps *handler.Deps, queueSize, maxPerTick int, log *zap.Logger) *InputSystem {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &InputSystem{
		queue:      make(chan Command, queueSize),
		deps:       deps,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Enqueue hands a command to the game loop. Safe from any goroutine.
// Returns false when the queue is full.
func (s *InputSystem) Enqueue(cmd Command) bool {
	select {
	case s.queue <- cmd:
		return true
	default:
		s.log.Warn("command queue full", zap.Int32("char", cmd.CharID))
		return false
	}
}

func (s *InputSystem) Update(_ time.Duration) {
	for n := 0; s.maxPerTick <= 0 || n < s.maxPerTick; n++ {
		select {
		case cmd := <-s.queue:
			s.run(cmd)
		default:
			return
		}
	}
}

func (s *InputSystem) run(cmd Command) {
	p := s.deps.World.GetByCharID(cmd.CharID)
	if p == nil {
		s.log.Warn("command for character not in world", zap.Int32("char", cmd.CharID))
		return
	}
	reply := cmd.Reply
	if reply == nil {
		reply = io.Discard
	}
	if !handler.HandleGMCommand(reply, p, cmd.Text, s.deps) {
		s.log.Warn("not a GM command", zap.Int32("char", cmd.CharID), zap.String("text", cmd.Text))
	}
}
