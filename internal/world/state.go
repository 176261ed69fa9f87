package world

import (
	"sort"

	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/reputation"
)

// Sender accepts outbound messages for one connection.
type Sender interface {
	Send(data []byte)
}

// Player is an in-world character. It owns its reputation manager; the
// manager is touched only from the game loop.
type Player struct {
	SessionID uint64
	CharID    int32
	Name      string
	Team      data.Team
	Rep       *reputation.Manager
	Sender    Sender
}

// State tracks all players currently in-world.
// Single-goroutine access only (game loop).
type State struct {
	bySession map[uint64]*Player // SessionID → Player
	byCharID  map[int32]*Player  // CharID → Player
	byName    map[string]*Player // CharName → Player
}

func NewState() *State {
	return &State{
		bySession: make(map[uint64]*Player),
		byCharID:  make(map[int32]*Player),
		byName:    make(map[string]*Player),
	}
}

// AddPlayer registers a player in the world, replacing any previous entry
// with the same session.
func (s *State) AddPlayer(p *Player) {
	if old := s.bySession[p.SessionID]; old != nil {
		s.RemovePlayer(old.SessionID)
	}
	s.bySession[p.SessionID] = p
	s.byCharID[p.CharID] = p
	s.byName[p.Name] = p
}

// RemovePlayer removes a player from the world.
func (s *State) RemovePlayer(sessionID uint64) *Player {
	p, ok := s.bySession[sessionID]
	if !ok {
		return nil
	}
	delete(s.bySession, sessionID)
	delete(s.byCharID, p.CharID)
	delete(s.byName, p.Name)
	return p
}

// GetBySession returns a player by session ID.
func (s *State) GetBySession(sessionID uint64) *Player {
	return s.bySession[sessionID]
}

// GetByCharID returns a player by character DB ID.
func (s *State) GetByCharID(charID int32) *Player {
	return s.byCharID[charID]
}

// GetByName returns a player by character name.
func (s *State) GetByName(name string) *Player {
	return s.byName[name]
}

// PlayerCount returns the number of players in-world.
func (s *State) PlayerCount() int {
	return len(s.bySession)
}

// AllPlayers iterates all in-world players in CharID order so saves and
// flushes are deterministic.
func (s *State) AllPlayers(fn func(*Player)) {
	ids := make([]int32, 0, len(s.byCharID))
	for id := range s.byCharID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(s.byCharID[id])
	}
}
