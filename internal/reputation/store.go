package reputation

import (
	"sort"

	"github.com/l1jgo/reputation/internal/data"
)

// FactionState is the per-group mutable record. Several faction definitions
// may share one GroupID and therefore one FactionState.
type FactionState struct {
	ID       uint32 // first faction definition mapped to this group
	GroupID  uint32
	Standing int32
	Flags    data.FactionFlags
	NeedSend bool
	NeedSave bool
}

// Rank returns the rank derived from Standing.
func (s FactionState) Rank() Rank {
	return ToRank(s.Standing)
}

// IsVisible is the client-observable visibility. ForcedInvisible and Hidden
// both win over Visible.
func (s FactionState) IsVisible() bool {
	return s.Flags.Has(data.FactionFlagVisible) &&
		s.Flags&(data.FactionFlagForcedInvisible|data.FactionFlagHidden) == 0
}

// IsAtWar is the effective war state: ForcedPeace wins.
func (s FactionState) IsAtWar() bool {
	return s.Flags.Has(data.FactionFlagAtWar) && !s.Flags.Has(data.FactionFlagForcedPeace)
}

// ClientFlags masks the overridden bits out of Flags for sending.
func (s FactionState) ClientFlags() data.FactionFlags {
	fl := s.Flags
	if !s.IsVisible() {
		fl &^= data.FactionFlagVisible
	}
	if !s.IsAtWar() {
		fl &^= data.FactionFlagAtWar
	}
	return fl
}

// counterKey is the part of a state the counters are derived from.
type counterKey struct {
	rank    Rank
	visible bool
}

func keyOf(s *FactionState) counterKey {
	return counterKey{rank: s.Rank(), visible: s.IsVisible()}
}

// stateStore owns every FactionState of one character plus the four counters.
// Not safe for concurrent use; the owning entity's update step serializes access.
type stateStore struct {
	groups map[uint32]*FactionState

	visible int
	honored int
	revered int
	exalted int
}

func newStateStore() *stateStore {
	return &stateStore{groups: make(map[uint32]*FactionState)}
}

// add inserts a default state for a group. Later definitions of the same
// group reuse the existing state.
func (s *stateStore) add(groupID, factionID uint32, flags data.FactionFlags) {
	if _, ok := s.groups[groupID]; ok {
		return
	}
	st := &FactionState{ID: factionID, GroupID: groupID, Flags: flags}
	s.groups[groupID] = st
	s.updateCounters(counterKey{rank: RankNeutral}, keyOf(st))
}

func (s *stateStore) get(groupID uint32) *FactionState {
	return s.groups[groupID]
}

func (s *stateStore) forFaction(f *data.Faction) *FactionState {
	if f == nil || !f.CanHaveReputation() {
		return nil
	}
	return s.groups[uint32(f.GroupID)]
}

// mutate applies fn to st and reconciles the counters with the result.
func (s *stateStore) mutate(st *FactionState, fn func()) {
	before := keyOf(st)
	fn()
	s.updateCounters(before, keyOf(st))
}

// setStanding clamps and stores a new standing. Returns whether it changed.
func (s *stateStore) setStanding(st *FactionState, value int32, incremental bool) (changed bool, oldRank, newRank Rank) {
	next := int64(value)
	if incremental {
		next += int64(st.Standing)
	}
	standing := clamp(next)
	oldRank = st.Rank()
	if standing == st.Standing {
		return false, oldRank, oldRank
	}
	s.mutate(st, func() {
		st.Standing = standing
		st.NeedSend = true
		st.NeedSave = true
	})
	return true, oldRank, st.Rank()
}

// setFlag sets or clears bits. Returns whether the stored flags changed.
func (s *stateStore) setFlag(st *FactionState, bits data.FactionFlags, on bool) bool {
	next := st.Flags &^ bits
	if on {
		next |= bits
	}
	if next == st.Flags {
		return false
	}
	s.mutate(st, func() {
		st.Flags = next
		st.NeedSend = true
		st.NeedSave = true
	})
	return true
}

// overlay replaces standing and the masked flag bits from a persisted row.
func (s *stateStore) overlay(st *FactionState, standing int32, flags, mask data.FactionFlags) {
	s.mutate(st, func() {
		st.Standing = clamp(int64(standing))
		st.Flags = st.Flags&^mask | flags&mask
		st.NeedSend = true
		st.NeedSave = false
	})
}

// updateCounters is the only writer of the visible/honored/revered/exalted
// counters. Each counter moves independently when its threshold is crossed.
func (s *stateStore) updateCounters(old, cur counterKey) {
	if old.visible != cur.visible {
		if cur.visible {
			s.visible++
		} else {
			s.visible--
		}
	}
	if old.rank == cur.rank {
		return
	}
	step := func(counter *int, threshold Rank) {
		was, is := old.rank >= threshold, cur.rank >= threshold
		switch {
		case is && !was:
			*counter++
		case was && !is:
			*counter--
		}
	}
	step(&s.honored, RankHonored)
	step(&s.revered, RankRevered)
	step(&s.exalted, RankExalted)
}

// sorted returns the states ordered by group ID.
func (s *stateStore) sorted() []*FactionState {
	out := make([]*FactionState, 0, len(s.groups))
	for _, st := range s.groups {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupID < out[j].GroupID })
	return out
}
