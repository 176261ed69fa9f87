package reputation

import "sort"

// ForcedReaction overrides the standing-derived rank for one faction.
type ForcedReaction struct {
	FactionID uint32
	Rank      Rank
}

// forcedReactions holds scripted or diplomatic overrides keyed by faction ID.
// Never persisted; auras and scripts re-apply them each session.
type forcedReactions struct {
	m     map[uint32]Rank
	dirty bool
}

func newForcedReactions() forcedReactions {
	return forcedReactions{m: make(map[uint32]Rank)}
}

func (f *forcedReactions) apply(factionID uint32, r Rank, on bool) {
	if on {
		if cur, ok := f.m[factionID]; ok && cur == r {
			return
		}
		f.m[factionID] = r
		f.dirty = true
		return
	}
	if _, ok := f.m[factionID]; ok {
		delete(f.m, factionID)
		f.dirty = true
	}
}

func (f *forcedReactions) get(factionID uint32) (Rank, bool) {
	r, ok := f.m[factionID]
	return r, ok
}

// list returns the overrides ordered by faction ID.
func (f *forcedReactions) list() []ForcedReaction {
	out := make([]ForcedReaction, 0, len(f.m))
	for id, r := range f.m {
		out = append(out, ForcedReaction{FactionID: id, Rank: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FactionID < out[j].FactionID })
	return out
}
