// Package reputation tracks one character's standing with game factions:
// ranks derived from standing, forced reactions, visibility and war flags,
// and the dirty bits that drive client updates and saves.
package reputation

import (
	"github.com/l1jgo/reputation/internal/data"
	"go.uber.org/zap"
)

// persistedFlags are the player-controlled bits restored from storage.
// Everything else is re-derived from static data at Initialize.
const persistedFlags = data.FactionFlagVisible | data.FactionFlagAtWar | data.FactionFlagInactive

// Deps holds the collaborators a Manager needs.
type Deps struct {
	Factions  *data.FactionTable
	Teams     *data.TeamTable   // nil = every faction allowed
	Spillover SpilloverResolver // nil = no spillover
	Notifier  Notifier          // nil = discard
	Log       *zap.Logger
}

// Manager is the reputation façade owned by a single character.
// Access only from that character's update step; there is no locking.
type Manager struct {
	team      data.Team
	factions  *data.FactionTable
	teams     *data.TeamTable
	spillover SpilloverResolver
	notifier  Notifier
	log       *zap.Logger

	store  *stateStore
	forced forcedReactions

	// increased plays the visual effect on the next standing update.
	increased bool
}

// NewManager creates a manager for a character of the given team and
// populates default states. Call LoadFromDB before any mutation.
func NewManager(team data.Team, deps Deps) *Manager {
	m := &Manager{
		team:      team,
		factions:  deps.Factions,
		teams:     deps.Teams,
		spillover: deps.Spillover,
		notifier:  deps.Notifier,
		log:       deps.Log,
	}
	if m.notifier == nil {
		m.notifier = NopNotifier{}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.Initialize()
	return m
}

// Initialize resets every state to its default: standing 0 and flags from
// static data and team eligibility. Forced reactions are cleared.
func (m *Manager) Initialize() {
	m.store = newStateStore()
	m.forced = newForcedReactions()
	m.increased = false
	for _, f := range m.factions.All() {
		if !f.CanHaveReputation() || !m.IsReputationAllowedForTeam(m.team, f.ID) {
			continue
		}
		m.store.add(uint32(f.GroupID), f.ID, m.defaultFlags(f))
	}
}

func (m *Manager) defaultFlags(f *data.Faction) data.FactionFlags {
	fl := f.Flags
	if m.teams != nil {
		if m.teams.IsAllied(m.team, f.ID) {
			fl |= data.FactionFlagForcedPeace
		}
		if m.teams.IsHostile(m.team, f.ID) {
			fl |= data.FactionFlagForcedInvisible | data.FactionFlagAtWar
		}
	}
	if fl.Has(data.FactionFlagForcedInvisible) {
		fl &^= data.FactionFlagVisible
	}
	if fl.Has(data.FactionFlagForcedPeace) {
		fl &^= data.FactionFlagAtWar
	}
	return fl
}

// IsReputationAllowedForTeam reports whether factionID belongs in a
// reputation list of the given team at all.
func (m *Manager) IsReputationAllowedForTeam(team data.Team, factionID uint32) bool {
	if m.teams == nil {
		return true
	}
	return m.teams.IsAllowed(team, factionID)
}

// Team returns the owner's team.
func (m *Manager) Team() data.Team { return m.team }

// --- queries ---

// GetState returns a copy of the group's state. ok is false when the group
// is not tracked, which is a normal outcome.
func (m *Manager) GetState(groupID uint32) (FactionState, bool) {
	st := m.store.get(groupID)
	if st == nil {
		return FactionState{}, false
	}
	return *st, true
}

// GetStateFor returns the state of the faction's group.
func (m *Manager) GetStateFor(f *data.Faction) (FactionState, bool) {
	st := m.store.forFaction(f)
	if st == nil {
		return FactionState{}, false
	}
	return *st, true
}

// StateList returns copies of all tracked states ordered by group.
func (m *Manager) StateList() []FactionState {
	sorted := m.store.sorted()
	out := make([]FactionState, len(sorted))
	for i, st := range sorted {
		out[i] = *st
	}
	return out
}

func (m *Manager) VisibleFactionCount() int { return m.store.visible }
func (m *Manager) HonoredFactionCount() int { return m.store.honored }
func (m *Manager) ReveredFactionCount() int { return m.store.revered }
func (m *Manager) ExaltedFactionCount() int { return m.store.exalted }

// GetReputation returns the standing with f, 0 when f is not tracked.
func (m *Manager) GetReputation(f *data.Faction) int32 {
	if st := m.store.forFaction(f); st != nil {
		return st.Standing
	}
	return 0
}

// GetBaseRank is the rank derived from stored standing.
func (m *Manager) GetBaseRank(f *data.Faction) Rank {
	return ToRank(m.GetReputation(f))
}

// GetRank is the displayed rank. Forced reactions affect interaction
// resolution, not this value.
func (m *Manager) GetRank(f *data.Faction) Rank {
	return m.GetBaseRank(f)
}

// RankName returns the display string of GetRank.
func (m *Manager) RankName(f *data.Faction) string {
	return m.GetRank(f).String()
}

func (m *Manager) IsAtWar(f *data.Faction) bool {
	st := m.store.forFaction(f)
	return st != nil && st.IsAtWar()
}

func (m *Manager) IsVisible(f *data.Faction) bool {
	st := m.store.forFaction(f)
	return st != nil && st.IsVisible()
}

// GetForcedRankIfAny returns the override for the template's faction.
// Friendly/hostile resolution must prefer it over the standing rank.
func (m *Manager) GetForcedRankIfAny(t *data.FactionTemplate) (Rank, bool) {
	if t == nil {
		return 0, false
	}
	return m.forced.get(t.Faction)
}

// ForcedReactions returns all overrides ordered by faction ID.
func (m *Manager) ForcedReactions() []ForcedReaction {
	return m.forced.list()
}

// --- modifiers ---

// SetReputation sets an absolute standing. Returns whether standing changed.
func (m *Manager) SetReputation(f *data.Faction, standing int32) bool {
	return m.setReputation(f, standing, false, false)
}

// ModifyReputation adds delta to the standing and applies spillover to
// related factions once. With spillOverOnly the origin faction is left
// alone and the result reports whether any related faction changed.
func (m *Manager) ModifyReputation(f *data.Faction, delta int32, spillOverOnly bool) bool {
	return m.setReputation(f, delta, true, spillOverOnly)
}

func (m *Manager) setReputation(f *data.Faction, standing int32, incremental, spillOverOnly bool) bool {
	if f == nil {
		return false
	}
	spilled := false
	if incremental && m.spillover != nil {
		// The origin's group already receives the change itself, and each
		// other group takes at most one spill per change.
		origin := m.store.forFaction(f)
		seen := make(map[*FactionState]bool)
		for _, sp := range m.spillover.Spillover(f.ID, standing) {
			target := m.factions.Get(sp.FactionID)
			if target == nil {
				continue
			}
			st := m.store.forFaction(target)
			if st == nil || st == origin || seen[st] || st.Rank() > sp.RankCap {
				continue
			}
			seen[st] = true
			if m.SetOneFactionReputation(target, sp.Delta, true) {
				spilled = true
			}
		}
	}
	if spillOverOnly {
		return spilled
	}
	return m.SetOneFactionReputation(f, standing, incremental)
}

// SetOneFactionReputation changes one faction without spillover. Used by GM
// commands. Returns whether standing changed.
func (m *Manager) SetOneFactionReputation(f *data.Faction, standing int32, incremental bool) bool {
	st := m.store.forFaction(f)
	if st == nil {
		return false
	}
	changed, oldRank, newRank := m.store.setStanding(st, standing, incremental)
	if !changed {
		return false
	}
	m.setVisible(st)
	if newRank <= RankHostile {
		m.store.setFlag(st, data.FactionFlagAtWar, true)
	}
	if newRank > oldRank {
		m.increased = true
	}
	if newRank != oldRank {
		m.log.Debug("faction rank changed",
			zap.Uint32("faction", f.ID),
			zap.Uint32("group", st.GroupID),
			zap.Stringer("from", oldRank),
			zap.Stringer("to", newRank),
		)
	}
	return true
}

// SetVisible stores the Visible bit for f. The client only sees it when the
// faction is not forced invisible.
func (m *Manager) SetVisible(f *data.Faction) bool {
	st := m.store.forFaction(f)
	if st == nil {
		return false
	}
	return m.setVisible(st)
}

// SetVisibleByTemplate makes the faction behind a creature's template visible.
func (m *Manager) SetVisibleByTemplate(t *data.FactionTemplate) bool {
	if t == nil {
		return false
	}
	return m.SetVisible(m.factions.Get(t.Faction))
}

func (m *Manager) setVisible(st *FactionState) bool {
	if !m.store.setFlag(st, data.FactionFlagVisible, true) {
		return false
	}
	m.sendVisible(st)
	return true
}

// SetAtWar stores the AtWar bit. It has no effect while ForcedPeace is set.
func (m *Manager) SetAtWar(groupID uint32, on bool) bool {
	st := m.store.get(groupID)
	if st == nil {
		return false
	}
	return m.store.setFlag(st, data.FactionFlagAtWar, on)
}

// SetInactive toggles the player's opt-out from the reputation display.
// Only a client-visible faction can be made inactive.
func (m *Manager) SetInactive(groupID uint32, on bool) bool {
	st := m.store.get(groupID)
	if st == nil {
		return false
	}
	if on && !st.IsVisible() {
		return false
	}
	return m.store.setFlag(st, data.FactionFlagInactive, on)
}

// ApplyForceReaction inserts (apply) or removes an override rank. Stored
// standing is never touched.
func (m *Manager) ApplyForceReaction(factionID uint32, r Rank, apply bool) {
	m.forced.apply(factionID, r, apply)
}

// --- senders ---

func (m *Manager) entry(st *FactionState) StandingEntry {
	return StandingEntry{GroupID: st.GroupID, Standing: st.Standing, Flags: st.ClientFlags()}
}

// SendInitialReputations sends every tracked group and clears all NeedSend bits.
func (m *Manager) SendInitialReputations() {
	sorted := m.store.sorted()
	entries := make([]StandingEntry, 0, len(sorted))
	for _, st := range sorted {
		entries = append(entries, m.entry(st))
		st.NeedSend = false
	}
	m.increased = false
	m.notifier.InitialReputations(entries)
}

// SendForceReactions sends the complete override list.
func (m *Manager) SendForceReactions() {
	m.notifier.ForcedReactions(m.forced.list())
	m.forced.dirty = false
}

// SendState sends groupID together with every other group awaiting a send.
func (m *Manager) SendState(groupID uint32) {
	m.flushStanding(m.store.get(groupID))
}

// SendPending flushes every pending standing update and, if changed, the
// forced reaction list.
func (m *Manager) SendPending() {
	m.flushStanding(nil)
	if m.forced.dirty {
		m.SendForceReactions()
	}
}

func (m *Manager) flushStanding(first *FactionState) {
	var entries []StandingEntry
	add := func(st *FactionState) {
		st.NeedSend = false
		if st.Flags.Has(data.FactionFlagHidden) {
			return
		}
		entries = append(entries, m.entry(st))
	}
	if first != nil {
		add(first)
	}
	for _, st := range m.store.sorted() {
		if st != first && st.NeedSend {
			add(st)
		}
	}
	increased := m.increased
	m.increased = false
	if len(entries) == 0 {
		return
	}
	m.notifier.FactionStanding(entries, increased)
}

// SendVisible notifies the client that groupID became visible.
func (m *Manager) SendVisible(groupID uint32) {
	if st := m.store.get(groupID); st != nil {
		m.sendVisible(st)
	}
}

func (m *Manager) sendVisible(st *FactionState) {
	if !st.IsVisible() {
		return
	}
	m.notifier.FactionVisible(st.GroupID)
}

// --- persistence ---

// NeedsSave reports whether any state awaits a save.
func (m *Manager) NeedsSave() bool {
	for _, st := range m.store.groups {
		if st.NeedSave {
			return true
		}
	}
	return false
}

// SaveToDB queues one upsert per dirty state into tx and clears NeedSave.
// Returns the number of rows queued.
func (m *Manager) SaveToDB(tx Transaction) int {
	n := 0
	for _, st := range m.store.sorted() {
		if !st.NeedSave {
			continue
		}
		tx.UpsertReputation(Row{GroupID: st.GroupID, Standing: st.Standing, Flags: st.Flags})
		st.NeedSave = false
		n++
	}
	return n
}

// RestoreNeedSave marks the groups of rows dirty again after their batch was
// not accepted for commit, so the next save retries them.
func (m *Manager) RestoreNeedSave(rows []Row) {
	for _, row := range rows {
		if st := m.store.get(row.GroupID); st != nil {
			st.NeedSave = true
		}
	}
}

// LoadFromDB overlays persisted rows onto the default states. Rows for groups
// no longer in static data are skipped. Must run once before any mutation.
func (m *Manager) LoadFromDB(rows []Row) {
	for _, row := range rows {
		st := m.store.get(row.GroupID)
		if st == nil {
			m.log.Debug("skip reputation row for unknown group", zap.Uint32("group", row.GroupID))
			continue
		}
		m.store.overlay(st, row.Standing, row.Flags, persistedFlags)
	}
}
