package reputation

import (
	"testing"

	"github.com/l1jgo/reputation/internal/data"
)

const (
	fStormwind  uint32 = 1
	fIronforge  uint32 = 2
	fGuards     uint32 = 3 // shares Ironforge's group
	fOrgrimmar  uint32 = 4
	fSilvermoon uint32 = 5
	fCult       uint32 = 6
	fCritter    uint32 = 7
	fCenarion   uint32 = 8
)

func testFactions(t *testing.T) *data.FactionTable {
	t.Helper()
	factions := []data.Faction{
		{ID: fStormwind, Name: "Stormwind", GroupID: 0, Flags: data.FactionFlagVisible,
			Spillover: []data.SpilloverEntry{{Faction: fIronforge, Rate: 0.5, RankCap: "revered"}}},
		{ID: fIronforge, Name: "Ironforge", GroupID: 1, Flags: data.FactionFlagVisible,
			Spillover: []data.SpilloverEntry{{Faction: fStormwind, Rate: 0.25}}},
		{ID: fGuards, Name: "Ironforge Guards", GroupID: 1, Flags: data.FactionFlagVisible},
		{ID: fOrgrimmar, Name: "Orgrimmar", GroupID: 2, Flags: data.FactionFlagVisible},
		{ID: fSilvermoon, Name: "Silvermoon", GroupID: 3, Flags: data.FactionFlagVisible},
		{ID: fCult, Name: "Hidden Cult", GroupID: 4, Flags: data.FactionFlagHidden},
		{ID: fCritter, Name: "Critters", GroupID: -1},
		{ID: fCenarion, Name: "Cenarion Circle", GroupID: 5, Flags: data.FactionFlagAtWar},
	}
	templates := []data.FactionTemplate{
		{ID: 100, Faction: fStormwind},
		{ID: 104, Faction: fOrgrimmar},
		{ID: 107, Faction: fCritter},
	}
	ft, err := data.NewFactionTable(factions, templates)
	if err != nil {
		t.Fatalf("faction table: %v", err)
	}
	return ft
}

func testTeams(t *testing.T) *data.TeamTable {
	t.Helper()
	tt, err := data.NewTeamTable([]data.TeamReputation{
		{Team: data.TeamAlliance, Exclusive: []uint32{fStormwind, fIronforge, fGuards},
			Allied: []uint32{fStormwind, fIronforge, fGuards}, Hostile: []uint32{fOrgrimmar}},
		{Team: data.TeamHorde, Exclusive: []uint32{fOrgrimmar, fSilvermoon},
			Allied: []uint32{fOrgrimmar, fSilvermoon}, Hostile: []uint32{fStormwind, fIronforge}},
	})
	if err != nil {
		t.Fatalf("team table: %v", err)
	}
	return tt
}

type recordingNotifier struct {
	initial   [][]StandingEntry
	standing  [][]StandingEntry
	increased []bool
	forced    [][]ForcedReaction
	visible   []uint32
}

func (n *recordingNotifier) InitialReputations(e []StandingEntry) {
	n.initial = append(n.initial, e)
}

func (n *recordingNotifier) FactionStanding(e []StandingEntry, inc bool) {
	n.standing = append(n.standing, e)
	n.increased = append(n.increased, inc)
}

func (n *recordingNotifier) ForcedReactions(r []ForcedReaction) {
	n.forced = append(n.forced, r)
}

func (n *recordingNotifier) FactionVisible(g uint32) {
	n.visible = append(n.visible, g)
}

type memTx struct {
	rows []Row
}

func (tx *memTx) UpsertReputation(row Row) {
	for i := range tx.rows {
		if tx.rows[i].GroupID == row.GroupID {
			tx.rows[i] = row
			return
		}
	}
	tx.rows = append(tx.rows, row)
}

type fixture struct {
	factions *data.FactionTable
	mgr      *Manager
	notes    *recordingNotifier
}

func newFixture(t *testing.T, withSpillover bool) *fixture {
	t.Helper()
	ft := testFactions(t)
	notes := &recordingNotifier{}
	deps := Deps{Factions: ft, Teams: testTeams(t), Notifier: notes}
	if withSpillover {
		sp, err := NewTableSpillover(ft)
		if err != nil {
			t.Fatalf("spillover: %v", err)
		}
		deps.Spillover = sp
	}
	return &fixture{factions: ft, mgr: NewManager(data.TeamAlliance, deps), notes: notes}
}

func (fx *fixture) f(id uint32) *data.Faction {
	return fx.factions.Get(id)
}

// checkCounters recomputes every counter from the stored states.
func checkCounters(t *testing.T, m *Manager) {
	t.Helper()
	var visible, honored, revered, exalted int
	for _, st := range m.StateList() {
		if st.IsVisible() {
			visible++
		}
		r := st.Rank()
		if r >= RankHonored {
			honored++
		}
		if r >= RankRevered {
			revered++
		}
		if r >= RankExalted {
			exalted++
		}
	}
	if got := m.VisibleFactionCount(); got != visible {
		t.Errorf("visible count = %d, want %d", got, visible)
	}
	if got := m.HonoredFactionCount(); got != honored {
		t.Errorf("honored count = %d, want %d", got, honored)
	}
	if got := m.ReveredFactionCount(); got != revered {
		t.Errorf("revered count = %d, want %d", got, revered)
	}
	if got := m.ExaltedFactionCount(); got != exalted {
		t.Errorf("exalted count = %d, want %d", got, exalted)
	}
}
