package data

import "testing"

const teamYAML = `
teams:
  - team: alliance
    exclusive: [72, 47]
    allied: [72, 47]
    hostile: [76]
  - team: horde
    exclusive: [76]
    allied: [76]
    hostile: [72, 47]
`

func TestLoadTeamTable(t *testing.T) {
	tt, err := LoadTeamTable(writeFile(t, t.TempDir(), "team_reputation.yaml", teamYAML))
	if err != nil {
		t.Fatalf("LoadTeamTable: %v", err)
	}
	cases := []struct {
		team    Team
		faction uint32
		allowed bool
	}{
		{TeamAlliance, 72, true},
		{TeamHorde, 72, false},
		{TeamHorde, 76, true},
		{TeamAlliance, 76, false},
		{TeamNeutral, 609, true},
		{TeamNeutral, 72, false},
	}
	for _, c := range cases {
		if got := tt.IsAllowed(c.team, c.faction); got != c.allowed {
			t.Errorf("IsAllowed(%s, %d) = %v, want %v", c.team, c.faction, got, c.allowed)
		}
	}
	if !tt.IsAllied(TeamAlliance, 47) || tt.IsAllied(TeamHorde, 47) {
		t.Error("allied lookup wrong")
	}
	if !tt.IsHostile(TeamHorde, 47) || tt.IsHostile(TeamNeutral, 47) {
		t.Error("hostile lookup wrong")
	}
}

func TestNewTeamTableRejectsConflicts(t *testing.T) {
	_, err := NewTeamTable([]TeamReputation{
		{Team: TeamAlliance, Exclusive: []uint32{1}},
		{Team: TeamHorde, Exclusive: []uint32{1}},
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if _, err := NewTeamTable([]TeamReputation{{Team: "scourge"}}); err == nil {
		t.Fatal("expected unknown team error")
	}
}

func TestParseTeam(t *testing.T) {
	if tm, err := ParseTeam("horde"); err != nil || tm != TeamHorde {
		t.Fatalf("ParseTeam(horde) = %q, %v", tm, err)
	}
	if _, err := ParseTeam("Horde"); err == nil {
		t.Error("team names are case sensitive")
	}
}
