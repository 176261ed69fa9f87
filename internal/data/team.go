package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Team is the side a character plays for.
type Team string

const (
	TeamAlliance Team = "alliance"
	TeamHorde    Team = "horde"
	TeamNeutral  Team = "neutral"
)

// ParseTeam validates a team name.
func ParseTeam(s string) (Team, error) {
	switch t := Team(s); t {
	case TeamAlliance, TeamHorde, TeamNeutral:
		return t, nil
	default:
		return "", fmt.Errorf("unknown team %q", s)
	}
}

// TeamReputation lists how one team relates to factions.
//   - Exclusive: only this team may track reputation with these factions.
//   - Allied: own-team factions; war cannot be declared (peace forced).
//   - Hostile: opposition factions; hidden from the list and always at war.
type TeamReputation struct {
	Team      Team     `yaml:"team"`
	Exclusive []uint32 `yaml:"exclusive"`
	Allied    []uint32 `yaml:"allied"`
	Hostile   []uint32 `yaml:"hostile"`
}

// TeamTable answers team eligibility questions for factions.
type TeamTable struct {
	exclusiveTo map[uint32]Team
	allied      map[Team]map[uint32]bool
	hostile     map[Team]map[uint32]bool
}

// NewTeamTable indexes team entries. A faction may be exclusive to one team only.
func NewTeamTable(entries []TeamReputation) (*TeamTable, error) {
	t := &TeamTable{
		exclusiveTo: make(map[uint32]Team),
		allied:      make(map[Team]map[uint32]bool),
		hostile:     make(map[Team]map[uint32]bool),
	}
	for _, e := range entries {
		if _, err := ParseTeam(string(e.Team)); err != nil {
			return nil, err
		}
		for _, id := range e.Exclusive {
			if owner, ok := t.exclusiveTo[id]; ok && owner != e.Team {
				return nil, fmt.Errorf("faction %d exclusive to both %s and %s", id, owner, e.Team)
			}
			t.exclusiveTo[id] = e.Team
		}
		t.allied[e.Team] = toSet(t.allied[e.Team], e.Allied)
		t.hostile[e.Team] = toSet(t.hostile[e.Team], e.Hostile)
	}
	return t, nil
}

func toSet(dst map[uint32]bool, ids []uint32) map[uint32]bool {
	if dst == nil {
		dst = make(map[uint32]bool, len(ids))
	}
	for _, id := range ids {
		dst[id] = true
	}
	return dst
}

// IsAllowed reports whether a character of the given team may track
// reputation with factionID. Factions exclusive to another team never appear.
func (t *TeamTable) IsAllowed(team Team, factionID uint32) bool {
	owner, ok := t.exclusiveTo[factionID]
	return !ok || owner == team
}

// IsAllied reports whether factionID belongs to the team's own side.
func (t *TeamTable) IsAllied(team Team, factionID uint32) bool {
	return t.allied[team][factionID]
}

// IsHostile reports whether factionID belongs to the opposing side.
func (t *TeamTable) IsHostile(team Team, factionID uint32) bool {
	return t.hostile[team][factionID]
}

type teamFile struct {
	Teams []TeamReputation `yaml:"teams"`
}

// LoadTeamTable loads team_reputation.yaml.
func LoadTeamTable(path string) (*TeamTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("team: read %s: %w", path, err)
	}
	var f teamFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("team: parse %s: %w", path, err)
	}
	t, err := NewTeamTable(f.Teams)
	if err != nil {
		return nil, fmt.Errorf("team: %w", err)
	}
	return t, nil
}
