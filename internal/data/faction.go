package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FactionFlags are the per-character faction state bits. Static data declares
// the defaults; the reputation manager owns the live copy.
type FactionFlags uint8

const (
	FactionFlagNone            FactionFlags = 0x00
	FactionFlagVisible         FactionFlags = 0x01 // shown in the client reputation list
	FactionFlagAtWar           FactionFlags = 0x02 // player controlled, opposition is always at war
	FactionFlagHidden          FactionFlags = 0x04 // reputation accrues but updates are not sent
	FactionFlagForcedInvisible FactionFlags = 0x08 // overrides Visible
	FactionFlagForcedPeace     FactionFlags = 0x10 // overrides AtWar
	FactionFlagInactive        FactionFlags = 0x20 // player controlled
	FactionFlagRival           FactionFlags = 0x40
	FactionFlagSpecial         FactionFlags = 0x80
)

var factionFlagNames = map[string]FactionFlags{
	"visible":          FactionFlagVisible,
	"at_war":           FactionFlagAtWar,
	"hidden":           FactionFlagHidden,
	"invisible_forced": FactionFlagForcedInvisible,
	"peace_forced":     FactionFlagForcedPeace,
	"inactive":         FactionFlagInactive,
	"rival":            FactionFlagRival,
	"special":          FactionFlagSpecial,
}

// Has reports whether every bit of f is set.
func (fl FactionFlags) Has(f FactionFlags) bool {
	return fl&f == f
}

// UnmarshalYAML accepts a list of flag names, e.g. [visible, at_war].
func (fl *FactionFlags) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	var out FactionFlags
	for _, n := range names {
		bit, ok := factionFlagNames[n]
		if !ok {
			return fmt.Errorf("line %d: unknown faction flag %q", node.Line, n)
		}
		out |= bit
	}
	*fl = out
	return nil
}

// SpilloverEntry is one related faction that receives a share of a
// reputation change. Rate and cap come straight from the data file.
type SpilloverEntry struct {
	Faction uint32  `yaml:"faction"`
	Rate    float64 `yaml:"rate"`
	RankCap string  `yaml:"rank_cap"` // empty = no cap
}

// Faction is a static faction definition.
// GroupID < 0 means the faction cannot hold reputation.
type Faction struct {
	ID        uint32           `yaml:"id"`
	Name      string           `yaml:"name"`
	GroupID   int32            `yaml:"group_id"`
	Flags     FactionFlags     `yaml:"flags"`
	Spillover []SpilloverEntry `yaml:"spillover"`
}

// CanHaveReputation reports whether the faction maps to a reputation group.
func (f *Faction) CanHaveReputation() bool {
	return f.GroupID >= 0
}

// FactionTemplate links a creature/object faction template to its faction.
type FactionTemplate struct {
	ID      uint32 `yaml:"id"`
	Faction uint32 `yaml:"faction"`
}

// FactionTable indexes faction definitions and templates.
type FactionTable struct {
	byID      map[uint32]*Faction
	templates map[uint32]*FactionTemplate
	ordered   []*Faction
}

// NewFactionTable builds a table from in-memory definitions.
func NewFactionTable(factions []Faction, templates []FactionTemplate) (*FactionTable, error) {
	t := &FactionTable{
		byID:      make(map[uint32]*Faction, len(factions)),
		templates: make(map[uint32]*FactionTemplate, len(templates)),
	}
	for i := range factions {
		f := &factions[i]
		if _, dup := t.byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate faction id %d", f.ID)
		}
		t.byID[f.ID] = f
		t.ordered = append(t.ordered, f)
	}
	for i := range templates {
		tmpl := &templates[i]
		if _, ok := t.byID[tmpl.Faction]; !ok {
			return nil, fmt.Errorf("faction template %d: unknown faction %d", tmpl.ID, tmpl.Faction)
		}
		t.templates[tmpl.ID] = tmpl
	}
	for _, f := range t.ordered {
		for _, sp := range f.Spillover {
			if _, ok := t.byID[sp.Faction]; !ok {
				return nil, fmt.Errorf("faction %d: spillover to unknown faction %d", f.ID, sp.Faction)
			}
		}
	}
	sort.Slice(t.ordered, func(i, j int) bool { return t.ordered[i].ID < t.ordered[j].ID })
	return t, nil
}

// Get returns a faction by ID, or nil if not found.
func (t *FactionTable) Get(id uint32) *Faction {
	return t.byID[id]
}

// GetTemplate returns a faction template by ID, or nil if not found.
func (t *FactionTable) GetTemplate(id uint32) *FactionTemplate {
	return t.templates[id]
}

// All returns every faction ordered by ID.
func (t *FactionTable) All() []*Faction {
	return t.ordered
}

// Count returns the number of factions loaded.
func (t *FactionTable) Count() int {
	return len(t.byID)
}

// TemplateCount returns the number of faction templates loaded.
func (t *FactionTable) TemplateCount() int {
	return len(t.templates)
}

// --- YAML loading ---

type factionFile struct {
	Factions []Faction `yaml:"factions"`
}

type factionTemplateFile struct {
	Templates []FactionTemplate `yaml:"faction_templates"`
}

// LoadFactionTable loads faction_list.yaml and faction_template_list.yaml.
func LoadFactionTable(factionPath, templatePath string) (*FactionTable, error) {
	raw, err := os.ReadFile(factionPath)
	if err != nil {
		return nil, fmt.Errorf("faction: read %s: %w", factionPath, err)
	}
	var ff factionFile
	if err := yaml.Unmarshal(raw, &ff); err != nil {
		return nil, fmt.Errorf("faction: parse %s: %w", factionPath, err)
	}

	raw, err = os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("faction template: read %s: %w", templatePath, err)
	}
	var tf factionTemplateFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("faction template: parse %s: %w", templatePath, err)
	}

	t, err := NewFactionTable(ff.Factions, tf.Templates)
	if err != nil {
		return nil, fmt.Errorf("faction: %w", err)
	}
	return t, nil
}
