package reputation

import (
	"fmt"

	"github.com/l1jgo/reputation/internal/data"
)

// Spill is one derived reputation change produced by a spillover resolver.
// It is applied only while the target's current rank is at or below RankCap.
type Spill struct {
	FactionID uint32
	Delta     int32
	RankCap   Rank
}

// SpilloverResolver computes the related-faction changes caused by a delta on
// factionID. Coefficients belong to game data; a nil resolver means no spillover.
type SpilloverResolver interface {
	Spillover(factionID uint32, delta int32) []Spill
}

// TableSpillover resolves spillover from the spillover lists in faction_list.yaml.
type TableSpillover struct {
	entries map[uint32][]tableSpill
}

type tableSpill struct {
	faction uint32
	rate    float64
	cap     Rank
}

// NewTableSpillover validates the rank caps of every spillover entry.
func NewTableSpillover(factions *data.FactionTable) (*TableSpillover, error) {
	ts := &TableSpillover{entries: make(map[uint32][]tableSpill)}
	for _, f := range factions.All() {
		for _, e := range f.Spillover {
			rankCap := RankExalted
			if e.RankCap != "" {
				r, err := ParseRank(e.RankCap)
				if err != nil {
					return nil, fmt.Errorf("faction %d spillover to %d: %w", f.ID, e.Faction, err)
				}
				rankCap = r
			}
			ts.entries[f.ID] = append(ts.entries[f.ID], tableSpill{faction: e.Faction, rate: e.Rate, cap: rankCap})
		}
	}
	return ts, nil
}

func (ts *TableSpillover) Spillover(factionID uint32, delta int32) []Spill {
	entries := ts.entries[factionID]
	if len(entries) == 0 {
		return nil
	}
	out := make([]Spill, 0, len(entries))
	for _, e := range entries {
		d := DeltaFromFloat(float64(delta) * e.rate)
		if d == 0 {
			continue
		}
		out = append(out, Spill{FactionID: e.faction, Delta: d, RankCap: e.cap})
	}
	return out
}
