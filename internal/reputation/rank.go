package reputation

import (
	"fmt"
	"strings"
)

// Rank is the qualitative standing derived from a reputation value.
type Rank int8

const (
	RankHated Rank = iota
	RankHostile
	RankUnfriendly
	RankNeutral
	RankFriendly
	RankHonored
	RankRevered
	RankExalted

	rankCount = int(RankExalted) + 1
)

// PointsInRank is the width of each rank, Hated first.
var PointsInRank = [rankCount]int32{36000, 3000, 3000, 3000, 6000, 12000, 21000, 1000}

const (
	// Cap is the highest storable standing (top of Exalted).
	Cap int32 = 42999
	// Bottom is the lowest storable standing (bottom of Hated).
	Bottom int32 = -42000
)

var rankNames = [rankCount]string{
	"Hated", "Hostile", "Unfriendly", "Neutral",
	"Friendly", "Honored", "Revered", "Exalted",
}

// rankFloors[i] is the lowest standing that still maps to rank i.
var rankFloors = func() [rankCount]int32 {
	var floors [rankCount]int32
	limit := Cap + 1
	for i := rankCount - 1; i >= 0; i-- {
		limit -= PointsInRank[i]
		floors[i] = limit
	}
	return floors
}()

// ToRank maps a standing to its rank. Monotonic non-decreasing in standing.
func ToRank(standing int32) Rank {
	for i := rankCount - 1; i > 0; i-- {
		if standing >= rankFloors[i] {
			return Rank(i)
		}
	}
	return RankHated
}

// RankFloor returns the lowest standing that maps to r.
func RankFloor(r Rank) int32 {
	return rankFloors[r]
}

func clamp(standing int64) int32 {
	switch {
	case standing > int64(Cap):
		return Cap
	case standing < int64(Bottom):
		return Bottom
	default:
		return int32(standing)
	}
}

// maxDelta is the widest change that can matter to a single standing.
const maxDelta = float64(Cap - Bottom)

// DeltaFromFloat converts a computed change to int32, truncating toward zero
// and bounding it to ±(Cap-Bottom). NaN maps to 0.
func DeltaFromFloat(v float64) int32 {
	switch {
	case v != v:
		return 0
	case v > maxDelta:
		return int32(maxDelta)
	case v < -maxDelta:
		return -int32(maxDelta)
	default:
		return int32(v)
	}
}

func (r Rank) Valid() bool {
	return r >= RankHated && r <= RankExalted
}

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rank(%d)", int8(r))
	}
	return rankNames[r]
}

// ParseRank accepts a rank name in any case ("honored", "Exalted").
func ParseRank(s string) (Rank, error) {
	for i, n := range rankNames {
		if strings.EqualFold(n, s) {
			return Rank(i), nil
		}
	}
	return 0, fmt.Errorf("unknown reputation rank %q", s)
}
