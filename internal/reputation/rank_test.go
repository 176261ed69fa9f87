package reputation

import (
	"math"
	"testing"
)

func TestToRankBoundaries(t *testing.T) {
	tests := []struct {
		standing int32
		want     Rank
	}{
		{Bottom, RankHated},
		{-6001, RankHated},
		{-6000, RankHostile},
		{-3001, RankHostile},
		{-3000, RankUnfriendly},
		{-1, RankUnfriendly},
		{0, RankNeutral},
		{2999, RankNeutral},
		{3000, RankFriendly},
		{8999, RankFriendly},
		{9000, RankHonored},
		{20999, RankHonored},
		{21000, RankRevered},
		{41999, RankRevered},
		{42000, RankExalted},
		{Cap, RankExalted},
	}
	for _, tt := range tests {
		if got := ToRank(tt.standing); got != tt.want {
			t.Errorf("ToRank(%d) = %v, want %v", tt.standing, got, tt.want)
		}
	}
}

func TestToRankMonotonic(t *testing.T) {
	prev := ToRank(Bottom - 1000)
	for s := Bottom - 1000; s <= Cap+1000; s += 7 {
		r := ToRank(s)
		if r < prev {
			t.Fatalf("rank decreased at %d: %v after %v", s, r, prev)
		}
		prev = r
	}
}

func TestRankFloorsMatchPoints(t *testing.T) {
	if RankFloor(RankHated) != Bottom {
		t.Fatalf("hated floor = %d, want %d", RankFloor(RankHated), Bottom)
	}
	for r := RankHated; r < RankExalted; r++ {
		if got := RankFloor(r+1) - RankFloor(r); got != PointsInRank[r] {
			t.Errorf("width of %v = %d, want %d", r, got, PointsInRank[r])
		}
	}
	if top := RankFloor(RankExalted) + PointsInRank[RankExalted] - 1; top != Cap {
		t.Errorf("top of exalted = %d, want cap %d", top, Cap)
	}
}

func TestParseRank(t *testing.T) {
	r, err := ParseRank("honored")
	if err != nil || r != RankHonored {
		t.Fatalf("ParseRank(honored) = %v, %v", r, err)
	}
	if _, err := ParseRank("beloved"); err == nil {
		t.Fatal("expected error for unknown rank")
	}
	if s := Rank(42).String(); s != "Rank(42)" {
		t.Errorf("invalid rank string = %q", s)
	}
}

func TestDeltaFromFloat(t *testing.T) {
	span := Cap - Bottom
	cases := []struct {
		in   float64
		want int32
	}{
		{0, 0},
		{150.9, 150},
		{-150.9, -150},
		{3e9, span},
		{-3e9, -span},
		{math.Inf(1), span},
		{math.NaN(), 0},
	}
	for _, c := range cases {
		if got := DeltaFromFloat(c.in); got != c.want {
			t.Errorf("DeltaFromFloat(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
