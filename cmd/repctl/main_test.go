package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/l1jgo/reputation/internal/persist"
	"github.com/l1jgo/reputation/internal/reputation"
)

func TestGMText(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{nil, ".show"},
		{[]string{"set", "72", "3000"}, ".set 72 3000"},
		{[]string{"modify", "72", "250", "-spill-only"}, ".modify 72 250 spill"},
		{[]string{"clear", "72"}, ".force 72 clear"},
		{[]string{"force", "72", "exalted"}, ".force 72 exalted"},
	}
	for _, c := range cases {
		got, err := gmText(c.args)
		if err != nil || got != c.want {
			t.Errorf("gmText(%v) = %q, %v; want %q", c.args, got, err, c.want)
		}
	}
	if _, err := gmText([]string{"delete"}); err == nil {
		t.Error("unknown command accepted")
	}
	if _, err := gmText([]string{"clear"}); err == nil {
		t.Error("clear without faction accepted")
	}
}

func TestResetReputation(t *testing.T) {
	ctx := context.Background()
	repo, err := persist.OpenSQLite(ctx, filepath.Join(t.TempDir(), "rep.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	if err := repo.SaveReputation(ctx, 3, []reputation.Row{{GroupID: 7, Standing: 900}, {GroupID: 8}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveReputation(ctx, 4, []reputation.Row{{GroupID: 7, Standing: 1}}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := resetReputation(ctx, repo, 3, &out); err != nil {
		t.Fatalf("resetReputation: %v", err)
	}
	if !strings.Contains(out.String(), "2 reputation row(s) deleted") {
		t.Errorf("output = %q", out.String())
	}
	if rows, _ := repo.LoadReputation(ctx, 3); len(rows) != 0 {
		t.Errorf("rows left = %+v", rows)
	}
	if rows, _ := repo.LoadReputation(ctx, 4); len(rows) != 1 {
		t.Errorf("other character touched: %+v", rows)
	}
}
