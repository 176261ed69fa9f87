package persist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/l1jgo/reputation/internal/config"
	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/reputation"
	"go.uber.org/zap"
)

func openTestRepo(t *testing.T) *SQLiteReputationRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "rep.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	rows := []reputation.Row{
		{GroupID: 5, Standing: -4200, Flags: data.FactionFlagVisible | data.FactionFlagAtWar},
		{GroupID: 1, Standing: 3000, Flags: data.FactionFlagVisible},
	}
	if err := repo.SaveReputation(ctx, 42, rows); err != nil {
		t.Fatalf("SaveReputation: %v", err)
	}
	// Upsert overwrites and leaves other characters alone.
	if err := repo.SaveReputation(ctx, 42, []reputation.Row{{GroupID: 1, Standing: 9000, Flags: data.FactionFlagInactive}}); err != nil {
		t.Fatalf("SaveReputation update: %v", err)
	}
	if err := repo.SaveReputation(ctx, 43, []reputation.Row{{GroupID: 1, Standing: 1}}); err != nil {
		t.Fatalf("SaveReputation other: %v", err)
	}

	got, err := repo.LoadReputation(ctx, 42)
	if err != nil {
		t.Fatalf("LoadReputation: %v", err)
	}
	want := []reputation.Row{
		{GroupID: 1, Standing: 9000, Flags: data.FactionFlagInactive},
		{GroupID: 5, Standing: -4200, Flags: data.FactionFlagVisible | data.FactionFlagAtWar},
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if err := repo.DeleteReputation(ctx, 42); err != nil {
		t.Fatalf("DeleteReputation: %v", err)
	}
	if got, _ := repo.LoadReputation(ctx, 42); len(got) != 0 {
		t.Errorf("rows after delete = %+v", got)
	}
	if got, _ := repo.LoadReputation(ctx, 43); len(got) != 1 {
		t.Errorf("other character rows = %+v", got)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "rep.db")

	repo, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := repo.SaveReputation(ctx, 1, []reputation.Row{{GroupID: 2, Standing: 77}}); err != nil {
		t.Fatalf("SaveReputation: %v", err)
	}
	repo.Close()

	// Migrations run again on reopen and must be a no-op.
	store, err := Open(ctx, config.DatabaseConfig{Driver: "sqlite", DSN: path}, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	got, err := store.LoadReputation(ctx, 1)
	if err != nil || len(got) != 1 || got[0].Standing != 77 {
		t.Fatalf("LoadReputation = %+v, %v", got, err)
	}
}

func TestWriterCommitsToSQLite(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	w := NewWriter(repo, 4, time.Second, zap.NewNop())

	b := w.Begin(9)
	b.UpsertReputation(reputation.Row{GroupID: 1, Standing: 500})
	b.UpsertReputation(reputation.Row{GroupID: 2, Standing: -500})
	w.Submit(b)
	w.Close()

	got, err := repo.LoadReputation(ctx, 9)
	if err != nil || len(got) != 2 {
		t.Fatalf("LoadReputation = %+v, %v", got, err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
