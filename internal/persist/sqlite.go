package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/reputation"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteReputationRepo stores character reputation in a local SQLite file.
// Used for single-node deployments and tests.
type SQLiteReputationRepo struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteReputationRepo, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("sqlite: create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer at a time; the async writer already serializes saves.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: pragma: %w", err)
	}
	if err := RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return &SQLiteReputationRepo{db: db}, nil
}

func (r *SQLiteReputationRepo) LoadReputation(ctx context.Context, charID int32) ([]reputation.Row, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id, standing, flags
		 FROM character_reputation
		 WHERE char_id = ?
		 ORDER BY group_id`, charID)
	if err != nil {
		return nil, fmt.Errorf("select reputation: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []reputation.Row
	for rows.Next() {
		var groupID, standing, flags int64
		if err := rows.Scan(&groupID, &standing, &flags); err != nil {
			return nil, fmt.Errorf("scan reputation: %w", err)
		}
		result = append(result, reputation.Row{
			GroupID:  uint32(groupID),
			Standing: int32(standing),
			Flags:    data.FactionFlags(flags),
		})
	}
	return result, rows.Err()
}

func (r *SQLiteReputationRepo) SaveReputation(ctx context.Context, charID int32, rows []reputation.Row) (retErr error) {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reputation begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO character_reputation (char_id, group_id, standing, flags, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (char_id, group_id)
		 DO UPDATE SET standing = excluded.standing, flags = excluded.flags, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("reputation prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, charID, int64(row.GroupID), row.Standing, int64(row.Flags)); err != nil {
			return fmt.Errorf("reputation upsert: %w", err)
		}
	}
	return tx.Commit()
}

// DeleteReputation removes all rows of a character.
func (r *SQLiteReputationRepo) DeleteReputation(ctx context.Context, charID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM character_reputation WHERE char_id = ?`, charID)
	return err
}

func (r *SQLiteReputationRepo) Close() {
	_ = r.db.Close()
}
