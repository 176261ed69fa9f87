package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/reputation/internal/data"
	"github.com/l1jgo/reputation/internal/reputation"
)

const upsertReputationSQL = `INSERT INTO character_reputation (char_id, group_id, standing, flags, updated_at)
	 VALUES ($1, $2, $3, $4, now())
	 ON CONFLICT (char_id, group_id)
	 DO UPDATE SET standing = EXCLUDED.standing, flags = EXCLUDED.flags, updated_at = now()`

// ReputationRepo stores character reputation in PostgreSQL.
type ReputationRepo struct {
	db *DB
}

func NewReputationRepo(db *DB) *ReputationRepo {
	return &ReputationRepo{db: db}
}

// LoadReputation returns every stored group of one character.
func (r *ReputationRepo) LoadReputation(ctx context.Context, charID int32) ([]reputation.Row, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT group_id, standing, flags
		 FROM character_reputation
		 WHERE char_id = $1
		 ORDER BY group_id`, charID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reputation.Row
	for rows.Next() {
		var (
			groupID  int32
			standing int32
			flags    int16
		)
		if err := rows.Scan(&groupID, &standing, &flags); err != nil {
			return nil, err
		}
		result = append(result, reputation.Row{
			GroupID:  uint32(groupID),
			Standing: standing,
			Flags:    data.FactionFlags(flags),
		})
	}
	return result, rows.Err()
}

// SaveReputation upserts rows in a single transaction.
func (r *ReputationRepo) SaveReputation(ctx context.Context, charID int32, rows []reputation.Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reputation begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertReputationSQL, charID, int32(row.GroupID), row.Standing, int16(row.Flags))
	}
	br := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("reputation upsert: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("reputation batch: %w", err)
	}
	return tx.Commit(ctx)
}

// DeleteReputation removes all rows of a character (character deletion).
func (r *ReputationRepo) DeleteReputation(ctx context.Context, charID int32) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM character_reputation WHERE char_id = $1`, charID)
	return err
}

func (r *ReputationRepo) Close() {
	r.db.Close()
}
