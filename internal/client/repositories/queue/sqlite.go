package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, it *Item) error {
	var payload sql.NullString
	if len(it.Payload) > 0 {
		payload = sql.NullString{String: string(it.Payload), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_queue (kind, target_id, action, payload, enqueued_at) VALUES (?, ?, ?, ?, ?)
	`, string(it.Kind), it.TargetID, string(it.Action), payload, it.EnqueuedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to enqueue %s %s %s: %w", it.Action, it.Kind, it.TargetID, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read queue seq: %w", err)
	}
	it.Seq = seq
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, kind, target_id, action, payload, enqueued_at FROM sync_queue ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue: %w", err)
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		var (
			it       Item
			kind     string
			action   string
			payload  sql.NullString
			enqueued int64
		)
		if err := rows.Scan(&it.Seq, &kind, &it.TargetID, &action, &payload, &enqueued); err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}
		it.Kind = Kind(kind)
		it.Action = Action(action)
		if payload.Valid {
			it.Payload = []byte(payload.String)
		}
		it.EnqueuedAt = time.Unix(0, enqueued).UTC()
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, seq int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("failed to remove queue item %d: %w", seq, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}
	return n, nil
}
