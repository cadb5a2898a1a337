package categories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload, pending FROM categories ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var (
			payload string
			rec     Record
		)
		if err := rows.Scan(&payload, &rec.Pending); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Category); err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.Category)
	if err != nil {
		return fmt.Errorf("failed to encode category %s: %w", rec.Category.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO categories (id, payload, pending, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload,
			pending = excluded.pending,
			created_at = excluded.created_at
	`, rec.Category.ID, string(payload), rec.Pending, rec.Category.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert category %s: %w", rec.Category.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Rekey(ctx context.Context, oldID, newID string) error {
	var (
		payload string
		rec     Record
	)
	err := r.db.QueryRowContext(ctx, `SELECT payload, pending FROM categories WHERE id = ?`, oldID).
		Scan(&payload, &rec.Pending)
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read category %s: %w", oldID, err)
	}
	if err := json.Unmarshal([]byte(payload), &rec.Category); err != nil {
		return fmt.Errorf("failed to decode category: %w", err)
	}

	if err := r.Remove(ctx, oldID); err != nil {
		return err
	}
	rec.Category.ID = newID
	return r.Put(ctx, rec)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}
	return nil
}
