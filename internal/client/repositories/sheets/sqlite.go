package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload, pending FROM sheets ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select sheets: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheets: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT payload, pending FROM sheets WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, common.ErrNotFound
	}
	return rec, err
}

func (r *SQLiteRepository) Put(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec.Sheet)
	if err != nil {
		return fmt.Errorf("failed to encode sheet %s: %w", rec.Sheet.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sheets (id, payload, pending, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload,
			pending = excluded.pending,
			updated_at = excluded.updated_at
	`, rec.Sheet.ID, string(payload), rec.Pending, rec.Sheet.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert sheet %s: %w", rec.Sheet.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sheets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sheet %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Rekey(ctx context.Context, oldID, newID string) error {
	rec, err := r.Get(ctx, oldID)
	if err != nil {
		return err
	}
	if err := r.Remove(ctx, oldID); err != nil {
		return err
	}
	rec.Sheet.ID = newID
	return r.Put(ctx, rec)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sheets`); err != nil {
		return fmt.Errorf("failed to clear sheets: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		payload string
		rec     Record
	)
	if err := s.Scan(&payload, &rec.Pending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("failed to scan sheet: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &rec.Sheet); err != nil {
		return Record{}, fmt.Errorf("failed to decode sheet: %w", err)
	}
	return rec, nil
}
