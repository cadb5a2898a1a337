// Package aliases records which remote id a locally minted id was adopted as.
package aliases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cheatsync/internal/dbx"
)

type Repository interface {
	Put(ctx context.Context, localID, remoteID string) error
	// Resolve returns the remote id for localID, or id itself when no alias exists.
	Resolve(ctx context.Context, id string) (string, error)
	List(ctx context.Context) (map[string]string, error)
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, localID, remoteID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO aliases (local_id, remote_id) VALUES (?, ?)
		ON CONFLICT(local_id) DO UPDATE SET remote_id = excluded.remote_id
	`, localID, remoteID)
	if err != nil {
		return fmt.Errorf("failed to store alias %s: %w", localID, err)
	}
	return nil
}

func (r *SQLiteRepository) Resolve(ctx context.Context, id string) (string, error) {
	var remote string
	err := r.db.QueryRowContext(ctx, `SELECT remote_id FROM aliases WHERE local_id = ?`, id).Scan(&remote)
	if errors.Is(err, sql.ErrNoRows) {
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve alias %s: %w", id, err)
	}
	return remote, nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT local_id, remote_id FROM aliases`)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var local, remote string
		if err := rows.Scan(&local, &remote); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		result[local] = remote
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aliases: %w", err)
	}
	return result, nil
}
