package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/dbx"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]models.CustomCategory, error) {
	query :=
		`SELECT id, owner_id, name, color, icon, created_at FROM categories
		 WHERE owner_id = $1
		 ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.CustomCategory{}
	for rows.Next() {
		var c models.CustomCategory
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (models.CustomCategory, error) {
	query :=
		`SELECT id, owner_id, name, color, icon, created_at FROM categories
		 WHERE owner_id = $1 AND id = $2`

	var c models.CustomCategory
	err := r.db.QueryRowContext(ctx, query, ownerID, id).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CustomCategory{}, common.ErrNotFound
		}
		return models.CustomCategory{}, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c models.CustomCategory) error {
	query :=
		`INSERT INTO categories (id, owner_id, name, color, icon, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.OwnerID, c.Name, c.Color, c.Icon, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	err = dbx.ExpectOneRow(res)
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
