package sheets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/dbx"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

const sheetColumns = `id, owner_id, title, description, category, custom_category_ref,
		content, is_public, favorite, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSheet(row scanner) (models.Sheet, error) {
	var (
		s       models.Sheet
		ref     sql.NullString
		content []byte
	)
	err := row.Scan(&s.ID, &s.OwnerID, &s.Title, &s.Description, &s.Category, &ref,
		&content, &s.IsPublic, &s.Favorite, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return models.Sheet{}, err
	}
	s.CustomCategoryRef = ref.String
	if err := json.Unmarshal(content, &s.Content); err != nil {
		return models.Sheet{}, fmt.Errorf("decode content of sheet %s: %w", s.ID, err)
	}
	return s, nil
}

func encodeContent(blocks []models.ContentBlock) ([]byte, error) {
	if blocks == nil {
		blocks = []models.ContentBlock{}
	}
	return json.Marshal(blocks)
}

func nullableRef(ref string) sql.NullString {
	return sql.NullString{String: ref, Valid: ref != ""}
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]models.Sheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM sheets
		 WHERE owner_id = $1
		 ORDER BY updated_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Sheet{}
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (models.Sheet, error) {
	query := `SELECT ` + sheetColumns + ` FROM sheets
		 WHERE owner_id = $1 AND id = $2`

	s, err := scanSheet(r.db.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Sheet{}, common.ErrNotFound
		}
		return models.Sheet{}, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s models.Sheet) error {
	content, err := encodeContent(s.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	query :=
		`INSERT INTO sheets (` + sheetColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.OwnerID, s.Title, s.Description, s.Category, nullableRef(s.CustomCategoryRef),
		content, s.IsPublic, s.Favorite, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, s models.Sheet) error {
	content, err := encodeContent(s.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	query :=
		`UPDATE sheets SET title = $3, description = $4, category = $5,
		 custom_category_ref = $6, content = $7, is_public = $8, favorite = $9,
		 updated_at = $10
		 WHERE owner_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query,
		s.OwnerID, s.ID, s.Title, s.Description, s.Category, nullableRef(s.CustomCategoryRef),
		content, s.IsPublic, s.Favorite, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sheets WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return oneRow(res)
}

func (r *PostgresRepository) ClearCategory(ctx context.Context, ownerID, categoryID string) (int64, error) {
	query :=
		`UPDATE sheets SET category = $3, custom_category_ref = NULL
		 WHERE owner_id = $1 AND custom_category_ref = $2`

	res, err := r.db.ExecContext(ctx, query, ownerID, categoryID, models.CategoryOther)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func oneRow(res sql.Result) error {
	err := dbx.ExpectOneRow(res)
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return common.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
