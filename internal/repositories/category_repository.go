package repositories

import (
	"context"
	"errors"
	"fmt"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (*models.Category, error) {
	c, err := scanCategory(r.DB.QueryRow(ctx,
		`SELECT id, name, code, description, created_at, updated_at FROM categories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetForUpdate locks the category row for the duration of the caller's
// transaction. Tag generation serializes on this lock so two concurrent
// creates in the same category cannot mint the same sequence number.
func (r *CategoryRepository) GetForUpdate(ctx context.Context, tx DB, id string) (*models.Category, error) {
	c, err := scanCategory(tx.QueryRow(ctx,
		`SELECT id, name, code, description, created_at, updated_at FROM categories WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, code, description, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO categories(id, name, code, description)
		 VALUES($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Code, c.Description,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperrors.Duplicate("code", c.Code)
	}
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3, updated_at = NOW() WHERE id = $1`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}
