package repositories

import (
	"context"
	"errors"
	"fmt"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepository struct {
	DB *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{DB: db}
}

func scanLocation(row pgx.Row) (*models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.Name, &l.Building, &l.Floor, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocationRepository) Get(ctx context.Context, id string) (*models.Location, error) {
	l, err := scanLocation(r.DB.QueryRow(ctx,
		`SELECT id, name, building, floor, description, created_at, updated_at FROM locations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("location", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *LocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, building, floor, description, created_at, updated_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *LocationRepository) Create(ctx context.Context, l *models.Location) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO locations(id, name, building, floor, description)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		l.ID, l.Name, l.Building, l.Floor, l.Description,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *LocationRepository) Update(ctx context.Context, l *models.Location) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE locations SET name = $2, building = $3, floor = $4, description = $5, updated_at = NOW()
		 WHERE id = $1`,
		l.ID, l.Name, l.Building, l.Floor, l.Description)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}
