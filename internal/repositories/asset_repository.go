package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const assetColumns = `id, asset_tag, name, model, serial_number, manufacturer, status, grade,
	category_id, location_id, assigned_to, purchase_date, purchase_price, supplier,
	warranty_end, description, notes, deleted_at, created_at, updated_at`

type AssetRepository struct {
	DB *pgxpool.Pool
}

func NewAssetRepository(db *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{DB: db}
}

func scanAsset(row pgx.Row) (*models.Asset, error) {
	var a models.Asset
	err := row.Scan(&a.ID, &a.AssetTag, &a.Name, &a.Model, &a.SerialNumber, &a.Manufacturer,
		&a.Status, &a.Grade, &a.CategoryID, &a.LocationID, &a.AssignedTo,
		&a.PurchaseDate, &a.PurchasePrice, &a.Supplier, &a.WarrantyEnd,
		&a.Description, &a.Notes, &a.DeletedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Get(ctx context.Context, id string) (*models.Asset, error) {
	a, err := scanAsset(r.DB.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("asset", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

// GetForUpdate locks the asset row until the caller's transaction ends.
// Every custody mutation goes through this so concurrent workflow
// approvals and direct assignments serialize per asset.
func (r *AssetRepository) GetForUpdate(ctx context.Context, tx DB, id string) (*models.Asset, error) {
	a, err := scanAsset(tx.QueryRow(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("asset", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock asset: %w", err)
	}
	return a, nil
}

// CountTagsWithPrefix counts the category's existing tags matching
// "{prefix}%". The caller holds the category row lock, so the count is
// stable for the transaction. Categories sharing a legacy override code
// count independently; a cross-category tag collision surfaces as a
// DuplicateError on insert.
func (r *AssetRepository) CountTagsWithPrefix(ctx context.Context, tx DB, categoryID, prefix string) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM assets WHERE category_id = $1 AND asset_tag LIKE $2`,
		categoryID, prefix+"%").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count asset tags: %w", err)
	}
	return n, nil
}

func (r *AssetRepository) Create(ctx context.Context, tx DB, a *models.Asset) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO assets(id, asset_tag, name, model, serial_number, manufacturer, status, grade,
			category_id, location_id, assigned_to, purchase_date, purchase_price, supplier,
			warranty_end, description, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING created_at, updated_at`,
		a.ID, a.AssetTag, a.Name, a.Model, a.SerialNumber, a.Manufacturer, a.Status, a.Grade,
		a.CategoryID, a.LocationID, a.AssignedTo, a.PurchaseDate, a.PurchasePrice, a.Supplier,
		a.WarrantyEnd, a.Description, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "serial_number") {
			serial := ""
			if a.SerialNumber != nil {
				serial = *a.SerialNumber
			}
			return apperrors.Duplicate("serial_number", serial)
		}
		return apperrors.Duplicate("asset_tag", a.AssetTag)
	}
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) Update(ctx context.Context, tx DB, a *models.Asset) error {
	_, err := tx.Exec(ctx,
		`UPDATE assets SET name = $2, model = $3, serial_number = $4, manufacturer = $5,
			status = $6, grade = $7, location_id = $8, purchase_date = $9, purchase_price = $10,
			supplier = $11, warranty_end = $12, description = $13, notes = $14, updated_at = NOW()
		 WHERE id = $1`,
		a.ID, a.Name, a.Model, a.SerialNumber, a.Manufacturer,
		a.Status, a.Grade, a.LocationID, a.PurchaseDate, a.PurchasePrice,
		a.Supplier, a.WarrantyEnd, a.Description, a.Notes)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		serial := ""
		if a.SerialNumber != nil {
			serial = *a.SerialNumber
		}
		return apperrors.Duplicate("serial_number", serial)
	}
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return nil
}

// UpdateCustody writes only status and assignment, leaving the rest of
// the row alone. Used by workflow approval effects and direct assignment.
func (r *AssetRepository) UpdateCustody(ctx context.Context, tx DB, id string, status models.AssetStatus, assignedTo *string) error {
	_, err := tx.Exec(ctx,
		`UPDATE assets SET status = $2, assigned_to = $3, updated_at = NOW() WHERE id = $1`,
		id, status, assignedTo)
	if err != nil {
		return fmt.Errorf("update asset custody: %w", err)
	}
	return nil
}

func (r *AssetRepository) SoftDelete(ctx context.Context, tx DB, id string) error {
	_, err := tx.Exec(ctx,
		`UPDATE assets SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) Restore(ctx context.Context, tx DB, id string) error {
	_, err := tx.Exec(ctx,
		`UPDATE assets SET deleted_at = NULL, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("restore asset: %w", err)
	}
	return nil
}

// List returns a filtered page of assets plus the total match count.
func (r *AssetRepository) List(ctx context.Context, f models.AssetFilter, limit, offset int) ([]*models.Asset, int, error) {
	var conds []string
	var args []any

	if !f.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Grade != "" {
		add("grade = $%d", f.Grade)
	}
	if f.CategoryID != "" {
		add("category_id = $%d", f.CategoryID)
	}
	if f.LocationID != "" {
		add("location_id = $%d", f.LocationID)
	}
	if f.AssignedTo != "" {
		add("assigned_to = $%d", f.AssignedTo)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(asset_tag ILIKE $%d OR name ILIKE $%d OR model ILIKE $%d OR serial_number ILIKE $%d)",
			n, n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM assets`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assets: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+assetColumns+` FROM assets%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := r.DB.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, a)
	}
	return assets, total, rows.Err()
}

// CountByStatus groups live assets by status for the dashboard.
func (r *AssetRepository) CountByStatus(ctx context.Context) (map[models.AssetStatus]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM assets WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count assets by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AssetStatus]int)
	for rows.Next() {
		var s models.AssetStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

// CountByGrade groups live assets by grade for the dashboard.
func (r *AssetRepository) CountByGrade(ctx context.Context) (map[models.AssetGrade]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT grade, COUNT(*) FROM assets WHERE deleted_at IS NULL GROUP BY grade`)
	if err != nil {
		return nil, fmt.Errorf("count assets by grade: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.AssetGrade]int)
	for rows.Next() {
		var g models.AssetGrade
		var n int
		if err := rows.Scan(&g, &n); err != nil {
			return nil, err
		}
		counts[g] = n
	}
	return counts, rows.Err()
}

// CountByCategory groups live assets by category name for the dashboard.
func (r *AssetRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT c.name, COUNT(*) FROM assets a
		 JOIN categories c ON c.id = a.category_id
		 WHERE a.deleted_at IS NULL GROUP BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("count assets by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, rows.Err()
}
