package repositories

import (
	"context"
	"fmt"

	"asset-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const historyColumns = `id, asset_id, performed_by, action, description,
	from_user_id, to_user_id, from_location_id, to_location_id,
	old_values, new_values, workflow_id, created_at`

// AssetHistoryRepository writes to and reads from the append-only audit
// ledger. There are deliberately no update or delete methods.
type AssetHistoryRepository struct {
	DB *pgxpool.Pool
}

func NewAssetHistoryRepository(db *pgxpool.Pool) *AssetHistoryRepository {
	return &AssetHistoryRepository{DB: db}
}

func scanHistory(row pgx.Row) (*models.AssetHistory, error) {
	var h models.AssetHistory
	err := row.Scan(&h.ID, &h.AssetID, &h.PerformedBy, &h.Action, &h.Description,
		&h.FromUserID, &h.ToUserID, &h.FromLocationID, &h.ToLocationID,
		&h.OldValues, &h.NewValues, &h.WorkflowID, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Append writes one ledger entry. It takes the caller's transaction so the
// entry commits or rolls back together with the mutation it records.
func (r *AssetHistoryRepository) Append(ctx context.Context, tx DB, h *models.AssetHistory) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO asset_history(id, asset_id, performed_by, action, description,
			from_user_id, to_user_id, from_location_id, to_location_id,
			old_values, new_values, workflow_id)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at`,
		h.ID, h.AssetID, h.PerformedBy, h.Action, h.Description,
		h.FromUserID, h.ToUserID, h.FromLocationID, h.ToLocationID,
		h.OldValues, h.NewValues, h.WorkflowID,
	).Scan(&h.CreatedAt)
	if err != nil {
		return fmt.Errorf("append asset history: %w", err)
	}
	return nil
}

// ListForAsset returns a page of ledger entries for one asset, newest first.
func (r *AssetHistoryRepository) ListForAsset(ctx context.Context, assetID string, limit, offset int) ([]*models.AssetHistory, int, error) {
	var total int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM asset_history WHERE asset_id = $1`, assetID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count asset history: %w", err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+historyColumns+` FROM asset_history
		 WHERE asset_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		assetID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list asset history: %w", err)
	}
	defer rows.Close()

	var entries []*models.AssetHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, h)
	}
	return entries, total, rows.Err()
}

// Recent returns the newest ledger entries across all assets.
func (r *AssetHistoryRepository) Recent(ctx context.Context, limit int) ([]*models.AssetHistory, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+historyColumns+` FROM asset_history ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent asset history: %w", err)
	}
	defer rows.Close()

	var entries []*models.AssetHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
