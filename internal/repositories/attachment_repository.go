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

const attachmentColumns = `id, asset_id, file_name, content_type, size_bytes, storage_key, uploaded_by, created_at`

type AttachmentRepository struct {
	DB *pgxpool.Pool
}

func NewAttachmentRepository(db *pgxpool.Pool) *AttachmentRepository {
	return &AttachmentRepository{DB: db}
}

func scanAttachment(row pgx.Row) (*models.AssetAttachment, error) {
	var at models.AssetAttachment
	err := row.Scan(&at.ID, &at.AssetID, &at.FileName, &at.ContentType,
		&at.SizeBytes, &at.StorageKey, &at.UploadedBy, &at.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *AttachmentRepository) Get(ctx context.Context, id string) (*models.AssetAttachment, error) {
	at, err := scanAttachment(r.DB.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM asset_attachments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("attachment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return at, nil
}

func (r *AttachmentRepository) ListForAsset(ctx context.Context, assetID string) ([]*models.AssetAttachment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+attachmentColumns+` FROM asset_attachments WHERE asset_id = $1 ORDER BY created_at DESC`,
		assetID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*models.AssetAttachment
	for rows.Next() {
		at, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, at)
	}
	return attachments, rows.Err()
}

func (r *AttachmentRepository) Create(ctx context.Context, at *models.AssetAttachment) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO asset_attachments(id, asset_id, file_name, content_type, size_bytes, storage_key, uploaded_by)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		at.ID, at.AssetID, at.FileName, at.ContentType, at.SizeBytes, at.StorageKey, at.UploadedBy,
	).Scan(&at.CreatedAt)
	if err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM asset_attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}
