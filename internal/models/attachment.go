package models

import "time"

// AssetAttachment is an uploaded file (receipt, photo, manual) stored in the
// object storage bucket and linked to an asset.
type AssetAttachment struct {
	ID          string    `json:"id" db:"id"`
	AssetID     string    `json:"asset_id" db:"asset_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey  string    `json:"storage_key" db:"storage_key"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
