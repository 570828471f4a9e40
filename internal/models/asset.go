package models

import "time"

// AssetStatus describes the custody/availability class of an asset,
// not its workflow state.
type AssetStatus string

const (
	AssetStatusIssued     AssetStatus = "issued"      // handed out to an employee
	AssetStatusLoaned     AssetStatus = "loaned"      // part of the rental pool
	AssetStatusGeneral    AssetStatus = "general"     // shared/common-use equipment
	AssetStatusStock      AssetStatus = "stock"       // in storage
	AssetStatusServerRoom AssetStatus = "server_room" // racked in the server room
	AssetStatusDisposed   AssetStatus = "disposed"    // written off
)

// ValidAssetStatus reports whether s is one of the known statuses.
func ValidAssetStatus(s AssetStatus) bool {
	switch s {
	case AssetStatusIssued, AssetStatusLoaned, AssetStatusGeneral,
		AssetStatusStock, AssetStatusServerRoom, AssetStatusDisposed:
		return true
	}
	return false
}

// AssetGrade is the age-derived quality tier (A/B/C), used for reporting.
type AssetGrade string

const (
	GradeA AssetGrade = "A" // under 2 years old
	GradeB AssetGrade = "B" // 2-4 years old
	GradeC AssetGrade = "C" // 4+ years old
)

type Asset struct {
	ID           string      `json:"id" db:"id"`
	AssetTag     string      `json:"asset_tag" db:"asset_tag"`
	Name         string      `json:"name" db:"name"`
	Model        *string     `json:"model,omitempty" db:"model"`
	SerialNumber *string     `json:"serial_number,omitempty" db:"serial_number"`
	Manufacturer *string     `json:"manufacturer,omitempty" db:"manufacturer"`
	Status       AssetStatus `json:"status" db:"status"`
	Grade        AssetGrade  `json:"grade" db:"grade"`

	CategoryID string  `json:"category_id" db:"category_id"`
	LocationID *string `json:"location_id,omitempty" db:"location_id"`
	AssignedTo *string `json:"assigned_to,omitempty" db:"assigned_to"`

	PurchaseDate  *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	PurchasePrice *float64   `json:"purchase_price,omitempty" db:"purchase_price"`
	Supplier      *string    `json:"supplier,omitempty" db:"supplier"`
	WarrantyEnd   *time.Time `json:"warranty_end,omitempty" db:"warranty_end"`

	Description *string `json:"description,omitempty" db:"description"`
	Notes       *string `json:"notes,omitempty" db:"notes"`

	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the asset is soft-deleted.
func (a *Asset) IsDeleted() bool {
	return a.DeletedAt != nil
}

// CreateAssetRequest is the request body for creating an asset.
// AssetTag is optional; when empty a tag is generated from the category code.
type CreateAssetRequest struct {
	AssetTag      string      `json:"asset_tag"`
	Name          string      `json:"name"`
	Model         *string     `json:"model"`
	SerialNumber  *string     `json:"serial_number"`
	Manufacturer  *string     `json:"manufacturer"`
	Status        AssetStatus `json:"status"`
	CategoryID    string      `json:"category_id"`
	LocationID    *string     `json:"location_id"`
	PurchaseDate  *time.Time  `json:"purchase_date"`
	PurchasePrice *float64    `json:"purchase_price"`
	Supplier      *string     `json:"supplier"`
	WarrantyEnd   *time.Time  `json:"warranty_end"`
	Description   *string     `json:"description"`
	Notes         *string     `json:"notes"`
}

// UpdateAssetRequest is the request body for a partial asset update.
// Nil fields are left untouched.
type UpdateAssetRequest struct {
	Name          *string      `json:"name"`
	Model         *string      `json:"model"`
	SerialNumber  *string      `json:"serial_number"`
	Manufacturer  *string      `json:"manufacturer"`
	Status        *AssetStatus `json:"status"`
	LocationID    *string      `json:"location_id"`
	PurchaseDate  *time.Time   `json:"purchase_date"`
	PurchasePrice *float64     `json:"purchase_price"`
	Supplier      *string      `json:"supplier"`
	WarrantyEnd   *time.Time   `json:"warranty_end"`
	Description   *string      `json:"description"`
	Notes         *string      `json:"notes"`
}

// AssignAssetRequest is the request body for a direct administrative assignment.
type AssignAssetRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// UnassignAssetRequest is the request body for a direct administrative return.
type UnassignAssetRequest struct {
	Reason string `json:"reason"`
}

// AssetFilter narrows asset listing queries.
type AssetFilter struct {
	Status         AssetStatus
	Grade          AssetGrade
	CategoryID     string
	LocationID     string
	AssignedTo     string
	Search         string // matches tag, name, model, serial
	IncludeDeleted bool
}
