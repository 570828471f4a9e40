package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/cache"
	"asset-backend/internal/models"
	"asset-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// categoryCodeOverrides maps well-known category names to fixed tag codes.
// Categories not listed here use their own code column.
var categoryCodeOverrides = map[string]string{
	"DESKTOP":  "11",
	"NOTEBOOK": "12",
	"LAPTOP":   "12",
	"MONITOR":  "14",
}

// categoryTagCode resolves the tag code for a category, honoring the
// fixed overrides for legacy category names.
func categoryTagCode(c *models.Category) string {
	if code, ok := categoryCodeOverrides[strings.ToUpper(c.Name)]; ok {
		return code
	}
	return c.Code
}

// formatAssetTag builds a tag like "12-2026-0041".
func formatAssetTag(code string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", code, year, seq)
}

// tagYear picks the tag's year component: the purchase year when known,
// otherwise the current year.
func tagYear(purchaseDate *time.Time, now time.Time) int {
	if purchaseDate != nil {
		return purchaseDate.Year()
	}
	return now.Year()
}

// CalculateGrade derives the quality tier from the asset's age. Assets
// without a purchase date are treated as new.
func CalculateGrade(purchaseDate *time.Time, now time.Time) models.AssetGrade {
	if purchaseDate == nil {
		return models.GradeA
	}
	years := now.Sub(*purchaseDate).Hours() / 24 / 365.25
	switch {
	case years < 2:
		return models.GradeA
	case years < 4:
		return models.GradeB
	default:
		return models.GradeC
	}
}

type AssetService struct {
	pool       *pgxpool.Pool
	assets     *repositories.AssetRepository
	categories *repositories.CategoryRepository
	users      *repositories.UserRepository
	history    *repositories.AssetHistoryRepository
}

func NewAssetService(
	pool *pgxpool.Pool,
	assets *repositories.AssetRepository,
	categories *repositories.CategoryRepository,
	users *repositories.UserRepository,
	history *repositories.AssetHistoryRepository,
) *AssetService {
	return &AssetService{
		pool:       pool,
		assets:     assets,
		categories: categories,
		users:      users,
		history:    history,
	}
}

func (s *AssetService) Get(ctx context.Context, id string) (*models.Asset, error) {
	return s.assets.Get(ctx, id)
}

func (s *AssetService) List(ctx context.Context, f models.AssetFilter, limit, offset int) ([]*models.Asset, int, error) {
	return s.assets.List(ctx, f, limit, offset)
}

func (s *AssetService) History(ctx context.Context, assetID string, limit, offset int) ([]*models.AssetHistory, int, error) {
	if _, err := s.assets.Get(ctx, assetID); err != nil {
		return nil, 0, err
	}
	return s.history.ListForAsset(ctx, assetID, limit, offset)
}

// Create registers a new asset. When the request carries no tag, one is
// generated under the category row lock so that two concurrent creates in
// the same category cannot mint the same sequence number.
func (s *AssetService) Create(ctx context.Context, actorID string, req *models.CreateAssetRequest) (*models.Asset, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if req.CategoryID == "" {
		return nil, apperrors.Validation("category_id is required")
	}
	status := req.Status
	if status == "" {
		status = models.AssetStatusStock
	}
	if !models.ValidAssetStatus(status) {
		return nil, apperrors.Validation("unknown status %q", status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	category, err := s.categories.GetForUpdate(ctx, tx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	tag := req.AssetTag
	if tag == "" {
		code := categoryTagCode(category)
		year := tagYear(req.PurchaseDate, time.Now())
		count, err := s.assets.CountTagsWithPrefix(ctx, tx, category.ID, fmt.Sprintf("%s-%d-", code, year))
		if err != nil {
			return nil, err
		}
		tag = formatAssetTag(code, year, count+1)
	}

	asset := &models.Asset{
		ID:            uuid.NewString(),
		AssetTag:      tag,
		Name:          req.Name,
		Model:         req.Model,
		SerialNumber:  req.SerialNumber,
		Manufacturer:  req.Manufacturer,
		Status:        status,
		Grade:         CalculateGrade(req.PurchaseDate, time.Now()),
		CategoryID:    req.CategoryID,
		LocationID:    req.LocationID,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Supplier:      req.Supplier,
		WarrantyEnd:   req.WarrantyEnd,
		Description:   req.Description,
		Notes:         req.Notes,
	}
	if err := s.assets.Create(ctx, tx, asset); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Asset %s registered", asset.AssetTag)
	entry := &models.AssetHistory{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		PerformedBy: actorID,
		Action:      models.HistoryCreated,
		Description: &desc,
		NewValues: map[string]any{
			"asset_tag": asset.AssetTag,
			"name":      asset.Name,
			"status":    asset.Status,
			"grade":     asset.Grade,
		},
	}
	if err := s.history.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	cache.InvalidateDashboardStats(ctx)
	log.Printf("[AssetService] Created asset %s (%s)", asset.AssetTag, asset.ID)
	return asset, nil
}

// Update applies a partial update. Touched fields are diffed into the
// ledger entry; a purchase date change recomputes the grade.
func (s *AssetService) Update(ctx context.Context, actorID, id string, req *models.UpdateAssetRequest) (*models.Asset, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	asset, err := s.assets.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if asset.IsDeleted() {
		return nil, apperrors.Conflict("asset %s is deleted", asset.AssetTag)
	}

	oldValues := map[string]any{}
	newValues := map[string]any{}
	var fromLocation, toLocation *string

	setStr := func(field string, dst **string, v *string) {
		if v == nil {
			return
		}
		old := ""
		if *dst != nil {
			old = **dst
		}
		if old == *v {
			return
		}
		oldValues[field] = old
		newValues[field] = *v
		*dst = v
	}

	if req.Name != nil && *req.Name != asset.Name {
		oldValues["name"] = asset.Name
		newValues["name"] = *req.Name
		asset.Name = *req.Name
	}
	setStr("model", &asset.Model, req.Model)
	setStr("serial_number", &asset.SerialNumber, req.SerialNumber)
	setStr("manufacturer", &asset.Manufacturer, req.Manufacturer)
	setStr("supplier", &asset.Supplier, req.Supplier)
	setStr("description", &asset.Description, req.Description)
	setStr("notes", &asset.Notes, req.Notes)

	if req.Status != nil && *req.Status != asset.Status {
		if !models.ValidAssetStatus(*req.Status) {
			return nil, apperrors.Validation("unknown status %q", *req.Status)
		}
		oldValues["status"] = asset.Status
		newValues["status"] = *req.Status
		asset.Status = *req.Status
	}
	if req.LocationID != nil {
		old := ""
		if asset.LocationID != nil {
			old = *asset.LocationID
		}
		if old != *req.LocationID {
			fromLocation = asset.LocationID
			toLocation = req.LocationID
			oldValues["location_id"] = old
			newValues["location_id"] = *req.LocationID
			asset.LocationID = req.LocationID
		}
	}
	if req.PurchaseDate != nil {
		oldValues["purchase_date"] = asset.PurchaseDate
		newValues["purchase_date"] = *req.PurchaseDate
		asset.PurchaseDate = req.PurchaseDate
		oldGrade := asset.Grade
		asset.Grade = CalculateGrade(asset.PurchaseDate, time.Now())
		if asset.Grade != oldGrade {
			oldValues["grade"] = oldGrade
			newValues["grade"] = asset.Grade
		}
	}
	if req.PurchasePrice != nil {
		oldValues["purchase_price"] = asset.PurchasePrice
		newValues["purchase_price"] = *req.PurchasePrice
		asset.PurchasePrice = req.PurchasePrice
	}
	if req.WarrantyEnd != nil {
		oldValues["warranty_end"] = asset.WarrantyEnd
		newValues["warranty_end"] = *req.WarrantyEnd
		asset.WarrantyEnd = req.WarrantyEnd
	}

	if err := s.assets.Update(ctx, tx, asset); err != nil {
		return nil, err
	}

	if len(newValues) > 0 {
		entry := &models.AssetHistory{
			ID:             uuid.NewString(),
			AssetID:        asset.ID,
			PerformedBy:    actorID,
			Action:         models.HistoryUpdated,
			FromLocationID: fromLocation,
			ToLocationID:   toLocation,
			OldValues:      oldValues,
			NewValues:      newValues,
		}
		if err := s.history.Append(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	cache.InvalidateDashboardStats(ctx)
	return asset, nil
}

// Assign hands an asset to a user directly, bypassing the approval
// workflow. Reserved for administrative corrections.
func (s *AssetService) Assign(ctx context.Context, actorID, assetID string, req *models.AssignAssetRequest) (*models.Asset, error) {
	if req.UserID == "" {
		return nil, apperrors.Validation("user_id is required")
	}
	user, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Validation("user %s is not active", user.Email)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	asset, err := s.assets.GetForUpdate(ctx, tx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.IsDeleted() {
		return nil, apperrors.Conflict("asset %s is deleted", asset.AssetTag)
	}
	if asset.Status != models.AssetStatusLoaned && asset.Status != models.AssetStatusStock {
		return nil, apperrors.Conflict("asset %s is not available for assignment (status %s)", asset.AssetTag, asset.Status)
	}

	fromUser := asset.AssignedTo
	if err := s.assets.UpdateCustody(ctx, tx, asset.ID, models.AssetStatusIssued, &req.UserID); err != nil {
		return nil, err
	}
	asset.Status = models.AssetStatusIssued
	asset.AssignedTo = &req.UserID

	desc := fmt.Sprintf("Directly assigned to %s", user.Name)
	if req.Reason != "" {
		desc += ": " + req.Reason
	}
	entry := &models.AssetHistory{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		PerformedBy: actorID,
		Action:      models.HistoryAssigned,
		Description: &desc,
		FromUserID:  fromUser,
		ToUserID:    &req.UserID,
	}
	if err := s.history.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	cache.InvalidateDashboardStats(ctx)
	return asset, nil
}

// Unassign takes an asset back into stock directly.
func (s *AssetService) Unassign(ctx context.Context, actorID, assetID string, req *models.UnassignAssetRequest) (*models.Asset, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	asset, err := s.assets.GetForUpdate(ctx, tx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Status != models.AssetStatusIssued {
		return nil, apperrors.Conflict("asset %s is not issued (status %s)", asset.AssetTag, asset.Status)
	}

	fromUser := asset.AssignedTo
	if err := s.assets.UpdateCustody(ctx, tx, asset.ID, models.AssetStatusStock, nil); err != nil {
		return nil, err
	}
	asset.Status = models.AssetStatusStock
	asset.AssignedTo = nil

	desc := "Directly returned to stock"
	if req.Reason != "" {
		desc += ": " + req.Reason
	}
	entry := &models.AssetHistory{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		PerformedBy: actorID,
		Action:      models.HistoryUnassigned,
		Description: &desc,
		FromUserID:  fromUser,
	}
	if err := s.history.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	cache.InvalidateDashboardStats(ctx)
	return asset, nil
}

// SoftDelete marks an asset deleted without dropping the row, so its
// ledger stays intact. A deleted asset always ends up disposed with no
// custodian, whatever state it was in before.
func (s *AssetService) SoftDelete(ctx context.Context, actorID, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	asset, err := s.assets.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if asset.IsDeleted() {
		return apperrors.Conflict("asset %s is already deleted", asset.AssetTag)
	}

	if err := s.assets.UpdateCustody(ctx, tx, asset.ID, models.AssetStatusDisposed, nil); err != nil {
		return err
	}
	if err := s.assets.SoftDelete(ctx, tx, asset.ID); err != nil {
		return err
	}
	desc := fmt.Sprintf("Asset %s removed from registry", asset.AssetTag)
	entry := &models.AssetHistory{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		PerformedBy: actorID,
		Action:      models.HistoryDeleted,
		Description: &desc,
		FromUserID:  asset.AssignedTo,
		OldValues:   map[string]any{"status": asset.Status},
		NewValues:   map[string]any{"status": models.AssetStatusDisposed},
	}
	if err := s.history.Append(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	cache.InvalidateDashboardStats(ctx)
	log.Printf("[AssetService] Deleted asset %s (%s)", asset.AssetTag, asset.ID)
	return nil
}

// Restore brings a soft-deleted asset back.
func (s *AssetService) Restore(ctx context.Context, actorID, id string) (*models.Asset, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	asset, err := s.assets.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !asset.IsDeleted() {
		return nil, apperrors.Conflict("asset %s is not deleted", asset.AssetTag)
	}

	// Deleted assets were forced to disposed; a restored one re-enters stock.
	if err := s.assets.UpdateCustody(ctx, tx, asset.ID, models.AssetStatusStock, nil); err != nil {
		return nil, err
	}
	if err := s.assets.Restore(ctx, tx, asset.ID); err != nil {
		return nil, err
	}
	asset.DeletedAt = nil
	asset.Status = models.AssetStatusStock

	desc := fmt.Sprintf("Asset %s restored to registry", asset.AssetTag)
	entry := &models.AssetHistory{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		PerformedBy: actorID,
		Action:      models.HistoryRestored,
		Description: &desc,
		OldValues:   map[string]any{"status": models.AssetStatusDisposed},
		NewValues:   map[string]any{"status": models.AssetStatusStock},
	}
	if err := s.history.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	cache.InvalidateDashboardStats(ctx)
	return asset, nil
}
