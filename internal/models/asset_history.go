package models

import "time"

// HistoryAction identifies what kind of mutation a ledger entry records.
type HistoryAction string

const (
	HistoryCreated          HistoryAction = "created"
	HistoryUpdated          HistoryAction = "updated"
	HistoryAssigned         HistoryAction = "assigned"
	HistoryUnassigned       HistoryAction = "unassigned"
	HistoryTransferred      HistoryAction = "transferred"
	HistoryLocationChanged  HistoryAction = "location_changed"
	HistoryStatusChanged    HistoryAction = "status_changed"
	HistoryMaintenanceStart HistoryAction = "maintenance_start"
	HistoryMaintenanceEnd   HistoryAction = "maintenance_end"
	HistoryDeleted          HistoryAction = "deleted"
	HistoryRestored         HistoryAction = "restored"
)

// AssetHistory is one entry of the append-only audit ledger. Entries are
// never updated or deleted once written.
type AssetHistory struct {
	ID          string        `json:"id" db:"id"`
	AssetID     string        `json:"asset_id" db:"asset_id"`
	PerformedBy string        `json:"performed_by" db:"performed_by"`
	Action      HistoryAction `json:"action" db:"action"`
	Description *string       `json:"description,omitempty" db:"description"`

	FromUserID     *string `json:"from_user_id,omitempty" db:"from_user_id"`
	ToUserID       *string `json:"to_user_id,omitempty" db:"to_user_id"`
	FromLocationID *string `json:"from_location_id,omitempty" db:"from_location_id"`
	ToLocationID   *string `json:"to_location_id,omitempty" db:"to_location_id"`

	OldValues map[string]any `json:"old_values,omitempty" db:"old_values"`
	NewValues map[string]any `json:"new_values,omitempty" db:"new_values"`

	WorkflowID *string `json:"workflow_id,omitempty" db:"workflow_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
