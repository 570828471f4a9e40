package models

import "time"

// WorkflowType is the kind of custody change being requested.
type WorkflowType string

const (
	WorkflowCheckout    WorkflowType = "checkout"    // permanent issuance to an employee
	WorkflowCheckin     WorkflowType = "checkin"     // return of issued equipment to stock
	WorkflowTransfer    WorkflowType = "transfer"    // hand over between users
	WorkflowMaintenance WorkflowType = "maintenance" // send for maintenance
	WorkflowRental      WorkflowType = "rental"      // temporary loan from the rental pool
	WorkflowReturn      WorkflowType = "return"      // return a rental to the pool
	WorkflowDisposal    WorkflowType = "disposal"    // write off
)

// ValidWorkflowType reports whether t is one of the known types.
func ValidWorkflowType(t WorkflowType) bool {
	switch t {
	case WorkflowCheckout, WorkflowCheckin, WorkflowTransfer,
		WorkflowMaintenance, WorkflowRental, WorkflowReturn, WorkflowDisposal:
		return true
	}
	return false
}

// WorkflowStatus is the approval state. Pending is the only state a
// transition is permitted from; everything else is terminal.
type WorkflowStatus string

const (
	WorkflowPending   WorkflowStatus = "pending"
	WorkflowApproved  WorkflowStatus = "approved"
	WorkflowRejected  WorkflowStatus = "rejected"
	WorkflowCancelled WorkflowStatus = "cancelled"
	// WorkflowCompleted exists in the schema but no transition currently
	// produces it. Reserved for a future two-phase completion flow.
	WorkflowCompleted WorkflowStatus = "completed"
)

type Workflow struct {
	ID     string         `json:"id" db:"id"`
	Type   WorkflowType   `json:"type" db:"type"`
	Status WorkflowStatus `json:"status" db:"status"`

	AssetID     string  `json:"asset_id" db:"asset_id"`
	RequesterID string  `json:"requester_id" db:"requester_id"`
	AssigneeID  *string `json:"assignee_id,omitempty" db:"assignee_id"`
	ApproverID  *string `json:"approver_id,omitempty" db:"approver_id"`

	Reason             *string    `json:"reason,omitempty" db:"reason"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty" db:"expected_return_date"`

	ApprovedAt   *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	RejectedAt   *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	RejectReason *string    `json:"reject_reason,omitempty" db:"reject_reason"`

	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CompletionNotes *string    `json:"completion_notes,omitempty" db:"completion_notes"`

	ViewedByRequester bool `json:"viewed_by_requester" db:"viewed_by_requester"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateWorkflowRequest is the request body for creating a workflow.
type CreateWorkflowRequest struct {
	Type               WorkflowType `json:"type"`
	AssetID            string       `json:"asset_id"`
	AssigneeID         *string      `json:"assignee_id"`
	Reason             *string      `json:"reason"`
	ExpectedReturnDate *time.Time   `json:"expected_return_date"`
}

// ApprovalRequest carries the optional approver comment.
type ApprovalRequest struct {
	Comment string `json:"comment"`
}

// RejectionRequest carries the mandatory rejection reason.
type RejectionRequest struct {
	Reason string `json:"reason"`
}

// WorkflowFilter narrows workflow listing queries.
type WorkflowFilter struct {
	RequesterID string
	Type        WorkflowType
	Status      WorkflowStatus
	AssetID     string
}
