package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workflowColumns = `id, type, status, asset_id, requester_id, assignee_id, approver_id,
	reason, expected_return_date, approved_at, rejected_at, reject_reason,
	completed_at, completion_notes, viewed_by_requester, created_at, updated_at`

type WorkflowRepository struct {
	DB *pgxpool.Pool
}

func NewWorkflowRepository(db *pgxpool.Pool) *WorkflowRepository {
	return &WorkflowRepository{DB: db}
}

func scanWorkflow(row pgx.Row) (*models.Workflow, error) {
	var w models.Workflow
	err := row.Scan(&w.ID, &w.Type, &w.Status, &w.AssetID, &w.RequesterID, &w.AssigneeID,
		&w.ApproverID, &w.Reason, &w.ExpectedReturnDate, &w.ApprovedAt, &w.RejectedAt,
		&w.RejectReason, &w.CompletedAt, &w.CompletionNotes, &w.ViewedByRequester,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkflowRepository) Get(ctx context.Context, id string) (*models.Workflow, error) {
	w, err := scanWorkflow(r.DB.QueryRow(ctx,
		`SELECT `+workflowColumns+` FROM workflows WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("workflow", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	return w, nil
}

// GetForUpdate locks the workflow row. Decisions re-check the status after
// acquiring the lock, so two racing approvers cannot both win: the loser
// observes a terminal status and gets a conflict.
func (r *WorkflowRepository) GetForUpdate(ctx context.Context, tx DB, id string) (*models.Workflow, error) {
	w, err := scanWorkflow(tx.QueryRow(ctx,
		`SELECT `+workflowColumns+` FROM workflows WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("workflow", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock workflow: %w", err)
	}
	return w, nil
}

func (r *WorkflowRepository) Create(ctx context.Context, w *models.Workflow) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO workflows(id, type, status, asset_id, requester_id, assignee_id, reason, expected_return_date)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		w.ID, w.Type, w.Status, w.AssetID, w.RequesterID, w.AssigneeID, w.Reason, w.ExpectedReturnDate,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create workflow: %w", err)
	}
	return nil
}

func (r *WorkflowRepository) MarkApproved(ctx context.Context, tx DB, id, approverID string, notes *string) error {
	_, err := tx.Exec(ctx,
		`UPDATE workflows SET status = $2, approver_id = $3, approved_at = NOW(),
			completion_notes = $4, updated_at = NOW()
		 WHERE id = $1`,
		id, models.WorkflowApproved, approverID, notes)
	if err != nil {
		return fmt.Errorf("mark workflow approved: %w", err)
	}
	return nil
}

func (r *WorkflowRepository) MarkRejected(ctx context.Context, tx DB, id, approverID, reason string) error {
	_, err := tx.Exec(ctx,
		`UPDATE workflows SET status = $2, approver_id = $3, rejected_at = NOW(),
			reject_reason = $4, updated_at = NOW()
		 WHERE id = $1`,
		id, models.WorkflowRejected, approverID, reason)
	if err != nil {
		return fmt.Errorf("mark workflow rejected: %w", err)
	}
	return nil
}

func (r *WorkflowRepository) MarkCancelled(ctx context.Context, tx DB, id string) error {
	_, err := tx.Exec(ctx,
		`UPDATE workflows SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, models.WorkflowCancelled)
	if err != nil {
		return fmt.Errorf("mark workflow cancelled: %w", err)
	}
	return nil
}

func (r *WorkflowRepository) MarkViewed(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE workflows SET viewed_by_requester = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark workflow viewed: %w", err)
	}
	return nil
}

// CountUnviewedDecided counts the requester's decided-but-unseen workflows.
// Cancelled requests do not count: the requester made that decision.
func (r *WorkflowRepository) CountUnviewedDecided(ctx context.Context, requesterID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM workflows
		 WHERE requester_id = $1 AND viewed_by_requester = FALSE AND status IN ($2, $3)`,
		requesterID, models.WorkflowApproved, models.WorkflowRejected).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unviewed workflows: %w", err)
	}
	return n, nil
}

// List returns a filtered page of workflows plus the total match count.
func (r *WorkflowRepository) List(ctx context.Context, f models.WorkflowFilter, limit, offset int) ([]*models.Workflow, int, error) {
	var conds []string
	var args []any

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.RequesterID != "" {
		add("requester_id = $%d", f.RequesterID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.AssetID != "" {
		add("asset_id = $%d", f.AssetID)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM workflows`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count workflows: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+workflowColumns+` FROM workflows%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	rows, err := r.DB.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var workflows []*models.Workflow
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, 0, err
		}
		workflows = append(workflows, w)
	}
	return workflows, total, rows.Err()
}

// CountByStatus groups workflows by status for the dashboard.
func (r *WorkflowRepository) CountByStatus(ctx context.Context) (map[models.WorkflowStatus]int, error) {
	rows, err := r.DB.Query(ctx, `SELECT status, COUNT(*) FROM workflows GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count workflows by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.WorkflowStatus]int)
	for rows.Next() {
		var s models.WorkflowStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}
