package services

import (
	"context"
	"fmt"
	"log"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/auth"
	"asset-backend/internal/cache"
	"asset-backend/internal/metrics"
	"asset-backend/internal/models"
	"asset-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WorkflowNotifier is told about workflow lifecycle events after the
// transaction commits. Implementations are best-effort: a failed
// notification never fails the workflow operation.
type WorkflowNotifier interface {
	WorkflowCreated(wf *models.Workflow, asset *models.Asset, requester *models.User)
	WorkflowDecided(wf *models.Workflow, asset *models.Asset)
}

// custodyEffect is the change a workflow approval applies to its asset.
type custodyEffect struct {
	status      models.AssetStatus
	assignedTo  *string
	action      models.HistoryAction
	description string
}

// approvalEffect maps an approved workflow to the custody change it
// causes. The mapping is total over the valid workflow types.
func approvalEffect(wf *models.Workflow, asset *models.Asset) custodyEffect {
	switch wf.Type {
	case models.WorkflowCheckout:
		target := wf.RequesterID
		if wf.AssigneeID != nil {
			target = *wf.AssigneeID
		}
		return custodyEffect{
			status:      models.AssetStatusIssued,
			assignedTo:  &target,
			action:      models.HistoryAssigned,
			description: "Checkout approved",
		}
	case models.WorkflowCheckin:
		return custodyEffect{
			status:      models.AssetStatusStock,
			assignedTo:  nil,
			action:      models.HistoryUnassigned,
			description: "Checkin approved",
		}
	case models.WorkflowRental:
		requester := wf.RequesterID
		return custodyEffect{
			status:      models.AssetStatusLoaned,
			assignedTo:  &requester,
			action:      models.HistoryAssigned,
			description: "Rental approved",
		}
	case models.WorkflowReturn:
		return custodyEffect{
			status:      models.AssetStatusLoaned,
			assignedTo:  nil,
			action:      models.HistoryUnassigned,
			description: "Rental return approved",
		}
	case models.WorkflowDisposal:
		return custodyEffect{
			status:      models.AssetStatusDisposed,
			assignedTo:  nil,
			action:      models.HistoryStatusChanged,
			description: "Disposal approved",
		}
	case models.WorkflowTransfer:
		return custodyEffect{
			status:      models.AssetStatusIssued,
			assignedTo:  wf.AssigneeID,
			action:      models.HistoryTransferred,
			description: "Transfer approved",
		}
	case models.WorkflowMaintenance:
		// Maintenance does not move custody; the asset keeps its holder
		// while it is being serviced.
		return custodyEffect{
			status:      asset.Status,
			assignedTo:  asset.AssignedTo,
			action:      models.HistoryMaintenanceStart,
			description: "Maintenance approved",
		}
	}
	// Unreachable for persisted workflows; creation validates the type.
	return custodyEffect{status: asset.Status, assignedTo: asset.AssignedTo, action: models.HistoryUpdated}
}

// validateCreate checks the per-type preconditions a new request must meet
// against the asset's current state. It mutates nothing.
func validateCreate(req *models.CreateWorkflowRequest, asset *models.Asset, actor auth.Actor, authorize auth.AuthorizeFunc) error {
	if asset.IsDeleted() {
		return apperrors.Validation("asset %s is deleted", asset.AssetTag)
	}
	if asset.Status == models.AssetStatusDisposed {
		return apperrors.Validation("asset %s is disposed", asset.AssetTag)
	}

	switch req.Type {
	case models.WorkflowCheckout:
		if asset.Status != models.AssetStatusLoaned && asset.Status != models.AssetStatusStock {
			return apperrors.Validation("asset %s is not available for checkout (status %s)", asset.AssetTag, asset.Status)
		}
	case models.WorkflowCheckin:
		if asset.AssignedTo == nil || *asset.AssignedTo != actor.ID {
			return apperrors.Validation("asset %s is not assigned to you", asset.AssetTag)
		}
	case models.WorkflowRental:
		if asset.Status != models.AssetStatusLoaned {
			return apperrors.Validation("asset %s is not in the rental pool", asset.AssetTag)
		}
		if asset.AssignedTo != nil {
			return apperrors.Validation("asset %s is already rented out", asset.AssetTag)
		}
		if req.ExpectedReturnDate == nil {
			return apperrors.Validation("expected_return_date is required for rentals")
		}
	case models.WorkflowReturn:
		if asset.AssignedTo == nil || *asset.AssignedTo != actor.ID {
			return apperrors.Validation("asset %s is not rented to you", asset.AssetTag)
		}
	case models.WorkflowTransfer:
		if req.AssigneeID == nil {
			return apperrors.Validation("assignee_id is required for transfers")
		}
	case models.WorkflowDisposal:
		if err := authorize(actor, auth.CapRequestDisposal); err != nil {
			return err
		}
	case models.WorkflowMaintenance:
		if err := authorize(actor, auth.CapRequestMaintenance); err != nil {
			return err
		}
	default:
		return apperrors.Validation("unknown workflow type %q", req.Type)
	}
	return nil
}

type WorkflowService struct {
	pool      *pgxpool.Pool
	workflows *repositories.WorkflowRepository
	assets    *repositories.AssetRepository
	users     *repositories.UserRepository
	history   *repositories.AssetHistoryRepository
	authorize auth.AuthorizeFunc
	notifier  WorkflowNotifier
}

func NewWorkflowService(
	pool *pgxpool.Pool,
	workflows *repositories.WorkflowRepository,
	assets *repositories.AssetRepository,
	users *repositories.UserRepository,
	history *repositories.AssetHistoryRepository,
	authorize auth.AuthorizeFunc,
	notifier WorkflowNotifier,
) *WorkflowService {
	return &WorkflowService{
		pool:      pool,
		workflows: workflows,
		assets:    assets,
		users:     users,
		history:   history,
		authorize: authorize,
		notifier:  notifier,
	}
}

// visibleTo reports whether the actor may read the workflow. Deciders see
// every request; everyone else sees only their own requests or requests
// addressed to them.
func visibleTo(wf *models.Workflow, actor auth.Actor, authorize auth.AuthorizeFunc) bool {
	if authorize(actor, auth.CapDecideWorkflow) == nil {
		return true
	}
	if wf.RequesterID == actor.ID {
		return true
	}
	return wf.AssigneeID != nil && *wf.AssigneeID == actor.ID
}

func (s *WorkflowService) Get(ctx context.Context, actor auth.Actor, id string) (*models.Workflow, error) {
	wf, err := s.workflows.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(wf, actor, s.authorize) {
		return nil, apperrors.Forbidden("workflow %s belongs to another requester", wf.ID)
	}
	return wf, nil
}

func (s *WorkflowService) List(ctx context.Context, f models.WorkflowFilter, limit, offset int) ([]*models.Workflow, int, error) {
	return s.workflows.List(ctx, f, limit, offset)
}

// myRequestsFilter narrows a filter to the actor's own requests, overriding
// any caller-supplied requester id.
func myRequestsFilter(actorID string, f models.WorkflowFilter) models.WorkflowFilter {
	f.RequesterID = actorID
	return f
}

// MyRequests lists the actor's own workflows, newest first. Type and status
// filters apply within that scope.
func (s *WorkflowService) MyRequests(ctx context.Context, actorID string, f models.WorkflowFilter, limit, offset int) ([]*models.Workflow, int, error) {
	return s.workflows.List(ctx, myRequestsFilter(actorID, f), limit, offset)
}

// Create opens a new pending request. The asset is read without a lock:
// preconditions are re-checked under the row lock at approval time, so a
// stale read here can only produce a request that later fails to approve.
func (s *WorkflowService) Create(ctx context.Context, actor auth.Actor, req *models.CreateWorkflowRequest) (*models.Workflow, error) {
	if !models.ValidWorkflowType(req.Type) {
		return nil, apperrors.Validation("unknown workflow type %q", req.Type)
	}
	if req.AssetID == "" {
		return nil, apperrors.Validation("asset_id is required")
	}

	asset, err := s.assets.Get(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}
	if err := validateCreate(req, asset, actor, s.authorize); err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		assignee, err := s.users.Get(ctx, *req.AssigneeID)
		if err != nil {
			return nil, err
		}
		if !assignee.IsActive {
			return nil, apperrors.Validation("assignee %s is not active", assignee.Email)
		}
	}

	wf := &models.Workflow{
		ID:                 uuid.NewString(),
		Type:               req.Type,
		Status:             models.WorkflowPending,
		AssetID:            req.AssetID,
		RequesterID:        actor.ID,
		AssigneeID:         req.AssigneeID,
		Reason:             req.Reason,
		ExpectedReturnDate: req.ExpectedReturnDate,
	}
	if err := s.workflows.Create(ctx, wf); err != nil {
		return nil, err
	}
	metrics.WorkflowsCreatedTotal.WithLabelValues(string(wf.Type)).Inc()
	log.Printf("[WorkflowService] Created %s workflow %s for asset %s", wf.Type, wf.ID, asset.AssetTag)

	if s.notifier != nil {
		requester, err := s.users.Get(ctx, actor.ID)
		if err == nil {
			s.notifier.WorkflowCreated(wf, asset, requester)
		}
	}
	return wf, nil
}

// Approve decides a pending workflow and applies its custody effect to the
// asset, all inside one transaction. The workflow row is locked first, then
// the asset row; the status re-check under the lock makes the decision
// race-free.
func (s *WorkflowService) Approve(ctx context.Context, actor auth.Actor, id string, req *models.ApprovalRequest) (*models.Workflow, error) {
	if err := s.authorize(actor, auth.CapDecideWorkflow); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	wf, err := s.workflows.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if wf.Status != models.WorkflowPending {
		return nil, apperrors.Conflict("workflow %s is already %s", wf.ID, wf.Status)
	}

	asset, err := s.assets.GetForUpdate(ctx, tx, wf.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.IsDeleted() {
		return nil, apperrors.Conflict("asset %s is deleted", asset.AssetTag)
	}
	if asset.Status == models.AssetStatusDisposed && wf.Type != models.WorkflowDisposal {
		return nil, apperrors.Conflict("asset %s is disposed", asset.AssetTag)
	}

	effect := approvalEffect(wf, asset)
	if err := s.assets.UpdateCustody(ctx, tx, asset.ID, effect.status, effect.assignedTo); err != nil {
		return nil, err
	}

	var notes *string
	if req != nil && req.Comment != "" {
		notes = &req.Comment
	}
	if err := s.workflows.MarkApproved(ctx, tx, wf.ID, actor.ID, notes); err != nil {
		return nil, err
	}

	desc := effect.description
	if wf.Reason != nil && *wf.Reason != "" {
		desc += ": " + *wf.Reason
	}
	entry := &models.AssetHistory{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		PerformedBy: actor.ID,
		Action:      effect.action,
		Description: &desc,
		FromUserID:  asset.AssignedTo,
		ToUserID:    effect.assignedTo,
		WorkflowID:  &wf.ID,
		OldValues:   map[string]any{"status": asset.Status},
		NewValues:   map[string]any{"status": effect.status},
	}
	if err := s.history.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	metrics.WorkflowDecisionsTotal.WithLabelValues(string(wf.Type), "approved").Inc()
	cache.InvalidateUnviewedCount(ctx, wf.RequesterID)
	cache.InvalidateDashboardStats(ctx)
	log.Printf("[WorkflowService] Approved %s workflow %s for asset %s", wf.Type, wf.ID, asset.AssetTag)

	decided, err := s.workflows.Get(ctx, wf.ID)
	if err != nil {
		decided = wf
	}
	if s.notifier != nil {
		asset.Status = effect.status
		asset.AssignedTo = effect.assignedTo
		s.notifier.WorkflowDecided(decided, asset)
	}
	return decided, nil
}

// Reject declines a pending workflow. The asset is untouched.
func (s *WorkflowService) Reject(ctx context.Context, actor auth.Actor, id string, req *models.RejectionRequest) (*models.Workflow, error) {
	if err := s.authorize(actor, auth.CapDecideWorkflow); err != nil {
		return nil, err
	}
	if req == nil || req.Reason == "" {
		return nil, apperrors.Validation("rejection reason is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	wf, err := s.workflows.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if wf.Status != models.WorkflowPending {
		return nil, apperrors.Conflict("workflow %s is already %s", wf.ID, wf.Status)
	}
	if err := s.workflows.MarkRejected(ctx, tx, wf.ID, actor.ID, req.Reason); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	metrics.WorkflowDecisionsTotal.WithLabelValues(string(wf.Type), "rejected").Inc()
	cache.InvalidateUnviewedCount(ctx, wf.RequesterID)
	log.Printf("[WorkflowService] Rejected %s workflow %s", wf.Type, wf.ID)

	decided, err := s.workflows.Get(ctx, wf.ID)
	if err != nil {
		decided = wf
	}
	if s.notifier != nil {
		if asset, err := s.assets.Get(ctx, wf.AssetID); err == nil {
			s.notifier.WorkflowDecided(decided, asset)
		}
	}
	return decided, nil
}

// Cancel withdraws a pending request. Only the requester may cancel, and
// only while the request is still pending.
func (s *WorkflowService) Cancel(ctx context.Context, actor auth.Actor, id string) (*models.Workflow, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	wf, err := s.workflows.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if wf.RequesterID != actor.ID {
		return nil, apperrors.Forbidden("only the requester may cancel a request")
	}
	if wf.Status != models.WorkflowPending {
		return nil, apperrors.Conflict("workflow %s is already %s", wf.ID, wf.Status)
	}
	if err := s.workflows.MarkCancelled(ctx, tx, wf.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	metrics.WorkflowDecisionsTotal.WithLabelValues(string(wf.Type), "cancelled").Inc()
	wf.Status = models.WorkflowCancelled
	return wf, nil
}

// acknowledgeGuard checks that the actor may mark the decision as seen:
// requester only, and only once the request reached approved or rejected.
func acknowledgeGuard(wf *models.Workflow, actorID string) error {
	if wf.RequesterID != actorID {
		return apperrors.Forbidden("only the requester may acknowledge a decision")
	}
	if wf.Status != models.WorkflowApproved && wf.Status != models.WorkflowRejected {
		return apperrors.Validation("workflow %s has no decision to acknowledge", wf.ID)
	}
	return nil
}

// MarkViewed acknowledges a decision. Only the requester may acknowledge,
// and only after the request reached a decided state.
func (s *WorkflowService) MarkViewed(ctx context.Context, actor auth.Actor, id string) (*models.Workflow, error) {
	wf, err := s.workflows.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := acknowledgeGuard(wf, actor.ID); err != nil {
		return nil, err
	}
	if err := s.workflows.MarkViewed(ctx, wf.ID); err != nil {
		return nil, err
	}
	wf.ViewedByRequester = true
	cache.InvalidateUnviewedCount(ctx, actor.ID)
	return wf, nil
}

// UnviewedCount returns how many of the actor's requests were decided but
// not yet acknowledged. The count is briefly cached per user.
func (s *WorkflowService) UnviewedCount(ctx context.Context, actorID string) (int, error) {
	if n, ok := cache.GetCachedUnviewedCount(ctx, actorID); ok {
		return int(n), nil
	}
	n, err := s.workflows.CountUnviewedDecided(ctx, actorID)
	if err != nil {
		return 0, err
	}
	cache.CacheUnviewedCount(ctx, actorID, int64(n))
	return n, nil
}
