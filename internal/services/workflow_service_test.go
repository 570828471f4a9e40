package services

import (
	"testing"
	"time"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/auth"
	"asset-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestApprovalEffect(t *testing.T) {
	holder := "user-1"
	assignee := "user-2"

	t.Run("checkout assigns to requester by default", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowCheckout, RequesterID: "req-1"}
		asset := &models.Asset{Status: models.AssetStatusStock}

		effect := approvalEffect(wf, asset)
		assert.Equal(t, models.AssetStatusIssued, effect.status)
		require.NotNil(t, effect.assignedTo)
		assert.Equal(t, "req-1", *effect.assignedTo)
		assert.Equal(t, models.HistoryAssigned, effect.action)
	})

	t.Run("checkout honors explicit assignee", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowCheckout, RequesterID: "req-1", AssigneeID: &assignee}
		asset := &models.Asset{Status: models.AssetStatusStock}

		effect := approvalEffect(wf, asset)
		require.NotNil(t, effect.assignedTo)
		assert.Equal(t, assignee, *effect.assignedTo)
	})

	t.Run("checkin returns to stock and unassigns", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowCheckin, RequesterID: holder}
		asset := &models.Asset{Status: models.AssetStatusIssued, AssignedTo: &holder}

		effect := approvalEffect(wf, asset)
		assert.Equal(t, models.AssetStatusStock, effect.status)
		assert.Nil(t, effect.assignedTo)
		assert.Equal(t, models.HistoryUnassigned, effect.action)
	})

	t.Run("rental keeps the loaned status", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowRental, RequesterID: "req-1"}
		asset := &models.Asset{Status: models.AssetStatusLoaned}

		effect := approvalEffect(wf, asset)
		assert.Equal(t, models.AssetStatusLoaned, effect.status)
		require.NotNil(t, effect.assignedTo)
		assert.Equal(t, "req-1", *effect.assignedTo)
	})

	t.Run("return stays in the rental pool", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowReturn, RequesterID: holder}
		asset := &models.Asset{Status: models.AssetStatusLoaned, AssignedTo: &holder}

		effect := approvalEffect(wf, asset)
		assert.Equal(t, models.AssetStatusLoaned, effect.status)
		assert.Nil(t, effect.assignedTo)
		assert.Equal(t, models.HistoryUnassigned, effect.action)
	})

	t.Run("disposal clears custody", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowDisposal, RequesterID: "req-1"}
		asset := &models.Asset{Status: models.AssetStatusIssued, AssignedTo: &holder}

		effect := approvalEffect(wf, asset)
		assert.Equal(t, models.AssetStatusDisposed, effect.status)
		assert.Nil(t, effect.assignedTo)
		assert.Equal(t, models.HistoryStatusChanged, effect.action)
	})

	t.Run("transfer issues to the assignee", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowTransfer, RequesterID: holder, AssigneeID: &assignee}
		asset := &models.Asset{Status: models.AssetStatusIssued, AssignedTo: &holder}

		effect := approvalEffect(wf, asset)
		assert.Equal(t, models.AssetStatusIssued, effect.status)
		require.NotNil(t, effect.assignedTo)
		assert.Equal(t, assignee, *effect.assignedTo)
		assert.Equal(t, models.HistoryTransferred, effect.action)
	})

	t.Run("maintenance leaves custody untouched", func(t *testing.T) {
		wf := &models.Workflow{Type: models.WorkflowMaintenance, RequesterID: "req-1"}
		asset := &models.Asset{Status: models.AssetStatusIssued, AssignedTo: &holder}

		effect := approvalEffect(wf, asset)
		assert.Equal(t, models.AssetStatusIssued, effect.status)
		require.NotNil(t, effect.assignedTo)
		assert.Equal(t, holder, *effect.assignedTo)
		assert.Equal(t, models.HistoryMaintenanceStart, effect.action)
	})
}

func TestVisibleTo(t *testing.T) {
	assignee := "emp-2"
	wf := &models.Workflow{ID: "wf-1", RequesterID: "emp-1", AssigneeID: &assignee}

	t.Run("deciders see every request", func(t *testing.T) {
		manager := auth.Actor{ID: "mgr-1", Role: models.RoleManager}
		admin := auth.Actor{ID: "adm-1", Role: models.RoleAdmin}

		assert.True(t, visibleTo(wf, manager, auth.Authorize))
		assert.True(t, visibleTo(wf, admin, auth.Authorize))
	})

	t.Run("requester and assignee see their own", func(t *testing.T) {
		requester := auth.Actor{ID: "emp-1", Role: models.RoleEmployee}
		addressed := auth.Actor{ID: assignee, Role: models.RoleEmployee}

		assert.True(t, visibleTo(wf, requester, auth.Authorize))
		assert.True(t, visibleTo(wf, addressed, auth.Authorize))
	})

	t.Run("unrelated employees see nothing", func(t *testing.T) {
		stranger := auth.Actor{ID: "emp-3", Role: models.RoleEmployee}
		assert.False(t, visibleTo(wf, stranger, auth.Authorize))
	})
}

func TestMyRequestsFilter(t *testing.T) {
	f := myRequestsFilter("emp-1", models.WorkflowFilter{
		RequesterID: "someone-else",
		Type:        models.WorkflowRental,
		Status:      models.WorkflowPending,
	})

	assert.Equal(t, "emp-1", f.RequesterID)
	assert.Equal(t, models.WorkflowRental, f.Type)
	assert.Equal(t, models.WorkflowPending, f.Status)
}

func TestAcknowledgeGuard(t *testing.T) {
	wf := func(status models.WorkflowStatus) *models.Workflow {
		return &models.Workflow{ID: "wf-1", RequesterID: "emp-1", Status: status}
	}

	t.Run("only the requester may acknowledge", func(t *testing.T) {
		var aerr *apperrors.AuthorizationError
		assert.ErrorAs(t, acknowledgeGuard(wf(models.WorkflowApproved), "emp-2"), &aerr)
	})

	t.Run("decided workflows may be acknowledged", func(t *testing.T) {
		assert.NoError(t, acknowledgeGuard(wf(models.WorkflowApproved), "emp-1"))
		assert.NoError(t, acknowledgeGuard(wf(models.WorkflowRejected), "emp-1"))
	})

	t.Run("undecided workflows may not", func(t *testing.T) {
		var verr *apperrors.ValidationError
		assert.ErrorAs(t, acknowledgeGuard(wf(models.WorkflowPending), "emp-1"), &verr)
		assert.ErrorAs(t, acknowledgeGuard(wf(models.WorkflowCancelled), "emp-1"), &verr)
	})
}

func TestValidateCreate(t *testing.T) {
	employee := auth.Actor{ID: "emp-1", Role: models.RoleEmployee}
	manager := auth.Actor{ID: "mgr-1", Role: models.RoleManager}
	returnDate := time.Now().AddDate(0, 1, 0)

	stockAsset := func() *models.Asset {
		return &models.Asset{AssetTag: "12-2026-0001", Status: models.AssetStatusStock}
	}
	loanedAsset := func() *models.Asset {
		return &models.Asset{AssetTag: "12-2026-0002", Status: models.AssetStatusLoaned}
	}

	t.Run("checkout from stock is allowed", func(t *testing.T) {
		req := &models.CreateWorkflowRequest{Type: models.WorkflowCheckout}
		assert.NoError(t, validateCreate(req, stockAsset(), employee, auth.Authorize))
	})

	t.Run("checkout of issued asset is rejected", func(t *testing.T) {
		req := &models.CreateWorkflowRequest{Type: models.WorkflowCheckout}
		asset := stockAsset()
		asset.Status = models.AssetStatusIssued

		err := validateCreate(req, asset, employee, auth.Authorize)
		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("checkin requires holding the asset", func(t *testing.T) {
		req := &models.CreateWorkflowRequest{Type: models.WorkflowCheckin}
		asset := stockAsset()
		asset.Status = models.AssetStatusIssued
		asset.AssignedTo = strptr("someone-else")

		err := validateCreate(req, asset, employee, auth.Authorize)
		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)

		asset.AssignedTo = strptr(employee.ID)
		assert.NoError(t, validateCreate(req, asset, employee, auth.Authorize))
	})

	t.Run("rental needs an unassigned pool asset and a return date", func(t *testing.T) {
		req := &models.CreateWorkflowRequest{Type: models.WorkflowRental, ExpectedReturnDate: &returnDate}
		assert.NoError(t, validateCreate(req, loanedAsset(), employee, auth.Authorize))

		var verr *apperrors.ValidationError
		err := validateCreate(req, stockAsset(), employee, auth.Authorize)
		assert.ErrorAs(t, err, &verr)

		rented := loanedAsset()
		rented.AssignedTo = strptr("someone-else")
		err = validateCreate(req, rented, employee, auth.Authorize)
		assert.ErrorAs(t, err, &verr)

		noDate := &models.CreateWorkflowRequest{Type: models.WorkflowRental}
		err = validateCreate(noDate, loanedAsset(), employee, auth.Authorize)
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("return requires holding the rental", func(t *testing.T) {
		req := &models.CreateWorkflowRequest{Type: models.WorkflowReturn}
		asset := loanedAsset()
		asset.AssignedTo = strptr(employee.ID)
		assert.NoError(t, validateCreate(req, asset, employee, auth.Authorize))

		asset.AssignedTo = strptr("someone-else")
		var verr *apperrors.ValidationError
		assert.ErrorAs(t, validateCreate(req, asset, employee, auth.Authorize), &verr)
	})

	t.Run("transfer requires an assignee", func(t *testing.T) {
		req := &models.CreateWorkflowRequest{Type: models.WorkflowTransfer}
		var verr *apperrors.ValidationError
		assert.ErrorAs(t, validateCreate(req, stockAsset(), employee, auth.Authorize), &verr)

		req.AssigneeID = strptr("user-2")
		assert.NoError(t, validateCreate(req, stockAsset(), employee, auth.Authorize))
	})

	t.Run("disposal and maintenance are role gated", func(t *testing.T) {
		for _, typ := range []models.WorkflowType{models.WorkflowDisposal, models.WorkflowMaintenance} {
			req := &models.CreateWorkflowRequest{Type: typ}

			var aerr *apperrors.AuthorizationError
			assert.ErrorAs(t, validateCreate(req, stockAsset(), employee, auth.Authorize), &aerr)
			assert.NoError(t, validateCreate(req, stockAsset(), manager, auth.Authorize))
		}
	})

	t.Run("deleted and disposed assets accept no requests", func(t *testing.T) {
		req := &models.CreateWorkflowRequest{Type: models.WorkflowCheckout}

		deleted := stockAsset()
		now := time.Now()
		deleted.DeletedAt = &now
		var verr *apperrors.ValidationError
		assert.ErrorAs(t, validateCreate(req, deleted, employee, auth.Authorize), &verr)

		disposed := stockAsset()
		disposed.Status = models.AssetStatusDisposed
		assert.ErrorAs(t, validateCreate(req, disposed, employee, auth.Authorize), &verr)
	})
}
