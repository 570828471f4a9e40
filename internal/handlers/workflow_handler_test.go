package handlers

import (
	"net/url"
	"testing"

	"asset-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowFilterFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("type", "rental")
	q.Set("status", "pending")
	q.Set("asset_id", "asset-1")
	q.Set("requester_id", "user-1")

	f := workflowFilterFromQuery(q)
	assert.Equal(t, models.WorkflowRental, f.Type)
	assert.Equal(t, models.WorkflowPending, f.Status)
	assert.Equal(t, "asset-1", f.AssetID)
	assert.Equal(t, "user-1", f.RequesterID)

	empty := workflowFilterFromQuery(url.Values{})
	assert.Equal(t, models.WorkflowFilter{}, empty)
}
