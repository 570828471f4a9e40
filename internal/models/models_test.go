package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidAssetStatus(t *testing.T) {
	for _, s := range []AssetStatus{
		AssetStatusIssued, AssetStatusLoaned, AssetStatusGeneral,
		AssetStatusStock, AssetStatusServerRoom, AssetStatusDisposed,
	} {
		assert.True(t, ValidAssetStatus(s), string(s))
	}
	assert.False(t, ValidAssetStatus("broken"))
	assert.False(t, ValidAssetStatus(""))
}

func TestValidWorkflowType(t *testing.T) {
	for _, w := range []WorkflowType{
		WorkflowCheckout, WorkflowCheckin, WorkflowTransfer,
		WorkflowMaintenance, WorkflowRental, WorkflowReturn, WorkflowDisposal,
	} {
		assert.True(t, ValidWorkflowType(w), string(w))
	}
	assert.False(t, ValidWorkflowType("upgrade"))
}

func TestAssetIsDeleted(t *testing.T) {
	a := &Asset{}
	assert.False(t, a.IsDeleted())

	now := time.Now()
	a.DeletedAt = &now
	assert.True(t, a.IsDeleted())
}
