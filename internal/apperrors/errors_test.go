package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "asset not found: a-1", NotFound("asset", "a-1").Error())
	assert.Equal(t, "asset_tag already exists: 12-2026-0001", Duplicate("asset_tag", "12-2026-0001").Error())
	assert.Equal(t, "name is required", Validation("name is required").Error())
	assert.Equal(t, "workflow wf-1 is already approved", Conflict("workflow %s is already %s", "wf-1", "approved").Error())
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("approve workflow: %w", Conflict("already decided"))

	var conflict *ConflictError
	assert.True(t, errors.As(wrapped, &conflict))
	assert.Equal(t, "already decided", conflict.Reason)

	var notFound *NotFoundError
	assert.False(t, errors.As(wrapped, &notFound))
}
