package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"asset-backend/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest},
		{"not found", apperrors.NotFound("asset", "a-1"), http.StatusNotFound},
		{"forbidden", apperrors.Forbidden("nope"), http.StatusForbidden},
		{"conflict", apperrors.Conflict("already decided"), http.StatusConflict},
		{"duplicate", apperrors.Duplicate("asset_tag", "x"), http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("approve: %w", apperrors.Conflict("already decided")), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, errors.New("pq: connection refused at 10.0.0.5"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestPageParams(t *testing.T) {
	newReq := func(query string) *http.Request {
		return httptest.NewRequest(http.MethodGet, "/api/assets?"+query, nil)
	}

	limit, offset := pageParams(newReq(""))
	assert.Equal(t, defaultPageSize, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageParams(newReq("limit=10&offset=30"))
	assert.Equal(t, 10, limit)
	assert.Equal(t, 30, offset)

	limit, _ = pageParams(newReq("limit=99999"))
	assert.Equal(t, maxPageSize, limit)

	limit, offset = pageParams(newReq("limit=-5&offset=-2"))
	assert.Equal(t, defaultPageSize, limit)
	assert.Equal(t, 0, offset)
}
