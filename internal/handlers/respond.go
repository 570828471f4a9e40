package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"asset-backend/internal/apperrors"
	"asset-backend/pkg/utils"
)

// respondError maps the service error taxonomy to HTTP status codes.
// Anything outside the taxonomy is a 500 and the detail stays in the log.
func respondError(w http.ResponseWriter, err error) {
	var validation *apperrors.ValidationError
	var notFound *apperrors.NotFoundError
	var forbidden *apperrors.AuthorizationError
	var conflict *apperrors.ConflictError
	var duplicate *apperrors.DuplicateError

	switch {
	case errors.As(err, &validation):
		utils.Error(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		utils.Error(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &forbidden):
		utils.Error(w, http.StatusForbidden, forbidden.Error())
	case errors.As(err, &conflict):
		utils.Error(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &duplicate):
		utils.Error(w, http.StatusConflict, duplicate.Error())
	default:
		log.Printf("[Handlers] Internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// pageParams reads limit/offset query parameters with sane bounds.
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// pagedResponse is the envelope for list endpoints.
type pagedResponse struct {
	Items  any `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
