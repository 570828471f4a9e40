package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"asset-backend/internal/middleware"
	"asset-backend/internal/models"
	"asset-backend/internal/services"
	"asset-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type WorkflowHandler struct {
	Service *services.WorkflowService
}

func NewWorkflowHandler(s *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{Service: s}
}

func (h *WorkflowHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wf, err := h.Service.Create(r.Context(), actor, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, wf)
}

// workflowFilterFromQuery reads the list filters from the query string.
func workflowFilterFromQuery(q url.Values) models.WorkflowFilter {
	return models.WorkflowFilter{
		RequesterID: q.Get("requester_id"),
		Type:        models.WorkflowType(q.Get("type")),
		Status:      models.WorkflowStatus(q.Get("status")),
		AssetID:     q.Get("asset_id"),
	}
}

func (h *WorkflowHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := workflowFilterFromQuery(r.URL.Query())
	limit, offset := pageParams(r)

	workflows, total, err := h.Service.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, pagedResponse{Items: workflows, Total: total, Limit: limit, Offset: offset})
}

// MyRequests lists only the caller's own workflows; the requester filter is
// pinned to the caller regardless of query parameters.
func (h *WorkflowHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	filter := workflowFilterFromQuery(r.URL.Query())
	limit, offset := pageParams(r)

	workflows, total, err := h.Service.MyRequests(r.Context(), userID, filter, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, pagedResponse{Items: workflows, Total: total, Limit: limit, Offset: offset})
}

func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	wf, err := h.Service.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, wf)
}

func (h *WorkflowHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.ApprovalRequest
	// Comment is optional; an empty body approves without one
	json.NewDecoder(r.Body).Decode(&req)

	wf, err := h.Service.Approve(r.Context(), actor, mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, wf)
}

func (h *WorkflowHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.RejectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	wf, err := h.Service.Reject(r.Context(), actor, mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, wf)
}

func (h *WorkflowHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	wf, err := h.Service.Cancel(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, wf)
}

// MarkViewed acknowledges a decision so it stops counting as unseen.
func (h *WorkflowHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	wf, err := h.Service.MarkViewed(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, wf)
}

func (h *WorkflowHandler) UnviewedCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	count, err := h.Service.UnviewedCount(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"count": count})
}
