package handlers

import (
	"encoding/json"
	"net/http"

	"asset-backend/internal/middleware"
	"asset-backend/internal/models"
	"asset-backend/internal/services"
	"asset-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type AssetHandler struct {
	Service *services.AssetService
}

func NewAssetHandler(s *services.AssetService) *AssetHandler {
	return &AssetHandler{Service: s}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.AssetFilter{
		Status:         models.AssetStatus(q.Get("status")),
		Grade:          models.AssetGrade(q.Get("grade")),
		CategoryID:     q.Get("category_id"),
		LocationID:     q.Get("location_id"),
		AssignedTo:     q.Get("assigned_to"),
		Search:         q.Get("search"),
		IncludeDeleted: q.Get("include_deleted") == "true",
	}
	limit, offset := pageParams(r)

	assets, total, err := h.Service.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, pagedResponse{Items: assets, Total: total, Limit: limit, Offset: offset})
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	entries, total, err := h.Service.History(r.Context(), mux.Vars(r)["id"], limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, pagedResponse{Items: entries, Total: total, Limit: limit, Offset: offset})
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.Service.Create(r.Context(), userID, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.Service.Update(r.Context(), userID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Assign(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.AssignAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.Service.Assign(r.Context(), userID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.UnassignAssetRequest
	// Body is optional for unassign
	json.NewDecoder(r.Body).Decode(&req)

	asset, err := h.Service.Unassign(r.Context(), userID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.SoftDelete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusNoContent, nil)
}

func (h *AssetHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	asset, err := h.Service.Restore(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, asset)
}
