package handlers

import (
	"encoding/json"
	"net/http"

	"asset-backend/internal/models"
	"asset-backend/internal/repositories"
	"asset-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type LocationHandler struct {
	Locations *repositories.LocationRepository
}

func NewLocationHandler(locations *repositories.LocationRepository) *LocationHandler {
	return &LocationHandler{Locations: locations}
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Locations.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, locations)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	location, err := h.Locations.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, location)
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	location := &models.Location{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Building:    req.Building,
		Floor:       req.Floor,
		Description: req.Description,
	}
	if err := h.Locations.Create(r.Context(), location); err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, location)
}
