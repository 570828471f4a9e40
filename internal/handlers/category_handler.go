package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"asset-backend/internal/models"
	"asset-backend/internal/repositories"
	"asset-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type CategoryHandler struct {
	Categories *repositories.CategoryRepository
}

func NewCategoryHandler(categories *repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.Categories.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Code == "" {
		utils.Error(w, http.StatusBadRequest, "name and code are required")
		return
	}

	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Code:        strings.ToUpper(req.Code),
		Description: req.Description,
	}
	if err := h.Categories.Create(r.Context(), category); err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, category)
}
