package handlers

import (
	"encoding/json"
	"net/http"

	"asset-backend/internal/middleware"
	"asset-backend/internal/models"
	"asset-backend/internal/repositories"
	"asset-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	Users *repositories.UserRepository
}

func NewUserHandler(users *repositories.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := h.Users.Get(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	users, total, err := h.Users.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, pagedResponse{Items: users, Total: total, Limit: limit, Offset: offset})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// Update applies an admin-side partial update (role, department, active flag).
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RoleAdmin, models.RoleManager, models.RoleEmployee:
			user.Role = *req.Role
		default:
			utils.Error(w, http.StatusBadRequest, "Unknown role")
			return
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.Users.Update(r.Context(), user); err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
