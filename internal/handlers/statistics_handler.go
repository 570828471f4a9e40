package handlers

import (
	"net/http"

	"asset-backend/internal/services"
	"asset-backend/pkg/utils"
)

type StatisticsHandler struct {
	Service *services.StatisticsService
}

func NewStatisticsHandler(s *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{Service: s}
}

func (h *StatisticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Dashboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}
