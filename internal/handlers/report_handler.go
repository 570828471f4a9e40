package handlers

import (
	"fmt"
	"net/http"
	"time"

	"asset-backend/internal/models"
	"asset-backend/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// InventoryPDF streams the inventory report as a PDF download.
func (h *ReportHandler) InventoryPDF(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.AssetFilter{
		Status:     models.AssetStatus(q.Get("status")),
		Grade:      models.AssetGrade(q.Get("grade")),
		CategoryID: q.Get("category_id"),
		LocationID: q.Get("location_id"),
	}

	data, err := h.Service.InventoryPDF(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	filename := fmt.Sprintf("inventory-%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
