package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"asset-backend/internal/models"
	"asset-backend/internal/repositories"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders the inventory report as a PDF.
type ReportService struct {
	assets     *repositories.AssetRepository
	categories *repositories.CategoryRepository
}

func NewReportService(assets *repositories.AssetRepository, categories *repositories.CategoryRepository) *ReportService {
	return &ReportService{assets: assets, categories: categories}
}

const reportPageSize = 500

// InventoryPDF renders all live assets matching the filter into a PDF.
func (s *ReportService) InventoryPDF(ctx context.Context, f models.AssetFilter) ([]byte, error) {
	var all []*models.Asset
	for offset := 0; ; offset += reportPageSize {
		page, total, err := s.assets.List(ctx, f, reportPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			break
		}
	}

	categoryNames := map[string]string{}
	if cats, err := s.categories.List(ctx); err == nil {
		for _, c := range cats {
			categoryNames[c.ID] = c.Name
		}
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Asset Inventory Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s  |  %d assets", time.Now().Format("2006-01-02 15:04"), len(all)))
	pdf.Ln(10)

	widths := []float64{32, 70, 40, 24, 14, 35, 30, 25}
	headers := []string{"Tag", "Name", "Category", "Status", "Grade", "Serial", "Purchased", "Price"}

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	drawHeader()

	for _, a := range all {
		if pdf.GetY() > 180 {
			pdf.AddPage()
			drawHeader()
		}
		serial, purchased, price := "", "", ""
		if a.SerialNumber != nil {
			serial = *a.SerialNumber
		}
		if a.PurchaseDate != nil {
			purchased = a.PurchaseDate.Format("2006-01-02")
		}
		if a.PurchasePrice != nil {
			price = fmt.Sprintf("%.2f", *a.PurchasePrice)
		}
		cells := []string{
			a.AssetTag, a.Name, categoryNames[a.CategoryID],
			string(a.Status), string(a.Grade), serial, purchased, price,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render inventory pdf: %w", err)
	}
	return buf.Bytes(), nil
}
