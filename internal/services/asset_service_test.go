package services

import (
	"testing"
	"time"

	"asset-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateGrade(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	daysAgo := func(d int) *time.Time {
		ts := now.AddDate(0, 0, -d)
		return &ts
	}

	tests := []struct {
		name     string
		purchase *time.Time
		want     models.AssetGrade
	}{
		{"no purchase date", nil, models.GradeA},
		{"brand new", daysAgo(0), models.GradeA},
		{"one year old", daysAgo(365), models.GradeA},
		{"just under two years", daysAgo(730), models.GradeA},
		{"just over two years", daysAgo(731), models.GradeB},
		{"three years old", daysAgo(1096), models.GradeB},
		{"just under four years", daysAgo(1460), models.GradeB},
		{"four years old", daysAgo(1461), models.GradeC},
		{"ten years old", daysAgo(3653), models.GradeC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateGrade(tt.purchase, now))
		})
	}
}

func TestCategoryTagCode(t *testing.T) {
	tests := []struct {
		name     string
		category models.Category
		want     string
	}{
		{"desktop override", models.Category{Name: "Desktop", Code: "DT"}, "11"},
		{"notebook override", models.Category{Name: "NOTEBOOK", Code: "NB"}, "12"},
		{"laptop shares notebook code", models.Category{Name: "laptop", Code: "LT"}, "12"},
		{"monitor override", models.Category{Name: "Monitor", Code: "MON"}, "14"},
		{"unlisted category keeps its code", models.Category{Name: "Printer", Code: "PR"}, "PR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, categoryTagCode(&tt.category))
		})
	}
}

func TestTagYear(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("purchase year wins when known", func(t *testing.T) {
		purchased := time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 2023, tagYear(&purchased, now))
	})

	t.Run("defaults to the current year", func(t *testing.T) {
		assert.Equal(t, 2026, tagYear(nil, now))
	})
}

func TestFormatAssetTag(t *testing.T) {
	assert.Equal(t, "12-2026-0001", formatAssetTag("12", 2026, 1))
	assert.Equal(t, "12-2026-0041", formatAssetTag("12", 2026, 41))
	assert.Equal(t, "PR-2025-1234", formatAssetTag("PR", 2025, 1234))
	// Sequence numbers past four digits widen instead of wrapping
	assert.Equal(t, "11-2026-12345", formatAssetTag("11", 2026, 12345))
}
