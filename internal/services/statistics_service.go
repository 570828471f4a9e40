package services

import (
	"context"
	"encoding/json"
	"fmt"

	"asset-backend/internal/cache"
	"asset-backend/internal/models"
	"asset-backend/internal/repositories"
)

// DashboardStats is the aggregate snapshot behind the dashboard endpoint.
type DashboardStats struct {
	TotalAssets      int                           `json:"total_assets"`
	AssetsByStatus   map[models.AssetStatus]int    `json:"assets_by_status"`
	AssetsByGrade    map[models.AssetGrade]int     `json:"assets_by_grade"`
	AssetsByCategory map[string]int                `json:"assets_by_category"`
	WorkflowsByState map[models.WorkflowStatus]int `json:"workflows_by_status"`
	PendingWorkflows int                           `json:"pending_workflows"`
	RecentActivity   []*models.AssetHistory        `json:"recent_activity"`
}

type StatisticsService struct {
	assets    *repositories.AssetRepository
	workflows *repositories.WorkflowRepository
	history   *repositories.AssetHistoryRepository
}

func NewStatisticsService(
	assets *repositories.AssetRepository,
	workflows *repositories.WorkflowRepository,
	history *repositories.AssetHistoryRepository,
) *StatisticsService {
	return &StatisticsService{assets: assets, workflows: workflows, history: history}
}

// Dashboard computes the aggregate snapshot. Results are cached for a few
// minutes; every mutation path invalidates the cache, so staleness is
// bounded by the TTL only when Redis missed an invalidation.
func (s *StatisticsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if data, ok := cache.GetCachedDashboardStats(ctx); ok {
		var stats DashboardStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	byStatus, err := s.assets.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	byGrade, err := s.assets.CountByGrade(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	byCategory, err := s.assets.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	wfByStatus, err := s.workflows.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	recent, err := s.history.Recent(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	stats := &DashboardStats{
		TotalAssets:      total,
		AssetsByStatus:   byStatus,
		AssetsByGrade:    byGrade,
		AssetsByCategory: byCategory,
		WorkflowsByState: wfByStatus,
		PendingWorkflows: wfByStatus[models.WorkflowPending],
		RecentActivity:   recent,
	}

	if data, err := json.Marshal(stats); err == nil {
		cache.CacheDashboardStats(ctx, data)
	}
	return stats, nil
}
