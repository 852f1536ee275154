package application

import (
	"context"
	"time"

	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
)

// DashboardStats is the aggregate view behind the landing page.
type DashboardStats struct {
	RequestsByStage   map[string]int64 `json:"requestsByStage"`
	RequestsByType    map[string]int64 `json:"requestsByType"`
	OpenByTeam        map[string]int64 `json:"openByTeam"`
	EquipmentByStatus map[string]int64 `json:"equipmentByStatus"`
	OverdueCount      int64            `json:"overdueCount"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

// DashboardService computes live counts from the request and equipment
// collections.
type DashboardService struct {
	Requests  repo.RequestRepository
	Equipment repo.EquipmentRepository
}

func NewDashboardService(requests repo.RequestRepository, equipment repo.EquipmentRepository) *DashboardService {
	return &DashboardService{Requests: requests, Equipment: equipment}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	byStage, err := s.Requests.CountByStage(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.Requests.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	byTeam, err := s.Requests.CountOpenByTeam(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.Equipment.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	overdue, err := s.Requests.CountOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		RequestsByStage:   bucketMap(byStage),
		RequestsByType:    bucketMap(byType),
		OpenByTeam:        bucketMap(byTeam),
		EquipmentByStatus: bucketMap(byStatus),
		OverdueCount:      overdue,
		GeneratedAt:       now,
	}, nil
}

func bucketMap(buckets []repo.BucketCount) map[string]int64 {
	m := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		key := b.Key
		if key == "" {
			key = "unassigned"
		}
		m[key] = b.Count
	}
	return m
}
