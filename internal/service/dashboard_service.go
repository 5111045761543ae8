package service

import (
	"context"
	"time"

	"go-backoffice/internal/repository"
)

// LowStockThreshold is the stock level at or below which a product counts as low.
const LowStockThreshold = 10

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	GetSalesSummary(ctx context.Context, days int) (*repository.SalesSummary, error)
}

type dashboardService struct {
	movementRepo repository.StockMovementRepository
	now          func() time.Time
}

func NewDashboardService(mRepo repository.StockMovementRepository) DashboardService {
	return &dashboardService{movementRepo: mRepo, now: time.Now}
}

func (s *dashboardService) window(days int) (time.Time, time.Time) {
	if days < 1 {
		days = 7
	}
	endDate := s.now()
	return endDate.AddDate(0, 0, -days), endDate
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	startDate, endDate := s.window(days)
	return s.movementRepo.GetStockMovement(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.movementRepo.GetDashboardStats(ctx, LowStockThreshold)
}

func (s *dashboardService) GetSalesSummary(ctx context.Context, days int) (*repository.SalesSummary, error) {
	startDate, endDate := s.window(days)
	return s.movementRepo.GetSalesSummary(ctx, startDate, endDate)
}
