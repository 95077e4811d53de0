package service

import (
	"context"
	"time"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
	"github.com/pc-estoque/stock-backend/internal/port"
)

// MovementService is the read side of the movement log: fixed reporting
// windows, no transformation beyond windowing.
type MovementService struct {
	movements port.MovementRepository
	now       func() time.Time
}

func NewMovementService(movements port.MovementRepository) *MovementService {
	return &MovementService{
		movements: movements,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WeeklyReport returns movements of the last 7 days, most recent first.
func (s *MovementService) WeeklyReport(ctx context.Context, sellerID string) ([]domain.StockMovement, error) {
	end := s.now()
	start := end.AddDate(0, 0, -7)
	return s.movements.FindByPeriod(ctx, start, end, sellerID)
}

// DailyReport returns movements since midnight (UTC), most recent first.
func (s *MovementService) DailyReport(ctx context.Context, sellerID string) ([]domain.StockMovement, error) {
	end := s.now()
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	return s.movements.FindByPeriod(ctx, start, end, sellerID)
}
