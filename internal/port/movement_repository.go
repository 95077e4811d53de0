package port

import (
	"context"
	"time"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

type MovementRepository interface {
	// Create appends one movement entry. The log is insert-only.
	Create(ctx context.Context, movement domain.StockMovement) error

	// FindByPeriod returns entries with moved_at in [start, end], most
	// recent first. An empty sellerID matches all sellers.
	FindByPeriod(ctx context.Context, start, end time.Time, sellerID string) ([]domain.StockMovement, error)
}
