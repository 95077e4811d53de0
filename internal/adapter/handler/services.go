package handler

import (
	"context"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// StockService is the slice of the core the HTTP layer needs.
type StockService interface {
	Get(ctx context.Context, sellerID, sku string) (*domain.Stock, error)
	Create(ctx context.Context, stock domain.Stock) (*domain.Stock, error)
	Update(ctx context.Context, sellerID, sku string, quantity int) (*domain.Stock, error)
	Delete(ctx context.Context, sellerID, sku string) error
	List(ctx context.Context, filter domain.StockFilter, limit, offset int) ([]domain.Stock, error)
}

// MovementService exposes the movement-log reporting windows.
type MovementService interface {
	WeeklyReport(ctx context.Context, sellerID string) ([]domain.StockMovement, error)
	DailyReport(ctx context.Context, sellerID string) ([]domain.StockMovement, error)
}
