package port

import (
	"context"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

type StockRepository interface {
	// Create inserts a new stock row. Returns domain.ErrStockAlreadyExists
	// when the (seller_id, sku) unique index rejects the insert.
	Create(ctx context.Context, stock domain.Stock) (*domain.Stock, error)

	// FindBySellerIDAndSKU is a point lookup; absence is (nil, nil).
	FindBySellerIDAndSKU(ctx context.Context, sellerID, sku string) (*domain.Stock, error)

	// UpdateBySellerIDAndSKU overwrites the quantity of an existing row and
	// stamps updated_at. Returns (nil, nil) when no row matched.
	UpdateBySellerIDAndSKU(ctx context.Context, sellerID, sku string, quantity int) (*domain.Stock, error)

	// DeleteBySellerIDAndSKU removes the row, reporting whether any row was
	// affected.
	DeleteBySellerIDAndSKU(ctx context.Context, sellerID, sku string) (bool, error)

	// Find returns rows matching the equality filter, paginated by
	// limit/offset. No ordering is guaranteed.
	Find(ctx context.Context, filter domain.StockFilter, limit, offset int) ([]domain.Stock, error)

	// FindBelowThreshold returns every row with quantity <= threshold,
	// across all sellers.
	FindBelowThreshold(ctx context.Context, threshold int) ([]domain.Stock, error)
}
