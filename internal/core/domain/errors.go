package domain

import "errors"

var (
	// ErrStockNotFound means no live row exists for the (seller_id, sku) pair.
	ErrStockNotFound = errors.New("stock not found")

	// ErrStockAlreadyExists means a live row already exists for the pair.
	// The unique index on (seller_id, sku) is the final arbiter; the service
	// level existence check is only a fast path.
	ErrStockAlreadyExists = errors.New("stock already registered for this sku")

	// ErrNonPositiveQuantity rejects create/update with quantity <= 0.
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")

	// ErrNothingDeleted means the delete statement matched no rows even
	// though the preceding lookup found one.
	ErrNothingDeleted = errors.New("stock delete affected no rows")
)
