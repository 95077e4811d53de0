package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
	"github.com/pc-estoque/stock-backend/internal/port"
)

// DefaultCacheTTL bounds how stale a cached read may be.
const DefaultCacheTTL = 300 * time.Second

// StockService coordinates the stock store, the cache and the movement log so
// that every mutation is consistent across the three. The store write and the
// movement append are separate units of work; there is no cross-store
// atomicity.
type StockService struct {
	stocks    port.StockRepository
	cache     port.CacheRepository
	movements port.MovementRepository
	cacheTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewStockService(stocks port.StockRepository, cache port.CacheRepository, movements port.MovementRepository, cacheTTL time.Duration, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &StockService{
		stocks:    stocks,
		cache:     cache,
		movements: movements,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func cacheKey(sellerID, sku string) string {
	return fmt.Sprintf("stock:%s:%s", sellerID, sku)
}

func notFound(sellerID, sku string) error {
	return fmt.Errorf("seller %s sku %s: %w", sellerID, sku, domain.ErrStockNotFound)
}

// Get reads through the cache. A hit may be stale by up to the TTL window;
// a miss falls back to the store and repopulates the cache.
func (s *StockService) Get(ctx context.Context, sellerID, sku string) (*domain.Stock, error) {
	key := cacheKey(sellerID, sku)

	var cached domain.Stock
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		// Cache trouble must not block reads; treat it as a miss.
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if err == nil && hit {
		return &cached, nil
	}

	stock, err := s.stocks.FindBySellerIDAndSKU(ctx, sellerID, sku)
	if err != nil {
		return nil, fmt.Errorf("find stock: %w", err)
	}
	if stock == nil {
		return nil, notFound(sellerID, sku)
	}

	if err := s.cache.SetJSON(ctx, key, stock, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}

	return stock, nil
}

// Create inserts a new stock row and logs a CREATION movement. The cache is
// not populated here; the next read does that lazily.
func (s *StockService) Create(ctx context.Context, stock domain.Stock) (*domain.Stock, error) {
	if stock.Quantity <= 0 {
		return nil, fmt.Errorf("quantity %d: %w", stock.Quantity, domain.ErrNonPositiveQuantity)
	}

	// Fast-path rejection only. Two concurrent creates can both pass this
	// check; the unique index on (seller_id, sku) is the final arbiter.
	existing, err := s.stocks.FindBySellerIDAndSKU(ctx, stock.SellerID, stock.SKU)
	if err != nil {
		return nil, fmt.Errorf("check existing stock: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("seller %s sku %s: %w", stock.SellerID, stock.SKU, domain.ErrStockAlreadyExists)
	}

	created, err := s.stocks.Create(ctx, stock)
	if err != nil {
		return nil, fmt.Errorf("create stock: %w", err)
	}

	s.recordMovement(ctx, domain.StockMovement{
		SellerID:         created.SellerID,
		SKU:              created.SKU,
		PreviousQuantity: 0,
		NewQuantity:      created.Quantity,
		MovementType:     domain.MovementCreation,
		MovedAt:          s.now(),
	})

	return created, nil
}

// Update replaces the quantity of an existing row, logs an UPDATE movement
// and invalidates the cache entry. The entry is not repopulated; the next
// read is a forced store hit.
func (s *StockService) Update(ctx context.Context, sellerID, sku string, quantity int) (*domain.Stock, error) {
	existing, err := s.stocks.FindBySellerIDAndSKU(ctx, sellerID, sku)
	if err != nil {
		return nil, fmt.Errorf("find stock: %w", err)
	}
	if existing == nil {
		return nil, notFound(sellerID, sku)
	}

	if quantity <= 0 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, domain.ErrNonPositiveQuantity)
	}

	updated, err := s.stocks.UpdateBySellerIDAndSKU(ctx, sellerID, sku, quantity)
	if err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	if updated == nil {
		// Row vanished between the lookup and the write.
		return nil, notFound(sellerID, sku)
	}

	s.recordMovement(ctx, domain.StockMovement{
		SellerID:         sellerID,
		SKU:              sku,
		PreviousQuantity: existing.Quantity,
		NewQuantity:      quantity,
		MovementType:     domain.MovementUpdate,
		MovedAt:          s.now(),
	})

	s.invalidate(ctx, cacheKey(sellerID, sku))

	return updated, nil
}

// Delete removes the row, logs a DELETION movement and invalidates the cache
// entry.
func (s *StockService) Delete(ctx context.Context, sellerID, sku string) error {
	existing, err := s.stocks.FindBySellerIDAndSKU(ctx, sellerID, sku)
	if err != nil {
		return fmt.Errorf("find stock: %w", err)
	}
	if existing == nil {
		return notFound(sellerID, sku)
	}

	deleted, err := s.stocks.DeleteBySellerIDAndSKU(ctx, sellerID, sku)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	if !deleted {
		return fmt.Errorf("seller %s sku %s: %w", sellerID, sku, domain.ErrNothingDeleted)
	}

	s.recordMovement(ctx, domain.StockMovement{
		SellerID:         sellerID,
		SKU:              sku,
		PreviousQuantity: existing.Quantity,
		NewQuantity:      0,
		MovementType:     domain.MovementDeletion,
		MovedAt:          s.now(),
	})

	s.invalidate(ctx, cacheKey(sellerID, sku))

	return nil
}

// List is a pass-through to the store; no caching on this path.
func (s *StockService) List(ctx context.Context, filter domain.StockFilter, limit, offset int) ([]domain.Stock, error) {
	return s.stocks.Find(ctx, filter, limit, offset)
}

// ListBelowThreshold returns every row at or below the threshold, across all
// sellers. Used by low-stock alerting.
func (s *StockService) ListBelowThreshold(ctx context.Context, threshold int) ([]domain.Stock, error) {
	return s.stocks.FindBelowThreshold(ctx, threshold)
}

// recordMovement appends to the audit log after the stock write has
// committed. A failed append is logged and tolerated; the committed mutation
// is never rolled back for it.
func (s *StockService) recordMovement(ctx context.Context, m domain.StockMovement) {
	if err := s.movements.Create(ctx, m); err != nil {
		s.logger.Error("stock movement append failed",
			zap.String("seller_id", m.SellerID),
			zap.String("sku", m.SKU),
			zap.String("movement_type", string(m.MovementType)),
			zap.Error(err))
	}
}

func (s *StockService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		// A stale survivor here breaks read-your-writes for this key until
		// the TTL expires.
		s.logger.Error("cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
