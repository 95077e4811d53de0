package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

// Mock StockRepository
type mockStockRepo struct {
	mu        sync.Mutex
	stocks    map[string]domain.Stock
	nextID    int64
	findErr   error
	findCalls int
	blindFind bool
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{stocks: make(map[string]domain.Stock)}
}

func repoKey(sellerID, sku string) string {
	return sellerID + "/" + sku
}

func (m *mockStockRepo) Create(ctx context.Context, stock domain.Stock) (*domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := repoKey(stock.SellerID, stock.SKU)
	if _, ok := m.stocks[k]; ok {
		return nil, domain.ErrStockAlreadyExists
	}

	m.nextID++
	stock.ID = m.nextID
	now := time.Now().UTC()
	stock.CreatedAt = now
	stock.UpdatedAt = now
	m.stocks[k] = stock
	return &stock, nil
}

func (m *mockStockRepo) FindBySellerIDAndSKU(ctx context.Context, sellerID, sku string) (*domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.blindFind {
		return nil, nil
	}

	stock, ok := m.stocks[repoKey(sellerID, sku)]
	if !ok {
		return nil, nil
	}
	return &stock, nil
}

func (m *mockStockRepo) UpdateBySellerIDAndSKU(ctx context.Context, sellerID, sku string, quantity int) (*domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := repoKey(sellerID, sku)
	stock, ok := m.stocks[k]
	if !ok {
		return nil, nil
	}

	stock.Quantity = quantity
	stock.UpdatedAt = time.Now().UTC()
	m.stocks[k] = stock
	return &stock, nil
}

func (m *mockStockRepo) DeleteBySellerIDAndSKU(ctx context.Context, sellerID, sku string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := repoKey(sellerID, sku)
	if _, ok := m.stocks[k]; !ok {
		return false, nil
	}
	delete(m.stocks, k)
	return true, nil
}

func (m *mockStockRepo) Find(ctx context.Context, filter domain.StockFilter, limit, offset int) ([]domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.Stock
	for _, stock := range m.stocks {
		if filter.SellerID != nil && stock.SellerID != *filter.SellerID {
			continue
		}
		if filter.SKU != nil && stock.SKU != *filter.SKU {
			continue
		}
		if filter.Quantity != nil && stock.Quantity != *filter.Quantity {
			continue
		}
		result = append(result, stock)
	}
	return result, nil
}

func (m *mockStockRepo) FindBelowThreshold(ctx context.Context, threshold int) ([]domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.Stock
	for _, stock := range m.stocks {
		if stock.Quantity <= threshold {
			result = append(result, stock)
		}
	}
	return result, nil
}

// Mock MovementRepository
type mockMovementRepo struct {
	mu        sync.Mutex
	movements []domain.StockMovement
	createErr error
}

func (m *mockMovementRepo) Create(ctx context.Context, movement domain.StockMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.movements = append(m.movements, movement)
	return nil
}

func (m *mockMovementRepo) FindByPeriod(ctx context.Context, start, end time.Time, sellerID string) ([]domain.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []domain.StockMovement
	for _, movement := range m.movements {
		if movement.MovedAt.Before(start) || movement.MovedAt.After(end) {
			continue
		}
		if sellerID != "" && movement.SellerID != sellerID {
			continue
		}
		result = append(result, movement)
	}
	return result, nil
}

func (m *mockMovementRepo) last() domain.StockMovement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.movements[len(m.movements)-1]
}

func (m *mockMovementRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.movements)
}

// Mock CacheRepository
type mockCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	getErr   error
	setErr   error
	delErr   error
	setCalls int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return false, m.getErr
	}

	payload, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, dest)
}

func (m *mockCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.delErr != nil {
		return m.delErr
	}
	delete(m.entries, key)
	return nil
}

func (m *mockCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func newTestService() (*StockService, *mockStockRepo, *mockCache, *mockMovementRepo) {
	stocks := newMockStockRepo()
	cache := newMockCache()
	movements := &mockMovementRepo{}
	svc := NewStockService(stocks, cache, movements, DefaultCacheTTL, nil)
	return svc, stocks, cache, movements
}

func TestGet_CacheHit(t *testing.T) {
	svc, stocks, cache, _ := newTestService()
	ctx := context.Background()

	cached := domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 42}
	require.NoError(t, cache.SetJSON(ctx, "stock:seller_a:sku_001", cached, time.Minute))
	cache.setCalls = 0

	stock, err := svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	assert.Equal(t, 42, stock.Quantity)
	assert.Equal(t, 0, stocks.findCalls, "cache hit must not touch the store")
}

func TestGet_CacheMissPopulates(t *testing.T) {
	svc, stocks, cache, _ := newTestService()
	ctx := context.Background()

	_, err := stocks.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 100})
	require.NoError(t, err)

	stock, err := svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	assert.Equal(t, 100, stock.Quantity)
	assert.True(t, cache.has("stock:seller_a:sku_001"), "store hit must populate the cache")
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Get(context.Background(), "seller_b", "sku_999")
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestGet_CacheErrorFallsThrough(t *testing.T) {
	svc, stocks, cache, _ := newTestService()
	ctx := context.Background()

	_, err := stocks.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 7})
	require.NoError(t, err)
	cache.getErr = errors.New("redis down")

	stock, err := svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	assert.Equal(t, 7, stock.Quantity)
	assert.Equal(t, 1, stocks.findCalls)
}

func TestCreate_Success(t *testing.T) {
	svc, _, cache, movements := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 100})
	require.NoError(t, err)
	assert.Equal(t, 100, created.Quantity)
	assert.NotZero(t, created.ID)

	require.Equal(t, 1, movements.count())
	movement := movements.last()
	assert.Equal(t, domain.MovementCreation, movement.MovementType)
	assert.Equal(t, 0, movement.PreviousQuantity)
	assert.Equal(t, 100, movement.NewQuantity)

	assert.Equal(t, 0, cache.setCalls, "create must not populate the cache")
}

func TestCreate_Duplicate(t *testing.T) {
	svc, _, _, movements := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 100})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 50})
	assert.ErrorIs(t, err, domain.ErrStockAlreadyExists)

	stock, err := svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	assert.Equal(t, 100, stock.Quantity, "existing record must not change")
	assert.Equal(t, 1, movements.count(), "failed create must not log a movement")
}

func TestCreate_RacingDuplicateSurfacesConflict(t *testing.T) {
	svc, stocks, _, _ := newTestService()
	ctx := context.Background()

	// The fast-path check sees nothing, but the insert still hits the
	// unique index: the store error must surface as the conflict error.
	_, err := stocks.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 1})
	require.NoError(t, err)
	stocks.blindFind = true

	_, err = svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrStockAlreadyExists)
}

func TestCreate_NonPositiveQuantity(t *testing.T) {
	svc, stocks, _, movements := newTestService()
	ctx := context.Background()

	for _, quantity := range []int{0, -5} {
		_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: quantity})
		assert.ErrorIs(t, err, domain.ErrNonPositiveQuantity)
	}

	assert.Empty(t, stocks.stocks)
	assert.Equal(t, 0, movements.count())
}

func TestUpdate_Success(t *testing.T) {
	svc, _, cache, movements := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 100})
	require.NoError(t, err)

	// Warm the cache, then confirm the update evicts it.
	_, err = svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	require.True(t, cache.has("stock:seller_a:sku_001"))

	updated, err := svc.Update(ctx, "seller_a", "sku_001", 150)
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Quantity)
	assert.False(t, cache.has("stock:seller_a:sku_001"), "update must invalidate the cache entry")

	require.Equal(t, 2, movements.count())
	movement := movements.last()
	assert.Equal(t, domain.MovementUpdate, movement.MovementType)
	assert.Equal(t, 100, movement.PreviousQuantity)
	assert.Equal(t, 150, movement.NewQuantity)

	// The forced store read after invalidation sees the new value.
	stock, err := svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	assert.Equal(t, 150, stock.Quantity)
}

func TestUpdate_NonPositiveQuantity(t *testing.T) {
	svc, _, _, movements := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 150})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "seller_a", "sku_001", 0)
	assert.ErrorIs(t, err, domain.ErrNonPositiveQuantity)

	stock, err := svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	assert.Equal(t, 150, stock.Quantity)
	assert.Equal(t, 1, movements.count(), "rejected update must not log a movement")
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Update(context.Background(), "seller_b", "sku_999", 10)
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestDelete_Success(t *testing.T) {
	svc, _, cache, movements := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 150})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "seller_a", "sku_001"))
	assert.False(t, cache.has("stock:seller_a:sku_001"), "delete must invalidate the cache entry")

	require.Equal(t, 2, movements.count())
	movement := movements.last()
	assert.Equal(t, domain.MovementDeletion, movement.MovementType)
	assert.Equal(t, 150, movement.PreviousQuantity)
	assert.Equal(t, 0, movement.NewQuantity)

	_, err = svc.Get(ctx, "seller_a", "sku_001")
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _, movements := newTestService()

	err := svc.Delete(context.Background(), "seller_b", "sku_999")
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
	assert.Equal(t, 0, movements.count())
}

func TestMovementAppendFailureDoesNotBlockMutation(t *testing.T) {
	svc, _, _, movements := newTestService()
	ctx := context.Background()
	movements.createErr = errors.New("history store down")

	created, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 10})
	require.NoError(t, err, "a lost movement entry must not fail the mutation")
	assert.Equal(t, 10, created.Quantity)

	stock, err := svc.Get(ctx, "seller_a", "sku_001")
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Quantity)
}

func TestCacheInvalidationFailureDoesNotBlockMutation(t *testing.T) {
	svc, _, cache, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 10})
	require.NoError(t, err)
	cache.delErr = errors.New("redis down")

	updated, err := svc.Update(ctx, "seller_a", "sku_001", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)
}

func TestList_PassThrough(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_002", Quantity: 10})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Stock{SellerID: "seller_b", SKU: "sku_001", Quantity: 3})
	require.NoError(t, err)

	sellerID := "seller_a"
	stocks, err := svc.List(ctx, domain.StockFilter{SellerID: &sellerID}, 50, 0)
	require.NoError(t, err)
	assert.Len(t, stocks, 2)
	for _, stock := range stocks {
		assert.Equal(t, "seller_a", stock.SellerID)
	}
}

func TestListBelowThreshold(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Stock{SellerID: "seller_a", SKU: "sku_001", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Stock{SellerID: "seller_b", SKU: "sku_002", Quantity: 50})
	require.NoError(t, err)

	low, err := svc.ListBelowThreshold(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "sku_001", low[0].SKU)
}
