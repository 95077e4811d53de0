package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pc-estoque/stock-backend/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSetAndGetJSON(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	key := "stock:test-seller:test-sku"
	defer client.Del(ctx, key)

	stock := domain.Stock{SellerID: "test-seller", SKU: "test-sku", Quantity: 42}
	if err := adapter.SetJSON(ctx, key, stock, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cached domain.Stock
	hit, err := adapter.GetJSON(ctx, key, &cached)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if cached.Quantity != 42 {
		t.Errorf("expected quantity 42, got %d", cached.Quantity)
	}
}

func TestGetJSON_Miss(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	adapter := NewRedisAdapter(client)

	var cached domain.Stock
	hit, err := adapter.GetJSON(context.Background(), "stock:no-such:key", &cached)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("expected a miss for an absent key")
	}
}

func TestSetJSON_TTLApplied(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	key := "stock:test-seller:ttl-sku"
	defer client.Del(ctx, key)

	if err := adapter.SetJSON(ctx, key, domain.Stock{Quantity: 1}, 300*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl <= 0 || ttl > 300*time.Second {
		t.Errorf("expected a TTL within (0, 300s], got %v", ttl)
	}
}

func TestDelete(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)
	key := "stock:test-seller:del-sku"

	if err := adapter.SetJSON(ctx, key, domain.Stock{Quantity: 1}, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := adapter.Delete(ctx, key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cached domain.Stock
	hit, err := adapter.GetJSON(ctx, key, &cached)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("expected the key to be gone after delete")
	}

	// Deleting an absent key is not an error.
	if err := adapter.Delete(ctx, key); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
