package texture

import (
	"context"
	"testing"
	"time"

	"github.com/toteworks/mockup-renderer/internal/config"
)

func TestRedisCache(t *testing.T) {
	// This test requires a running Redis instance
	// Skip if Redis is not available
	cfg := &config.RedisConfig{
		Addr:     "localhost:6379",
		Password: "",
		DB:       1, // Use a test database
	}

	cache := NewRedisCache(cfg, time.Minute)

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		if closeErr := cache.Close(); closeErr != nil {
			t.Errorf("Close failed: %v", closeErr)
		}
		t.Skipf("Redis not available: %v", err)
	}

	key := Key{Width: 8, Height: 8, Color: "#101010", Kind: KindFabric}

	t.Run("miss generates and stores", func(t *testing.T) {
		calls := 0
		data, err := cache.GetOrCreate(ctx, key, func() ([]byte, error) {
			calls++
			return []byte("woven"), nil
		})
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if string(data) != "woven" || calls != 1 {
			t.Fatalf("data = %q, calls = %d", data, calls)
		}
	})

	t.Run("hit skips the generator", func(t *testing.T) {
		data, err := cache.GetOrCreate(ctx, key, func() ([]byte, error) {
			t.Error("generator invoked on a hit")
			return nil, nil
		})
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if string(data) != "woven" {
			t.Fatalf("data = %q, want woven", data)
		}
	})

	t.Run("close releases the connection", func(t *testing.T) {
		if err := cache.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	})
}
