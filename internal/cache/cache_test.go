package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sander-remitly/coin-change/internal/algorithm"
	"github.com/sander-remitly/coin-change/internal/logger"
)

func init() {
	// Initialize logger for tests
	logger.Initialize(false)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Cache) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return mr, New(client)
}

func solve(t *testing.T, amount int, denoms []int) algorithm.Result {
	t.Helper()
	res, err := algorithm.Calculate(amount, denoms, algorithm.Options{})
	if err != nil {
		t.Fatalf("Calculate(%d, %v) failed: %v", amount, denoms, err)
	}
	return res
}

func TestNewCache_Disabled(t *testing.T) {
	os.Setenv("REDIS_ENABLED", "false")
	defer os.Unsetenv("REDIS_ENABLED")

	cache := NewCache(context.Background())

	if cache.IsEnabled() {
		t.Error("Expected cache to be disabled")
	}
}

func TestNewCache_Enabled(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	os.Setenv("REDIS_ENABLED", "true")
	os.Setenv("REDIS_ADDR", mr.Addr())
	defer os.Unsetenv("REDIS_ENABLED")
	defer os.Unsetenv("REDIS_ADDR")

	cache := NewCache(context.Background())
	defer cache.Close()

	if !cache.IsEnabled() {
		t.Error("Expected cache to be enabled")
	}
}

func TestGenerateCacheKey(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()

	key1 := cache.generateKey(11, []int{1, 2, 5})
	key2 := cache.generateKey(11, []int{1, 2, 5})

	if key1 != key2 {
		t.Errorf("Expected same keys, got %s and %s", key1, key2)
	}

	if !strings.HasPrefix(key1, CacheKeyPrefix) {
		t.Errorf("Expected key to start with %s, got %s", CacheKeyPrefix, key1)
	}
}

func TestGenerateCacheKey_DifferentInputs(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()

	key1 := cache.generateKey(30, []int{1, 10, 25})
	key2 := cache.generateKey(31, []int{1, 10, 25})
	key3 := cache.generateKey(30, []int{1, 10, 25, 50})
	key4 := cache.generateKey(30, []int{1, 25, 10})

	if key1 == key2 {
		t.Error("Expected different keys for different amounts")
	}

	if key1 == key3 {
		t.Error("Expected different keys for different denominations")
	}

	if key1 == key4 {
		t.Error("Expected different keys for reordered denominations")
	}
}

func TestCache_SetAndGet(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	res := solve(t, 11, []int{1, 2, 5})
	if err := cache.Set(ctx, res, 5*time.Millisecond); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	cached, found := cache.Get(ctx, 11, []int{1, 2, 5})
	if !found {
		t.Fatal("Expected cache hit, got miss")
	}

	if cached.Amount != 11 {
		t.Errorf("Expected amount 11, got %d", cached.Amount)
	}

	if cached.MinCoins != 3 {
		t.Errorf("Expected 3 coins, got %d", cached.MinCoins)
	}

	if len(cached.Coins) != 3 || algorithm.Sum(cached.Coins) != 11 {
		t.Errorf("Unexpected cached coins %v", cached.Coins)
	}

	if cached.CoinCounts[5] != 2 {
		t.Errorf("Expected two 5s, got %v", cached.CoinCounts)
	}

	if cached.CalculationTimeMs != 5 {
		t.Errorf("Expected calculation time 5ms, got %d", cached.CalculationTimeMs)
	}

	if cached.HitCount != 1 {
		t.Errorf("Expected hit count 1, got %d", cached.HitCount)
	}
}

func TestCache_GetMiss(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()

	cached, found := cache.Get(context.Background(), 999, []int{1, 5})
	if found {
		t.Error("Expected cache miss, got hit")
	}

	if cached != nil {
		t.Error("Expected nil for cache miss")
	}
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()

	mr.Set(cache.generateKey(7, []int{1, 2}), "not json")

	if _, found := cache.Get(context.Background(), 7, []int{1, 2}); found {
		t.Error("Expected corrupt entry to be treated as a miss")
	}
}

func TestCache_AdaptiveTTL(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, solve(t, 7, []int{1, 2}), 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	cached1, found := cache.Get(ctx, 7, []int{1, 2})
	if !found {
		t.Fatal("Expected cache hit")
	}

	if cached1.CurrentTTL != InitialTTL*2 {
		t.Errorf("Expected TTL %v, got %v", InitialTTL*2, cached1.CurrentTTL)
	}

	if ttl := mr.TTL(cache.generateKey(7, []int{1, 2})); ttl != InitialTTL*2 {
		t.Errorf("Expected Redis TTL %v, got %v", InitialTTL*2, ttl)
	}

	cached2, found := cache.Get(ctx, 7, []int{1, 2})
	if !found {
		t.Fatal("Expected cache hit")
	}

	if cached2.HitCount != 2 {
		t.Errorf("Expected hit count 2, got %d", cached2.HitCount)
	}

	if cached2.CurrentTTL != InitialTTL*4 {
		t.Errorf("Expected TTL %v, got %v", InitialTTL*4, cached2.CurrentTTL)
	}
}

func TestCache_MaxTTL(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, solve(t, 7, []int{1, 2}), 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	for i := 0; i < 20; i++ {
		if _, found := cache.Get(ctx, 7, []int{1, 2}); !found {
			t.Fatal("Expected cache hit")
		}
	}

	cached, found := cache.Get(ctx, 7, []int{1, 2})
	if !found {
		t.Fatal("Expected cache hit")
	}

	if cached.CurrentTTL != MaxTTL {
		t.Errorf("Expected TTL %v, got %v", MaxTTL, cached.CurrentTTL)
	}
}

func TestCache_Expiry(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, solve(t, 7, []int{1, 2}), 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	mr.FastForward(InitialTTL + time.Second)

	if _, found := cache.Get(ctx, 7, []int{1, 2}); found {
		t.Error("Expected entry to expire after InitialTTL")
	}
}

func TestCache_Clear(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := cache.Set(ctx, solve(t, i*10, []int{1, 5}), 0); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	for i := 1; i <= 5; i++ {
		if cached, found := cache.Get(ctx, i*10, []int{1, 5}); found || cached != nil {
			t.Errorf("Expected cache to be cleared for amount %d", i*10)
		}
	}
}

func TestCache_Stats(t *testing.T) {
	mr, cache := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	cache.Set(ctx, solve(t, 11, []int{1, 2, 5}), 0)
	cache.Get(ctx, 11, []int{1, 2, 5}) // Hit
	cache.Get(ctx, 11, []int{1, 2, 5}) // Hit
	cache.Get(ctx, 12, []int{1, 2, 5}) // Miss

	stats, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}

	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}

	if stats.TotalKeys != 1 {
		t.Errorf("Expected 1 cached result, got %d", stats.TotalKeys)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := &Cache{enabled: false}
	ctx := context.Background()

	if err := cache.Set(ctx, solve(t, 11, []int{1, 2, 5}), 0); err != nil {
		t.Errorf("Expected no error for disabled cache, got: %v", err)
	}

	cached, found := cache.Get(ctx, 11, []int{1, 2, 5})
	if found || cached != nil {
		t.Error("Expected cache miss for disabled cache")
	}

	if err := cache.Clear(ctx); err != nil {
		t.Errorf("Expected no error for disabled cache, got: %v", err)
	}

	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Expected no error for disabled cache, got: %v", err)
	}

	stats, err := cache.GetStats(ctx)
	if err != nil || stats.Hits != 0 {
		t.Errorf("Expected empty stats, got %+v, %v", stats, err)
	}
}

func TestParseInfoField(t *testing.T) {
	info := "# Memory\r\nused_memory:1024\r\nused_memory_human:1.00K\r\n# Server\r\nuptime_in_seconds:42\r\n"

	if got := parseInfoField(info, "used_memory_human"); got != "1.00K" {
		t.Errorf("Expected 1.00K, got %q", got)
	}

	if got := parseInfoField(info, "uptime_in_seconds"); got != "42" {
		t.Errorf("Expected 42, got %q", got)
	}

	if got := parseInfoField(info, "missing"); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}
