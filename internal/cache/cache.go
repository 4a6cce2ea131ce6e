package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sander-remitly/coin-change/internal/algorithm"
	"github.com/sander-remitly/coin-change/internal/logger"
	"go.uber.org/zap"
)

const (
	// Cache TTL constants
	InitialTTL = 5 * time.Minute
	MaxTTL     = 24 * time.Hour

	// Cache key prefix
	CacheKeyPrefix = "coinchange:"

	// Stats keys
	StatsHitsKey   = "coinchange:stats:hits"
	StatsMissesKey = "coinchange:stats:misses"
)

// CachedResult represents a cached change calculation
type CachedResult struct {
	Amount            int           `json:"amount"`
	Denominations     []int         `json:"denominations"`
	MinCoins          int           `json:"min_coins"`
	Coins             []int         `json:"coins"`
	CoinCounts        map[int]int   `json:"coin_counts"`
	CalculationTimeMs int64         `json:"calculation_time_ms"`
	CachedAt          time.Time     `json:"cached_at"`
	HitCount          int           `json:"hit_count"`
	CurrentTTL        time.Duration `json:"current_ttl"`
}

// CacheStats represents cache statistics
type CacheStats struct {
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	TotalKeys  int64   `json:"total_keys"`
	MemoryUsed string  `json:"memory_used"`
	Uptime     string  `json:"uptime"`
}

// Cache handles Redis caching operations
type Cache struct {
	client  *redis.Client
	enabled bool
}

// NewCache creates a new cache instance from REDIS_* environment variables.
// Any connection failure leaves the cache disabled.
func NewCache(ctx context.Context) *Cache {
	if os.Getenv("REDIS_ENABLED") != "true" {
		logger.Log.Info("Redis cache is disabled")
		return &Cache{enabled: false}
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("Failed to connect to Redis. Cache disabled.",
			zap.String("address", redisAddr),
			zap.Error(err),
		)
		client.Close()
		return &Cache{enabled: false}
	}

	logger.Log.Info("Redis cache enabled", zap.String("address", redisAddr))
	return New(client)
}

// New wraps an existing client in an enabled cache.
func New(client *redis.Client) *Cache {
	return &Cache{client: client, enabled: true}
}

// IsEnabled returns whether caching is enabled
func (c *Cache) IsEnabled() bool {
	return c.enabled
}

// generateKey creates a cache key from the amount and denominations.
// Denomination order is part of the key: it decides which optimal coin set
// traceback reports.
func (c *Cache) generateKey(amount int, denoms []int) string {
	data := fmt.Sprintf("%d:%v", amount, denoms)

	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%s%x", CacheKeyPrefix, hash[:16])
}

// Get retrieves a cached result and doubles its TTL, up to MaxTTL
func (c *Cache) Get(ctx context.Context, amount int, denoms []int) (*CachedResult, bool) {
	if !c.enabled {
		return nil, false
	}

	key := c.generateKey(amount, denoms)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.incrementMisses(ctx)
		return nil, false
	} else if err != nil {
		logger.Log.Warn("Cache get error", zap.String("key", key), zap.Error(err))
		c.incrementMisses(ctx)
		return nil, false
	}

	var result CachedResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Log.Warn("Cache unmarshal error", zap.String("key", key), zap.Error(err))
		c.incrementMisses(ctx)
		return nil, false
	}

	result.HitCount++
	result.CurrentTTL = min(result.CurrentTTL*2, MaxTTL)

	if err := c.set(ctx, key, &result, result.CurrentTTL); err != nil {
		logger.Log.Warn("Failed to update cache TTL", zap.String("key", key), zap.Error(err))
	}

	c.incrementHits(ctx)
	return &result, true
}

// Set stores a calculation result in cache
func (c *Cache) Set(ctx context.Context, result algorithm.Result, calcTime time.Duration) error {
	if !c.enabled {
		return nil
	}

	key := c.generateKey(result.Amount, result.Denominations)

	cached := &CachedResult{
		Amount:            result.Amount,
		Denominations:     result.Denominations,
		MinCoins:          result.MinCoins,
		Coins:             result.Coins,
		CoinCounts:        result.CoinCounts,
		CalculationTimeMs: calcTime.Milliseconds(),
		CachedAt:          time.Now(),
		HitCount:          0,
		CurrentTTL:        InitialTTL,
	}

	return c.set(ctx, key, cached, InitialTTL)
}

func (c *Cache) set(ctx context.Context, key string, result *CachedResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// GetStats returns cache statistics
func (c *Cache) GetStats(ctx context.Context) (*CacheStats, error) {
	if !c.enabled {
		return &CacheStats{}, nil
	}

	hits, err := c.counter(ctx, StatsHitsKey)
	if err != nil {
		return nil, err
	}
	misses, err := c.counter(ctx, StatsMissesKey)
	if err != nil {
		return nil, err
	}

	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	keys, err := c.resultKeys(ctx)
	if err != nil {
		return nil, err
	}

	memoryUsed := "N/A"
	uptime := "N/A"
	if info, err := c.client.Info(ctx, "memory", "server").Result(); err == nil {
		if v := parseInfoField(info, "used_memory_human"); v != "" {
			memoryUsed = v
		}
		if secs, err := strconv.Atoi(parseInfoField(info, "uptime_in_seconds")); err == nil {
			uptime = (time.Duration(secs) * time.Second).String()
		}
	} else {
		logger.Log.Debug("Redis INFO unavailable", zap.Error(err))
	}

	return &CacheStats{
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
		TotalKeys:  int64(len(keys)),
		MemoryUsed: memoryUsed,
		Uptime:     uptime,
	}, nil
}

// Clear removes all cached results and resets the statistics
func (c *Cache) Clear(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	keys, err := c.client.Keys(ctx, CacheKeyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("failed to get cache keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	return nil
}

// Ping checks the Redis connection. A disabled cache reports no error.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c.enabled && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// resultKeys lists cached result keys, excluding the stats counters.
func (c *Cache) resultKeys(ctx context.Context) ([]string, error) {
	keys, err := c.client.Keys(ctx, CacheKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache keys: %w", err)
	}

	out := keys[:0]
	for _, k := range keys {
		if k != StatsHitsKey && k != StatsMissesKey {
			out = append(out, k)
		}
	}
	return out, nil
}

func (c *Cache) counter(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return n, nil
}

func (c *Cache) incrementHits(ctx context.Context) {
	if err := c.client.Incr(ctx, StatsHitsKey).Err(); err != nil {
		logger.Log.Debug("Failed to count cache hit", zap.Error(err))
	}
}

func (c *Cache) incrementMisses(ctx context.Context) {
	if err := c.client.Incr(ctx, StatsMissesKey).Err(); err != nil {
		logger.Log.Debug("Failed to count cache miss", zap.Error(err))
	}
}

// parseInfoField extracts a field value from Redis INFO output
func parseInfoField(info, field string) string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimRight(line, "\r")
		if v, ok := strings.CutPrefix(line, field+":"); ok {
			return v
		}
	}
	return ""
}
