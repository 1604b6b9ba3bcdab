package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pricetracker-service/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	DealsCachePrefix = "deals:v:"
	CacheVersionKey  = "deals:version"
	DefaultCacheTTL  = 5 * time.Minute
)

// CacheManager caches ranked deal lists in Redis. Invalidation bumps a
// version counter baked into every key, so stale entries simply expire.
// A nil Redis client disables caching entirely.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redis *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redis,
		ttl:   DefaultCacheTTL,
	}
}

// GetDeals retrieves a cached deal list for a selector.
func (cm *CacheManager) GetDeals(ctx context.Context, selector string) ([]models.ProductCard, bool) {
	if cm.redis == nil {
		return nil, false
	}

	version, err := cm.getCacheVersion(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	cacheKey := cm.dealsCacheKey(version, selector)
	cachedData, err := cm.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		return nil, false
	}

	var cards []models.ProductCard
	if err := json.Unmarshal([]byte(cachedData), &cards); err != nil {
		zap.L().Warn("Failed to unmarshal cached deals", zap.Error(err))
		return nil, false
	}

	return cards, true
}

// SetDealsAsync caches a ranked deal list asynchronously.
func (cm *CacheManager) SetDealsAsync(selector string, cards []models.ProductCard) {
	if cm.redis == nil {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getCacheVersion(bgCtx)
		if err != nil || version == 0 {
			return
		}

		cacheKey := cm.dealsCacheKey(version, selector)
		jsonBytes, err := json.Marshal(cards)
		if err != nil {
			zap.L().Warn("Failed to marshal deals for cache", zap.Error(err))
			return
		}

		if err := cm.redis.Set(bgCtx, cacheKey, jsonBytes, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache deals", zap.Error(err))
		}
	}()
}

// Invalidate invalidates all cached deal lists by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	if cm.redis == nil {
		return nil
	}

	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate deals cache: %w", err)
	}

	zap.L().Info("Deals cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	version, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == redis.Nil {
		// First use: initialize the version counter.
		if err := cm.redis.Set(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (cm *CacheManager) dealsCacheKey(version int64, selector string) string {
	return fmt.Sprintf("%s%d:%s", DealsCachePrefix, version, selector)
}
