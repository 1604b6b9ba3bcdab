package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewRedisClient initializes a Redis client for the deal-list cache. The cache
// is optional: when addr is empty or the ping fails the caller gets nil and the
// service runs uncached.
func NewRedisClient(logger *zap.Logger, addr, password string, db int) *redis.Client {
	if addr == "" {
		logger.Info("Redis not configured, deal cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed, deal cache disabled", zap.Error(err))
		return nil
	}

	logger.Info("Connected to Redis", zap.String("addr", addr))
	return client
}
