package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "settlements"

// RedisStore caches settlement results in Redis with a bounded TTL.
type RedisStore struct {
	redis redis.Cmdable
	ttl   time.Duration
}

// NewRedisStore wraps a Redis client as a cache Store.
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.redis.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("redis settlement cache lookup failed", zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key string, payload []byte) {
	if err := s.redis.Set(ctx, redisKey(key), payload, s.ttl).Err(); err != nil {
		zap.L().Warn("redis settlement cache set failed", zap.Error(err))
	}
}

func (s *RedisStore) DeletePattern(ctx context.Context, pattern string) {
	iter := s.redis.Scan(ctx, 0, redisKey(pattern), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		zap.L().Warn("redis settlement cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("redis settlement cache delete failed", zap.Error(err))
	}
}

func redisKey(key string) string {
	return redisKeyPrefix + ":" + key
}
