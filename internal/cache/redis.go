package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/analysis"
)

const defaultPrefix = "analysis:result:"

// RedisCache stores results as JSON under a key prefix with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. An empty prefix uses "analysis:result:".
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Get retrieves a cached result from Redis
func (r *RedisCache) Get(ctx context.Context, key string) (analysis.Result, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return analysis.Result{}, false, nil
	}
	if err != nil {
		return analysis.Result{}, false, fmt.Errorf("failed to get result from Redis: %w", err)
	}

	var res analysis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		// A payload from an older layout is dropped rather than served.
		_ = r.client.Del(ctx, r.prefix+key).Err()
		return analysis.Result{}, false, nil
	}
	return res, true, nil
}

// Set saves a result to Redis
func (r *RedisCache) Set(ctx context.Context, key string, result analysis.Result) error {
	if key == "" {
		return errInvalidKey
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result to Redis: %w", err)
	}
	return nil
}

// Delete removes a result from Redis
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete result from Redis: %w", err)
	}
	return nil
}
