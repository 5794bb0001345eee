package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const distanceKeyPrefix = "napo:distance:"

// RedisDistanceCache implements the DistanceCache interface
type RedisDistanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDistanceCache creates a Redis backed distance cache
func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) repository.DistanceCache {
	return &RedisDistanceCache{
		client: client,
		ttl:    ttl,
	}
}

func distanceKey(origin, destination uint) string {
	return fmt.Sprintf("%s%d:%d", distanceKeyPrefix, origin, destination)
}

// Get returns the cached entry of a pair; the bool reports a hit
func (c *RedisDistanceCache) Get(ctx context.Context, origin, destination uint) (*entity.DistanceEntry, bool, error) {
	raw, err := c.client.Get(ctx, distanceKey(origin, destination)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry entity.DistanceEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// drop undecodable values so the next read repopulates
		_ = c.client.Del(ctx, distanceKey(origin, destination)).Err()
		return nil, false, nil
	}
	return &entry, true, nil
}

// Set caches an entry for the configured TTL
func (c *RedisDistanceCache) Set(ctx context.Context, entry *entity.DistanceEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, distanceKey(entry.OriginNodeID, entry.DestinationNodeID), raw, c.ttl).Err()
}

// SetIfAbsent caches an entry only when the pair has no cached value yet
func (c *RedisDistanceCache) SetIfAbsent(ctx context.Context, entry *entity.DistanceEntry) (bool, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return c.client.SetNX(ctx, distanceKey(entry.OriginNodeID, entry.DestinationNodeID), raw, c.ttl).Result()
}

// Invalidate drops the cached entry of a pair
func (c *RedisDistanceCache) Invalidate(ctx context.Context, origin, destination uint) error {
	return c.client.Del(ctx, distanceKey(origin, destination)).Err()
}

// Ping checks the cache is reachable
func (c *RedisDistanceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
