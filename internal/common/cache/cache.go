package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PhantomMist/TwitchDropsMiner/internal/platform/redis"
)

// Key for the raw inventory snapshot; campaign responses are cached per id.
const (
	SnapshotKey    = "inventory:snapshot"
	campaignPrefix = "campaign:"
)

type CacheService struct {
	redisClient *redis.Client
}

func NewCacheService(redisClient *redis.Client) *CacheService {
	return &CacheService{
		redisClient: redisClient,
	}
}

// Get reads a JSON value from the cache into dest.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

// Set stores a value in the cache as JSON.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redisClient.Set(ctx, key, string(data), ttl).Err()
}

// Delete removes a key from the cache.
func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, key).Err()
}

// DeletePattern removes every key matching the pattern.
func (c *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := c.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.redisClient.Del(ctx, keys...).Err()
	}

	return nil
}

// InvalidateInventoryCache drops the snapshot and per-campaign entries.
// Called after a successful claim or a forced refresh so that no reader
// observes pre-claim state.
func (c *CacheService) InvalidateInventoryCache(ctx context.Context) error {
	if err := c.Delete(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	if err := c.DeletePattern(ctx, campaignPrefix+"*"); err != nil {
		return fmt.Errorf("failed to delete campaign entries: %w", err)
	}

	return nil
}

// CampaignKey builds the cache key for a single campaign entry.
func CampaignKey(campaignID string) string {
	return campaignPrefix + campaignID
}
