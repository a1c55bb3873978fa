package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RecommendationCache invalidates per-user recommendation sets held in Redis.
// The core never reads or writes cache payloads; a recommendation engine
// elsewhere repopulates the key on the next request.
type RecommendationCache struct {
	client *redis.Client
}

func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{client: client}
}

func recommendationKey(userID int64) string {
	return fmt.Sprintf("recommendations:user:%d", userID)
}

// Invalidate drops the user's cached recommendation set. Deleting a missing
// key is a no-op, so repeat invalidation is harmless.
func (c *RecommendationCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, recommendationKey(userID)).Err()
}
