package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PlanCache caches settings and plan reads per (user, course, purpose)
// with an explicit invalidation hook, so the materializer can drop
// stale entries deterministically after every regeneration instead of
// waiting out a TTL.
type PlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlanCache(client *redis.Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PlanCache{client: client, ttl: ttl}
}

func key(userID, courseID, purpose string) string {
	return fmt.Sprintf("studyplan:%s:%s:%s", userID, courseID, purpose)
}

// Get unmarshals the cached value into dest. A miss or an unreachable
// cache returns false, never an error the caller has to handle: the
// cache is an optimization, not a source of truth.
func (c *PlanCache) Get(ctx context.Context, userID, courseID, purpose string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key(userID, courseID, purpose)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores the value under the configured TTL. Errors are swallowed
// for the same reason Get's are.
func (c *PlanCache) Set(ctx context.Context, userID, courseID, purpose string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(userID, courseID, purpose), raw, c.ttl)
}

// Invalidate drops every cached purpose for the (user, course) pair.
// Fired by the plan materializer after each successful regeneration.
func (c *PlanCache) Invalidate(ctx context.Context, userID, courseID string) {
	if c == nil || c.client == nil {
		return
	}
	pattern := fmt.Sprintf("studyplan:%s:%s:*", userID, courseID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
