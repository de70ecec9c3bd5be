package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"creator-campaign-workers/internal/common/logger"
	"creator-campaign-workers/internal/eligibility"
)

const cacheKeyPrefix = "campaign:requirement:"

// CachedSource fronts another Source with a Redis cache. Cache failures are
// logged and never fail a lookup.
type CachedSource struct {
	next   Source
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(next Source, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{next: next, redis: rdb, ttl: ttl, logger: log}
}

func CacheKey(campaignID string) string {
	return cacheKeyPrefix + campaignID
}

func (c *CachedSource) Requirement(ctx context.Context, campaignID string) (eligibility.CampaignRequirement, error) {
	key := CacheKey(campaignID)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var req eligibility.CampaignRequirement
		if jsonErr := json.Unmarshal(raw, &req); jsonErr == nil {
			return req, nil
		}
		c.logger.Warn("discarding corrupt cached requirement", map[string]interface{}{"campaignId": campaignID})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("requirement cache read failed", map[string]interface{}{
			"campaignId": campaignID,
			"error":      err.Error(),
		})
	}

	req, err := c.next.Requirement(ctx, campaignID)
	if err != nil {
		return req, err
	}

	if data, err := json.Marshal(req); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("requirement cache write failed", map[string]interface{}{
				"campaignId": campaignID,
				"error":      err.Error(),
			})
		}
	}
	return req, nil
}

// Invalidate drops a campaign's cached requirement.
func (c *CachedSource) Invalidate(ctx context.Context, campaignID string) error {
	return c.redis.Del(ctx, CacheKey(campaignID)).Err()
}
