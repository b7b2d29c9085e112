// internal/store/cache.go
package store

import (
	"context"
	"encoding/json"
	"time"

	"talent-engine/internal/common/logger"
	"talent-engine/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const profileCacheKeyPrefix = "candidate:profile:"

// CachedStore wraps a Store with a redis read-through cache for full
// profiles. Query results are never cached; the prefilter must always see the
// live population. Cache write failures are logged, never surfaced.
type CachedStore struct {
	inner  Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "profile-cache"}),
	}
}

func (c *CachedStore) GetCandidate(ctx context.Context, id string) (*Profile, error) {
	if p := c.cached(ctx, id); p != nil {
		return p, nil
	}

	profile, err := c.inner.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, profile)
	return profile, nil
}

func (c *CachedStore) QueryCandidates(ctx context.Context, filter Filter) ([]string, error) {
	return c.inner.QueryCandidates(ctx, filter)
}

func (c *CachedStore) BatchLoad(ctx context.Context, ids []string) (map[string]*Profile, error) {
	profiles := make(map[string]*Profile, len(ids))
	var missing []string
	for _, id := range ids {
		if p := c.cached(ctx, id); p != nil {
			profiles[id] = p
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		loaded, err := c.inner.BatchLoad(ctx, missing)
		if err != nil {
			return nil, err
		}
		for id, p := range loaded {
			profiles[id] = p
			c.put(ctx, p)
		}
	}

	return profiles, nil
}

func (c *CachedStore) cached(ctx context.Context, id string) *Profile {
	val, err := c.redis.Get(ctx, profileCacheKeyPrefix+id).Result()
	if err != nil {
		metrics.ProfileCacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	var p Profile
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		metrics.ProfileCacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.ProfileCacheHits.WithLabelValues("hit").Inc()
	return &p
}

func (c *CachedStore) put(ctx context.Context, p *Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, profileCacheKeyPrefix+p.Candidate.ID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache write failed", map[string]interface{}{
			"candidateId": p.Candidate.ID,
			"error":       err,
		})
	}
}
