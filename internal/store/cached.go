package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/filter"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/pagination"
)

const cacheKeyPrefix = "recipebox:recipe:"

// Cached keeps FindByID results in Redis in front of another store. Redis
// errors are logged and the wrapped store answers instead.
type Cached struct {
	next   RecipeStore
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

// NewCached wraps next with a Redis read-through cache.
func NewCached(next RecipeStore, client redis.Cmdable, ttl time.Duration, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{next: next, client: client, ttl: ttl, log: log}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func (c *Cached) Save(ctx context.Context, r *model.Recipe) (*model.Recipe, error) {
	saved, err := c.next.Save(ctx, r)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, saved.ID)
	return saved, nil
}

func (c *Cached) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var rec model.Recipe
		if err := json.Unmarshal(data, &rec); err == nil {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return &rec, nil
		}
		c.log.Warn("discarding unreadable cache entry", zap.String("recipe_id", id))
		c.invalidate(ctx, id)
	case errors.Is(err, redis.Nil):
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	default:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		c.log.Warn("recipe cache read failed", zap.String("recipe_id", id), zap.Error(err))
	}

	rec, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rec); err == nil {
		if err := c.client.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
			c.log.Warn("recipe cache write failed", zap.String("recipe_id", id), zap.Error(err))
		}
	}
	return rec, nil
}

func (c *Cached) DeleteByID(ctx context.Context, id string) (bool, error) {
	deleted, err := c.next.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}
	c.invalidate(ctx, id)
	return deleted, nil
}

func (c *Cached) Scan(ctx context.Context) ([]model.Recipe, error) {
	return c.next.Scan(ctx)
}

// Query is not cached; it delegates to the wrapped store's strategy.
func (c *Cached) Query(ctx context.Context, crit filter.Criteria, req pagination.Request) (pagination.Page[model.Recipe], error) {
	return QueryRecipes(ctx, c.next, crit, req)
}

func (c *Cached) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.log.Warn("recipe cache invalidation failed", zap.String("recipe_id", id), zap.Error(err))
	}
}
