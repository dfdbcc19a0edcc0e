// Package app opens the backing services described by the configuration.
package app

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/store"
)

// Runtime holds the opened connections and the recipe store built on them
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store store.RecipeStore
}

// Open connects to the database, migrates it and builds the recipe store.
// When Redis is configured but unreachable the store runs uncached.
func Open(cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, log, store.Models()...); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rt := &Runtime{DB: db, Store: store.NewGorm(db)}

	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg, log)
		if err != nil {
			log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			rt.Redis = client
			rt.Store = store.NewCached(rt.Store, client, cfg.CacheTTL, log)
		}
	}
	return rt, nil
}

// WriteLimiter shares limits through Redis when connected, otherwise keeps
// them per process. It is nil when rate limiting is switched off.
func (rt *Runtime) WriteLimiter(cfg *config.Config) middleware.Limiter {
	if cfg.RateLimitRequests <= 0 {
		return nil
	}
	limits := middleware.RateLimitConfig{
		Limit:  cfg.RateLimitRequests,
		Window: cfg.RateLimitWindow,
	}
	if rt.Redis != nil {
		return middleware.NewRedisLimiter(rt.Redis, limits)
	}
	return middleware.NewLocalLimiter(limits)
}

func (rt *Runtime) Close() error {
	var errs []error
	if rt.Redis != nil {
		errs = append(errs, rt.Redis.Close())
	}
	errs = append(errs, database.Close(rt.DB))
	return errors.Join(errs...)
}
