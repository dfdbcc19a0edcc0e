package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pageza/recipebox/backend/internal/logger"
	"github.com/pageza/recipebox/backend/internal/metrics"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Limiter decides whether the client identified by key may make another request.
type Limiter interface {
	// Allow returns: allowed, remaining requests, reset time, error
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	Config() RateLimitConfig
}

// RateLimit returns a Gin middleware that limits requests per client IP.
// Limiter errors let the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	cfg := l.Config()
	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("rate limit check failed", zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			metrics.RateLimited.Inc()
			retryAfter := max(int(time.Until(resetTime).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.Failed(
				fmt.Sprintf("Rate limit of %d requests per %v exceeded", cfg.Limit, cfg.Window),
			))
			return
		}

		c.Next()
	}
}

// RedisLimiter is a fixed window limiter shared by every instance through Redis
type RedisLimiter struct {
	redis  redis.Cmdable
	config RateLimitConfig
	now    func() time.Time
}

// NewRedisLimiter creates a new rate limiter instance
func NewRedisLimiter(client redis.Cmdable, config RateLimitConfig) *RedisLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:recipe_writes"
	}
	return &RedisLimiter{redis: client, config: config, now: time.Now}
}

func (rl *RedisLimiter) Config() RateLimitConfig {
	return rl.config
}

// Allow counts a request from key in the current window
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// INCR and EXPIRE go out in one round trip
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := max(rl.config.Limit-count, 0)
	resetTime := windowStart.Add(rl.config.Window)
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// LocalLimiter keeps a token bucket per client in process memory. It is used
// when no Redis server is configured. A bucket left idle for a whole window
// has refilled completely, so it is dropped and recreated on the next request.
type LocalLimiter struct {
	config    RateLimitConfig
	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter refills Limit tokens evenly over Window, with a burst of Limit
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		config:  config,
		buckets: make(map[string]*localBucket),
		now:     time.Now,
	}
}

func (ll *LocalLimiter) Config() RateLimitConfig {
	return ll.config
}

func (ll *LocalLimiter) bucket(key string, now time.Time) *rate.Limiter {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if now.Sub(ll.lastSweep) >= ll.config.Window {
		ll.sweep(now)
	}

	b, ok := ll.buckets[key]
	if !ok {
		every := ll.config.Window / time.Duration(max(ll.config.Limit, 1))
		b = &localBucket{limiter: rate.NewLimiter(rate.Every(every), ll.config.Limit)}
		ll.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// sweep removes buckets idle for at least one window. Callers hold ll.mu.
func (ll *LocalLimiter) sweep(now time.Time) {
	for key, b := range ll.buckets {
		if now.Sub(b.lastSeen) >= ll.config.Window {
			delete(ll.buckets, key)
		}
	}
	ll.lastSweep = now
}

// size is the number of tracked clients
func (ll *LocalLimiter) size() int {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	return len(ll.buckets)
}

func (ll *LocalLimiter) Allow(_ context.Context, key string) (bool, int, time.Time, error) {
	now := ll.now()
	b := ll.bucket(key, now)

	allowed := b.AllowN(now, 1)
	tokens := b.TokensAt(now)
	remaining := max(int(tokens), 0)

	// time until the bucket holds a whole token again
	resetTime := now
	if tokens < 1 {
		missing := 1 - tokens
		resetTime = now.Add(time.Duration(missing / float64(b.Limit()) * float64(time.Second)))
	}
	return allowed, remaining, resetTime, nil
}
