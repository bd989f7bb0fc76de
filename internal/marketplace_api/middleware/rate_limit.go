package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits on a key within one fixed window
type WindowCounter interface {
	// Incr adds one hit to key and returns the hit count; the key expires after window
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisWindowCounter keeps counters in redis so every API replica shares the same budget
type RedisWindowCounter struct {
	client *redis.Client
}

func NewRedisWindowCounter(client *redis.Client) *RedisWindowCounter {
	return &RedisWindowCounter{client: client}
}

func (r *RedisWindowCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit allows limit requests per client IP in each fixed window of the given length.
// Counters are namespaced by scope so separate limits do not share a budget.
// When the counter store is unavailable requests are let through.
func RateLimit(counter WindowCounter, scope string, limit int, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return rateLimit(counter, scope, limit, window, logger, time.Now)
}

func rateLimit(counter WindowCounter, scope string, limit int, window time.Duration, logger *slog.Logger, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := now()
		windowStart := t.Truncate(window)
		key := "ratelimit:" + scope + ":" + c.ClientIP() + ":" + strconv.FormatInt(windowStart.Unix(), 10)

		hits, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn("Rate limit counter unavailable, allowing request",
				"scope", scope,
				"correlation_id", GetCorrelationID(c),
				"error", err,
			)
			c.Next()
			return
		}

		remaining := int64(limit) - hits
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if hits > int64(limit) {
			retryAfter := int(windowStart.Add(window).Sub(t).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			abortWithError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
