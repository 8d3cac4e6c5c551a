package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/drystore/nexus/internal/redis"
)

// rateLimitKey buckets authenticated traffic per user and anonymous
// traffic per IP, scoped to the route so the login limit does not eat
// into the message limit.
func rateLimitKey(c echo.Context) string {
	if uid, ok := c.Get("user_id").(int64); ok {
		return fmt.Sprintf("rl:user:%d:%s", uid, c.Path())
	}
	return fmt.Sprintf("rl:ip:%s:%s", c.RealIP(), c.Path())
}

// RateLimitMiddleware enforces a fixed-window request limit backed by
// Redis and reports the window state through X-RateLimit-* headers.
// When Redis is unreachable the middleware fails open.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, count, ttlMs, err := redisClient.CheckRateLimit(
				c.Request().Context(), rateLimitKey(c), limit, window)
			if err != nil {
				return next(c)
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(
				time.Now().Add(time.Duration(ttlMs)*time.Millisecond).Unix(), 10))

			if !allowed {
				// Retry-After is in whole seconds, rounded up.
				h.Set("Retry-After", strconv.FormatInt((ttlMs+999)/1000, 10))
				return Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, please try again later")
			}

			return next(c)
		}
	}
}
