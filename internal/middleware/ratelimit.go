package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"travelog/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when the limit store is unreachable.
type FailPolicy int

const (
	FailOpen FailPolicy = iota
	// FailClosed answers 503 instead of letting the request through.
	FailClosed
)

var errNoRedis = errors.New("rate limit store not configured")

// RouteLimit caps one named route: Limit requests per Window for each caller.
type RouteLimit struct {
	Name   string
	Limit  int
	Window time.Duration
	Policy FailPolicy
}

// Usage is the caller's position inside the current window.
type Usage struct {
	Count   int64
	ResetIn time.Duration
}

// Allowed reports whether the counted request fits the limit.
func (u Usage) Allowed(limit int) bool { return u.Count <= int64(limit) }

// Remaining is never negative.
func (u Usage) Remaining(limit int) int64 {
	if r := int64(limit) - u.Count; r > 0 {
		return r
	}
	return 0
}

// CountRequest increments the fixed-window counter for caller on route and
// starts the window on first use.
func CountRequest(ctx context.Context, rdb *redis.Client, route, caller string, window time.Duration) (Usage, error) {
	if rdb == nil {
		return Usage{}, errNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", route, caller)
	pipe := rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		observability.RedisErrors.WithLabelValues("rate_limit").Inc()
		return Usage{}, err
	}

	usage := Usage{Count: incr.Val(), ResetIn: ttl.Val()}
	if usage.ResetIn <= 0 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			observability.RedisErrors.WithLabelValues("rate_limit").Inc()
			return Usage{}, err
		}
		usage.ResetIn = window
	}
	return usage, nil
}

// callerKey identifies the caller by user id once authenticated, else by IP.
func callerKey(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
		return "user:" + strconv.FormatUint(uint64(uid), 10)
	}
	return "ip:" + c.IP()
}

// RateLimit enforces rl with a shared Redis counter so every instance sees the same window.
func RateLimit(rdb *redis.Client, rl RouteLimit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		usage, err := CountRequest(ctx, rdb, rl.Name, callerKey(c), rl.Window)
		if err != nil {
			if rl.Policy == FailClosed {
				Logger.WarnContext(ctx, "rate limit store unavailable, rejecting",
					slog.String("route", rl.Name),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.Limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(usage.Remaining(rl.Limit), 10))
		if !usage.Allowed(rl.Limit) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(usage.ResetIn.Round(time.Second).Seconds())))
			Logger.InfoContext(ctx, "route limit exceeded", slog.String("route", rl.Name))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		}
		return c.Next()
	}
}
