package middlewares

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	redis "github.com/redis/go-redis/v9"

	helper "kursusku_backend/internals/helpers"
)

// RedisRateLimiter is a fixed-window counter shared across app instances, for
// deployments where the in-memory fiber limiter is not enough.
type RedisRateLimiter struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisRateLimiter(addr, password string, db int) (*RedisRateLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisRateLimiter{
		client:  client,
		prefix:  "kursusku:ratelimit:",
		timeout: 250 * time.Millisecond,
	}, nil
}

// Allow counts one hit against key and reports whether it stays within limit.
// Redis errors fail open.
func (rl *RedisRateLimiter) Allow(key string, limit int, window time.Duration) bool {
	if limit <= 0 {
		return true
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Printf("[RATELIMIT] redis incr err: %v", err)
		return true
	}
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			log.Printf("[RATELIMIT] redis expire err: %v", err)
		}
	}
	return int(counter) <= limit
}

func (rl *RedisRateLimiter) Close() {
	if rl.client != nil {
		_ = rl.client.Close()
	}
}

// EnrollBurstLimiter wraps the fixed window as a fiber handler keyed by the
// caller identity (email when signed in, IP otherwise).
func (rl *RedisRateLimiter) EnrollBurstLimiter(limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if email, ok := c.Locals(helper.LocUserEmail).(string); ok && email != "" {
			key = email
		}
		if !rl.Allow("enroll:"+key, limit, window) {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many enrollment attempts. Please slow down and retry.")
		}
		return c.Next()
	}
}
