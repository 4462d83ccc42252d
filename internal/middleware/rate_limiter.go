package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/safasahar/backend/internal/config"
)

// RateLimiter limits requests per client IP over a sliding window kept
// in Redis. When Redis is unreachable the limiter fails open; blocking
// all traffic on a cache outage would be worse than briefly not
// limiting it.
func RateLimiter(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "rate_limit:" + c.ClientIP()

		count, err := redisClient.Get(ctx, key).Int()
		switch {
		case err == redis.Nil:
			// First request in the window
			if err := redisClient.Set(ctx, key, 1, cfg.RateLimitDuration).Err(); err != nil {
				log.Printf("WARN: rate limiter unavailable: %v", err)
			}
		case err != nil:
			log.Printf("WARN: rate limiter unavailable: %v", err)
		case count >= cfg.RateLimitRequests:
			ttl, _ := redisClient.TTL(ctx, key).Result()
			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RateLimitRequests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": ttl.Seconds(),
			})
			c.Abort()
			return
		default:
			remaining, _ := redisClient.Incr(ctx, key).Result()
			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RateLimitRequests))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.RateLimitRequests-int(remaining)))
		}

		c.Next()
	}
}
