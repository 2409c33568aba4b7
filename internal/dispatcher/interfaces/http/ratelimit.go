package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig 分发 API 的限流配置，QPS 为 0 时关闭
type RateLimitConfig struct {
	QPS   int
	Burst int
}

// RateLimit 基于 Redis 的每客户端限流中间件。
// 限流器自身故障时放行，避免 Redis 抖动放大为 API 不可用。
func RateLimit(client redis.UniversalClient, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.QPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.QPS
	}
	limiter := redis_rate.NewLimiter(client)
	limit := redis_rate.Limit{Rate: cfg.QPS, Period: time.Second, Burst: burst}

	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), "dispatcher:ratelimit:"+c.ClientIP(), limit)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed <= 0 {
			c.Header("Retry-After", strconv.FormatInt(int64(res.RetryAfter/time.Second), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
