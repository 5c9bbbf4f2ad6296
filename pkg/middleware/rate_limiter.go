package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"productmanagement/pkg/errors"
)

// RateLimiterConfig 限流配置
type RateLimiterConfig struct {
	RedisClient redis.UniversalClient
	MaxRequests int           // 最大请求数
	Window      time.Duration // 时间窗口
	KeyPrefix   string        // Redis key前缀
	// KeyFunc 限流维度，默认按客户端 IP
	KeyFunc func(c *gin.Context) string
}

// RateLimiter 创建固定窗口限流中间件
func RateLimiter(config RateLimiterConfig) gin.HandlerFunc {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit"
	}
	if config.MaxRequests == 0 {
		config.MaxRequests = 100
	}
	if config.Window == 0 {
		config.Window = time.Minute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s", config.KeyPrefix, config.KeyFunc(c))

		// 增加计数，窗口内首次计数时设置过期
		pipe := config.RedisClient.TxPipeline()
		incr := pipe.Incr(ctx, key)
		ttl := pipe.PTTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			abortWithError(c, errors.Wrap(errors.StatusInternalServerError, errors.CodeInternal, err, "rate limiter error"))
			return
		}

		count := incr.Val()
		reset := time.Now().Add(config.Window)
		if d := ttl.Val(); d > 0 {
			reset = time.Now().Add(d)
		} else if err := config.RedisClient.Expire(ctx, key, config.Window).Err(); err != nil {
			abortWithError(c, errors.Wrap(errors.StatusInternalServerError, errors.CodeInternal, err, "rate limiter error"))
			return
		}

		remaining := config.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > int64(config.MaxRequests) {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
			abortWithError(c, errors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
