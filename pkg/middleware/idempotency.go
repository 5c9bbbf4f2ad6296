package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"productmanagement/pkg/errors"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	IdempotencyTTL       = 120 * time.Second // 幂等性保持时间
)

// IdempotencyConfig 幂等性配置
type IdempotencyConfig struct {
	RedisClient redis.UniversalClient
	KeyPrefix   string
	TTL         time.Duration
	LockTTL     time.Duration
	// Logger 记录响应写出后的缓存失败，默认 log.DefaultLogger
	Logger log.Logger
}

// Idempotency 创建幂等性中间件，仅对携带 Idempotency-Key 的写请求生效
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "idempotency"
	}
	if config.TTL == 0 {
		config.TTL = IdempotencyTTL
	}
	if config.LockTTL == 0 {
		config.LockTTL = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = log.DefaultLogger
	}
	helper := log.NewHelper(log.With(config.Logger, "module", "middleware/idempotency"))

	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		// 使用请求方法、路径、幂等性Key和客户端生成唯一key
		hashInput := fmt.Sprintf("%s:%s:%s:%s",
			c.Request.Method,
			c.Request.URL.Path,
			idempotencyKey,
			c.ClientIP(),
		)
		hash := sha256.Sum256([]byte(hashInput))
		redisKey := fmt.Sprintf("%s:%s", config.KeyPrefix, hex.EncodeToString(hash[:]))
		ctx := c.Request.Context()

		// 已处理，返回缓存结果
		result, err := config.RedisClient.Get(ctx, redisKey).Bytes()
		if err == nil {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(http.StatusOK, "application/json; charset=utf-8", result)
			c.Abort()
			return
		}
		if err != redis.Nil {
			abortWithError(c, errors.Wrap(errors.StatusInternalServerError, errors.CodeInternal, err, "idempotency check failed"))
			return
		}

		// 尝试设置处理锁
		lockKey := redisKey + ":lock"
		locked, err := config.RedisClient.SetNX(ctx, lockKey, "1", config.LockTTL).Result()
		if err != nil {
			abortWithError(c, errors.Wrap(errors.StatusInternalServerError, errors.CodeInternal, err, "idempotency check failed"))
			return
		}
		if !locked {
			abortWithError(c, errors.NewConflict("REQUEST_IN_PROGRESS", "request is being processed"))
			return
		}
		// 响应写出后请求上下文可能已到期，收尾写入不受其取消影响
		cleanupCtx := context.WithoutCancel(ctx)
		defer func() {
			if err := config.RedisClient.Del(cleanupCtx, lockKey).Err(); err != nil {
				helper.WithContext(ctx).Errorf("release idempotency lock %s: %v", lockKey, err)
			}
		}()

		writer := &responseWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		// 请求成功时缓存结果
		if status := writer.Status(); status >= 200 && status < 300 {
			if err := config.RedisClient.Set(cleanupCtx, redisKey, writer.body, config.TTL).Err(); err != nil {
				helper.WithContext(ctx).Errorf("cache idempotent response %s: %v", redisKey, err)
			}
		}
	}
}

// responseWriter 用于捕获响应body
type responseWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body = append(w.body, data...)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}
