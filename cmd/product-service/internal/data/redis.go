package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"productmanagement/cmd/product-service/internal/conf"
)

// NewRedisClient 创建限流与幂等使用的 Redis 客户端，均未启用时返回 nil
func NewRedisClient(c *conf.Config, logger log.Logger) (redis.UniversalClient, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data/redis"))
	if !c.RedisRequired() {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.RateLimit.Redis.Addr,
		Password: c.RateLimit.Redis.Password,
		DB:       c.RateLimit.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", c.RateLimit.Redis.Addr, err)
	}
	helper.Infof("redis connected: %s", c.RateLimit.Redis.Addr)

	cleanup := func() {
		if err := client.Close(); err != nil {
			helper.Errorf("close redis: %v", err)
		}
	}
	return client, cleanup, nil
}
