package server

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"productmanagement/cmd/product-service/internal/conf"
	"productmanagement/pkg/health"
)

const (
	checkDocument = "document"
	checkRedis    = "redis"
)

// DocumentPinger 数据文档可用性检查
type DocumentPinger interface {
	Ping(ctx context.Context) error
}

// NewHealthChecker 注册文档存储与 Redis 检查器
func NewHealthChecker(c *conf.Config, doc DocumentPinger, rdb redis.UniversalClient) *health.ReadinessChecker {
	checker := health.NewHealthChecker(c.Observability.ServiceName, c.Observability.ServiceVersion)
	checker.Register(health.NewPingChecker(checkDocument, doc.Ping, 500*time.Millisecond))

	deps := []string{checkDocument}
	if rdb != nil {
		checker.Register(health.NewPingChecker(checkRedis, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}, 100*time.Millisecond))
		deps = append(deps, checkRedis)
	}
	return health.NewReadinessChecker(checker, deps)
}
