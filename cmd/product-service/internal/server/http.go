package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	"productmanagement/cmd/product-service/internal/conf"
	"productmanagement/cmd/product-service/internal/service"
	"productmanagement/pkg/health"
	"productmanagement/pkg/middleware"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHealthChecker, NewHTTPServer)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	engine    *gin.Engine
	service   *service.CatalogService
	readiness *health.ReadinessChecker
	config    *conf.Config
	redis     redis.UniversalClient
	logger    log.Logger
	log       *log.Helper
}

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(
	c *conf.Config,
	srv *service.CatalogService,
	readiness *health.ReadinessChecker,
	rdb redis.UniversalClient,
	logger log.Logger,
) *HTTPServer {
	if c.Server.Mode != "" {
		gin.SetMode(c.Server.Mode)
	}

	s := &HTTPServer{
		engine:    gin.New(),
		service:   srv,
		readiness: readiness,
		config:    c,
		redis:     rdb,
		logger:    logger,
		log:       log.NewHelper(log.With(logger, "module", "server")),
	}

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

// Engine 返回 gin 引擎
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// registerMiddlewares 注册中间件
func (s *HTTPServer) registerMiddlewares() {
	s.engine.Use(RequestIDMiddleware())
	s.engine.Use(TracingMiddleware())
	s.engine.Use(LoggingMiddleware(s.logger))
	s.engine.Use(MetricsMiddleware())
	s.engine.Use(RecoveryMiddleware(s.logger))
	s.engine.Use(CORSMiddleware())
	s.engine.Use(TimeoutMiddleware(s.config.Server.RequestTimeout))
}

// apiMiddlewares 仅作用于 /api 的 Redis 中间件
func (s *HTTPServer) apiMiddlewares() []gin.HandlerFunc {
	if s.redis == nil {
		return nil
	}

	var handlers []gin.HandlerFunc
	if s.config.RateLimit.Enabled {
		handlers = append(handlers, middleware.RateLimiter(middleware.RateLimiterConfig{
			RedisClient: s.redis,
			MaxRequests: s.config.RateLimit.MaxRequests,
			Window:      s.config.RateLimit.Window,
			KeyPrefix:   "product-service:rate_limit",
		}))
	}
	if s.config.Idempotency.Enabled {
		handlers = append(handlers, middleware.Idempotency(middleware.IdempotencyConfig{
			RedisClient: s.redis,
			KeyPrefix:   "product-service:idempotency",
			TTL:         s.config.Idempotency.TTL,
			Logger:      s.logger,
		}))
	}
	return handlers
}

// registerRoutes 注册路由
func (s *HTTPServer) registerRoutes() {
	s.engine.GET("/health", s.healthCheck)
	s.engine.GET("/ready", s.readinessCheck)

	api := s.engine.Group("/api", s.apiMiddlewares()...)

	category := api.Group("/category")
	{
		category.GET("", s.listCategories)
		category.GET("/with-product-count", s.listCategoriesWithProductCount)
		category.GET("/:id", s.getCategory)
		category.POST("", s.createCategory)
		category.PUT("", s.updateCategory)
		category.DELETE("/:id", s.deleteCategory)
	}

	product := api.Group("/product")
	{
		product.GET("", s.listProducts)
		product.GET("/category/:categoryId", s.listProductsByCategory)
		product.GET("/quantity/:quantity", s.listProductsBelowQuantity)
		product.GET("/most-ordered", s.listProductsByOrderCount)
		product.GET("/details", s.listProductDetails)
		product.GET("/:id/details", s.getProductDetails)
		product.GET("/:id", s.getProduct)
		product.POST("", s.createProduct)
		product.PUT("", s.updateProduct)
		product.DELETE("/:id", s.deleteProduct)
	}

	supplier := api.Group("/supplier")
	{
		supplier.GET("", s.listSuppliers)
		supplier.GET("/product-quantity/:quantity", s.listSuppliersByProductQuantity)
		supplier.GET("/:id", s.getSupplier)
		supplier.POST("", s.createSupplier)
		supplier.PUT("", s.updateSupplier)
		supplier.DELETE("/:id", s.deleteSupplier)
	}

	order := api.Group("/order")
	{
		order.GET("", s.listOrders)
		order.GET("/supplier/:supplierId", s.listOrdersBySupplier)
		order.GET("/date-range", s.listOrdersByDateRange)
		order.GET("/page", s.listOrdersPage)
		order.GET("/:id", s.getOrder)
		order.POST("", s.createOrder)
		order.PUT("", s.updateOrder)
		order.DELETE("/:id", s.deleteOrder)
	}
}

// healthCheck 存活检查，附带各依赖的检查结果
func (s *HTTPServer) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	c.JSON(http.StatusOK, s.readiness.Report(ctx))
}

// readinessCheck 就绪检查，依赖文档存储与已启用的 Redis
func (s *HTTPServer) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	ready, failed := s.readiness.IsReady(ctx)
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ready":  ready,
		"failed": failed,
		"time":   time.Now().Format(time.RFC3339),
	})
}
