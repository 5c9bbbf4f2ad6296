package server

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"productmanagement/pkg/errors"
	"productmanagement/pkg/monitoring"
	"productmanagement/pkg/observability"
)

const (
	serviceName     = "product-service"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	errorCodeKey    = "error_code"
	errorKindKey    = "error_kind"
)

var tracer = otel.Tracer(serviceName)

// RecoveryMiddleware panic 转为 500 固定消息并记录日志
func RecoveryMiddleware(logger log.Logger) gin.HandlerFunc {
	helper := log.NewHelper(log.With(logger, "module", "server/recovery"))
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				helper.WithContext(c.Request.Context()).Errorw(
					"msg", "panic recovered",
					"panic", fmt.Sprintf("%v", rec),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					requestIDKey, c.GetString(requestIDKey),
				)

				span := trace.SpanFromContext(c.Request.Context())
				if span.IsRecording() {
					span.SetStatus(codes.Error, "panic recovered")
					span.RecordError(fmt.Errorf("panic: %v", rec))
				}

				writeError(c, errors.New(errors.StatusInternalServerError, errors.CodeInternal, internalErrorMessage))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// RequestIDMiddleware 透传或生成 X-Request-ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// TracingMiddleware OpenTelemetry 追踪中间件
func TracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		spanName := fmt.Sprintf("%s %s", c.Request.Method, routeOf(c))
		ctx, span := tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", routeOf(c)),
				attribute.String("http.request_id", c.GetString(requestIDKey)),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
		}
	}
}

// LoggingMiddleware 请求日志
func LoggingMiddleware(logger log.Logger) gin.HandlerFunc {
	helper := log.NewHelper(log.With(logger, "module", "server/http"))
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		keyvals := []interface{}{
			"msg", "HTTP request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			requestIDKey, c.GetString(requestIDKey),
			"trace_id", observability.TraceID(c.Request.Context()),
		}
		if code, ok := c.Get(errorCodeKey); ok {
			keyvals = append(keyvals, errorCodeKey, code, errorKindKey, c.GetString(errorKindKey))
		}
		if len(c.Errors) > 0 {
			keyvals = append(keyvals, "error", c.Errors.String())
		}

		h := helper.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			h.Errorw(keyvals...)
		case status >= 400:
			h.Warnw(keyvals...)
		default:
			h.Infow(keyvals...)
		}
	}
}

// MetricsMiddleware Prometheus 请求指标，path 使用路由模板
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := routeOf(c)
		monitoring.RequestDuration.WithLabelValues(serviceName, c.Request.Method, route).Observe(time.Since(start).Seconds())
		monitoring.RequestsTotal.WithLabelValues(serviceName, c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// TimeoutMiddleware 为请求上下文设置截止时间，数据层在等待锁与读写时遵守该截止时间
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CORSMiddleware CORS 中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Idempotency-Key, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// routeOf 路由模板，未匹配时归为 unmatched 以控制指标基数
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
