package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Status 健康状态
type Status string

const (
	// StatusHealthy 健康
	StatusHealthy Status = "healthy"
	// StatusUnhealthy 不健康
	StatusUnhealthy Status = "unhealthy"
	// StatusDegraded 降级
	StatusDegraded Status = "degraded"
)

// CheckResult 检查结果
type CheckResult struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Checker 健康检查器接口
type Checker interface {
	// Check 执行健康检查
	Check(ctx context.Context) CheckResult
	// Name 检查器名称
	Name() string
}

// Report 健康检查响应
type Report struct {
	Status       Status                 `json:"status"`
	Service      string                 `json:"service"`
	Version      string                 `json:"version"`
	Timestamp    time.Time              `json:"timestamp"`
	Uptime       int64                  `json:"uptime"`
	Dependencies map[string]CheckResult `json:"dependencies,omitempty"`
}

// HealthChecker 健康检查管理器
type HealthChecker struct {
	service   string
	version   string
	startedAt time.Time

	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewHealthChecker 创建健康检查管理器
func NewHealthChecker(service, version string) *HealthChecker {
	return &HealthChecker{
		service:   service,
		version:   version,
		startedAt: time.Now(),
		checkers:  make(map[string]Checker),
	}
}

// Register 注册检查器
func (h *HealthChecker) Register(checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[checker.Name()] = checker
}

// Check 并发执行所有检查
func (h *HealthChecker) Check(ctx context.Context) map[string]CheckResult {
	h.mu.RLock()
	checkers := make([]Checker, 0, len(h.checkers))
	for _, checker := range h.checkers {
		checkers = append(checkers, checker)
	}
	h.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(checkers))
	)
	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			result := c.Check(ctx)
			mu.Lock()
			results[c.Name()] = result
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

// Report 执行检查并汇总整体状态
func (h *HealthChecker) Report(ctx context.Context) Report {
	results := h.Check(ctx)
	return Report{
		Status:       aggregate(results),
		Service:      h.service,
		Version:      h.version,
		Timestamp:    time.Now(),
		Uptime:       int64(time.Since(h.startedAt).Seconds()),
		Dependencies: results,
	}
}

func aggregate(results map[string]CheckResult) Status {
	hasDegraded := false
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// PingChecker 通过 ping 函数检查依赖，超过阈值视为降级
type PingChecker struct {
	name      string
	pingFn    func(context.Context) error
	threshold time.Duration
}

// NewPingChecker 创建检查器，threshold 为 0 时不检查响应时间
func NewPingChecker(name string, pingFn func(context.Context) error, threshold time.Duration) *PingChecker {
	return &PingChecker{
		name:      name,
		pingFn:    pingFn,
		threshold: threshold,
	}
}

// Name 返回检查器名称
func (p *PingChecker) Name() string {
	return p.name
}

// Check 执行检查
func (p *PingChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	err := p.pingFn(ctx)
	duration := time.Since(start)

	if err != nil {
		return CheckResult{
			Status:    StatusUnhealthy,
			Timestamp: time.Now(),
			Duration:  duration,
			Error:     err.Error(),
		}
	}

	// 检查响应时间
	if p.threshold > 0 && duration > p.threshold {
		return CheckResult{
			Status:    StatusDegraded,
			Timestamp: time.Now(),
			Duration:  duration,
			Details: map[string]interface{}{
				"threshold": p.threshold.String(),
				"actual":    duration.String(),
			},
			Error: fmt.Sprintf("response time exceeds threshold: %v > %v", duration, p.threshold),
		}
	}

	return CheckResult{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Duration:  duration,
	}
}

// ReadinessChecker 就绪检查（用于K8s）
type ReadinessChecker struct {
	*HealthChecker
	dependencies []string // 必须健康的依赖
}

// NewReadinessChecker 创建就绪检查器
func NewReadinessChecker(healthChecker *HealthChecker, dependencies []string) *ReadinessChecker {
	return &ReadinessChecker{
		HealthChecker: healthChecker,
		dependencies:  dependencies,
	}
}

// IsReady 检查是否就绪，返回未就绪的依赖
func (r *ReadinessChecker) IsReady(ctx context.Context) (bool, []string) {
	results := r.Check(ctx)

	var failed []string
	for _, dep := range r.dependencies {
		result, ok := results[dep]
		if !ok || result.Status == StatusUnhealthy {
			failed = append(failed, dep)
		}
	}
	return len(failed) == 0, failed
}
