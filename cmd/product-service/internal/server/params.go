package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"productmanagement/cmd/product-service/internal/domain"
	"productmanagement/pkg/errors"
)

// pathInt 解析整数路径参数，失败时已写入 400 响应
func (s *HTTPServer) pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		s.respondBadRequest(c, errors.CodeInvalidParameter, fmt.Sprintf("path parameter %s must be an integer", name))
		return 0, false
	}
	return v, true
}

// queryInt 解析整数查询参数；缺省时返回 def，required 为 true 时缺省视为错误
func (s *HTTPServer) queryInt(c *gin.Context, name string, def int, required bool) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		if required {
			s.respondBadRequest(c, errors.CodeInvalidParameter, fmt.Sprintf("query parameter %s is required", name))
			return 0, false
		}
		return def, true
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.respondBadRequest(c, errors.CodeInvalidParameter, fmt.Sprintf("query parameter %s must be an integer", name))
		return 0, false
	}
	return v, true
}

// queryTime 解析必填的时间查询参数
func (s *HTTPServer) queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if strings.TrimSpace(raw) == "" {
		s.respondBadRequest(c, errors.CodeInvalidParameter, fmt.Sprintf("query parameter %s is required", name))
		return time.Time{}, false
	}

	t, err := domain.ParseTimestamp(raw)
	if err != nil {
		s.respondBadRequest(c, errors.CodeInvalidFormat, fmt.Sprintf("query parameter %s: %v", name, err))
		return time.Time{}, false
	}
	return t, true
}

// bindRecord 解析 JSON 请求体。空请求体与 null 返回 nil 记录，由服务层按缺失记录处理。
func bindRecord[T any](s *HTTPServer, c *gin.Context) (*T, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respondBadRequest(c, errors.CodeInvalidFormat, "failed to read request body")
		return nil, false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, true
	}

	var record *T
	if err := json.Unmarshal(raw, &record); err != nil {
		s.respondBadRequest(c, errors.CodeInvalidFormat, fmt.Sprintf("invalid request body: %v", err))
		return nil, false
	}
	return record, true
}
