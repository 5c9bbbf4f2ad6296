package server

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/gin-gonic/gin"
	kerrors "github.com/go-kratos/kratos/v2/errors"

	"productmanagement/cmd/product-service/internal/domain"
	"productmanagement/pkg/errors"
)

const internalErrorMessage = "An error occurred. Please try again later."

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int32  `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// MessageResponse 写操作的确认响应
type MessageResponse struct {
	Message string `json:"message"`
	ID      int    `json:"id,omitempty"`
}

// operation 写操作类型，决定错误消息的措辞
type operation string

const (
	opGet    operation = "found"
	opCreate operation = "created"
	opUpdate operation = "updated"
	opDelete operation = "deleted"
)

// entity 资源名称与其未找到时的错误码
type entity struct {
	name         string
	notFoundCode int
}

var (
	categoryEntity = entity{name: "Category", notFoundCode: errors.CodeCategoryNotFound}
	productEntity  = entity{name: "Product", notFoundCode: errors.CodeProductNotFound}
	supplierEntity = entity{name: "Supplier", notFoundCode: errors.CodeSupplierNotFound}
	orderEntity    = entity{name: "Order", notFoundCode: errors.CodeOrderNotFound}
)

func (e entity) failed(op operation) string {
	return fmt.Sprintf("%s not %s", e.name, op)
}

func (e entity) succeeded(op operation) string {
	return fmt.Sprintf("%s %s", e.name, op)
}

// writeError 输出统一错误结构
func writeError(c *gin.Context, err *kerrors.Error) {
	c.JSON(int(err.Code), ErrorResponse{
		Code:    err.Code,
		Reason:  err.Reason,
		Message: err.Message,
	})
}

// respondError 响应错误，错误码留给请求日志
func (s *HTTPServer) respondError(c *gin.Context, err *kerrors.Error) {
	if errors.StatusCode(err) >= errors.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.Set(errorCodeKey, errors.GetErrorCode(err))
	c.Set(errorKindKey, errorKind(err))
	writeError(c, err)
}

func errorKind(err error) string {
	switch {
	case errors.IsBusinessError(err):
		return "business"
	case errors.IsDataError(err):
		return "data"
	default:
		return "system"
	}
}

// respondBadRequest 请求参数错误
func (s *HTTPServer) respondBadRequest(c *gin.Context, code int, message string) {
	s.respondError(c, errors.New(errors.StatusBadRequest, code, message))
}

// handleServiceError 将服务层错误映射为 HTTP 响应
func (s *HTTPServer) handleServiceError(c *gin.Context, e entity, op operation, err error) {
	s.respondError(c, s.toHTTPError(c.Request.Context(), e, op, err))
}

func (s *HTTPServer) toHTTPError(ctx context.Context, e entity, op operation, err error) *kerrors.Error {
	var (
		parseErr  *domain.ParseError
		formatErr *domain.FormatError
	)

	switch {
	case stderrors.Is(err, domain.ErrProductDetailsNotFound):
		return errors.New(errors.StatusNotFound, errors.CodeProductDetailsNotFound, "Product details not found")
	case domain.IsNotFound(err):
		return errors.New(errors.StatusNotFound, e.notFoundCode, e.failed(op))
	case stderrors.Is(err, domain.ErrNilRecord):
		return errors.New(errors.StatusNotFound, errors.CodeMissingBody, e.failed(op))
	case stderrors.Is(err, domain.ErrCategoryNameExists):
		return errors.New(errors.StatusConflict, errors.CodeCategoryNameExists, fmt.Sprintf("%s: %v", e.failed(op), domain.ErrCategoryNameExists))
	case stderrors.Is(err, domain.ErrSupplierEmailExists):
		return errors.New(errors.StatusConflict, errors.CodeSupplierEmailExists, fmt.Sprintf("%s: %v", e.failed(op), domain.ErrSupplierEmailExists))
	case stderrors.Is(err, domain.ErrInvalidArgument):
		return errors.New(errors.StatusBadRequest, errors.CodeInvalidParameter, fmt.Sprintf("%s: %v", e.failed(op), err))
	case stderrors.Is(err, domain.ErrDocumentBusy):
		return errors.Wrap(errors.StatusServiceUnavailable, errors.CodeDocumentBusy, err, "data document is busy, retry later")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.StatusGatewayTimeout, errors.CodeTimeout, err, "request timeout")
	case stderrors.As(err, &formatErr):
		s.log.WithContext(ctx).Errorf("record format error: %v", err)
		return errors.Wrap(errors.StatusInternalServerError, errors.CodeRecordFormatInvalid, err, formatErr.Error())
	case stderrors.As(err, &parseErr):
		s.log.WithContext(ctx).Errorf("document parse error: %v", err)
		return errors.Wrap(errors.StatusInternalServerError, errors.CodeDocumentParseFailed, err, "data document could not be parsed")
	case errors.GetErrorCode(err) != 0:
		// 已携带目录错误码的错误原样透出
		return errors.FromError(err)
	default:
		s.log.WithContext(ctx).Errorf("service error: %v", err)
		return errors.Wrap(errors.StatusInternalServerError, errors.CodeInternal, err, internalErrorMessage)
	}
}
