package errors

import (
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
)

// 错误码规范：
// - 1xxxx: 通用错误（请求参数）
// - 2xxxx: 业务逻辑错误
// - 3xxxx: 数据访问错误
// - 5xxxx: 系统级错误

// ==================== 通用错误 (10000-19999) ====================

const (
	CodeInvalidParameter = 10100
	CodeMissingBody      = 10101
	CodeInvalidFormat    = 10103
)

// ==================== 业务逻辑错误 (20000-29999) ====================

const (
	// 分类 (20300-20309)
	CodeCategoryNotFound   = 20300
	CodeCategoryNameExists = 20301

	// 商品 (20310-20319)
	CodeProductNotFound        = 20310
	CodeProductDetailsNotFound = 20311

	// 供应商 (20320-20329)
	CodeSupplierNotFound    = 20320
	CodeSupplierEmailExists = 20321

	// 订单 (20330-20339)
	CodeOrderNotFound = 20330
)

// ==================== 数据访问错误 (30000-39999) ====================

const (
	CodeDocumentParseFailed = 30005
	CodeRecordFormatInvalid = 30006
	CodeDocumentBusy        = 30007
)

// ==================== 系统级错误 (50000-59999) ====================

const (
	CodeInternal = 50000
	CodeTimeout  = 50001
)

// reasonPrefix 按错误码区间返回 reason 前缀
func reasonPrefix(code int) string {
	switch {
	case code >= 10000 && code < 20000:
		return "REQ"
	case code >= 20000 && code < 30000:
		return "BIZ"
	case code >= 30000 && code < 40000:
		return "DATA"
	default:
		return "SYS"
	}
}

// Reason 错误码对应的 reason，例如 BIZ_20300
func Reason(code int) string {
	return fmt.Sprintf("%s_%d", reasonPrefix(code), code)
}

// New 创建带业务错误码的错误
func New(status, code int, message string) *errors.Error {
	return errors.New(status, Reason(code), message)
}

// Wrap 创建带业务错误码的错误并保留原因
func Wrap(status, code int, err error, message string) *errors.Error {
	if message == "" {
		message = err.Error()
	}
	return errors.New(status, Reason(code), message).WithCause(err)
}

// ==================== 错误判断函数 ====================

// IsBusinessError 判断是否为业务错误
func IsBusinessError(err error) bool {
	return hasPrefix(err, "BIZ_")
}

// IsDataError 判断是否为数据错误
func IsDataError(err error) bool {
	return hasPrefix(err, "DATA_")
}

func hasPrefix(err error, prefix string) bool {
	if err == nil {
		return false
	}
	return strings.HasPrefix(errors.Reason(err), prefix)
}

// GetErrorCode 获取错误码，无法识别时返回 0
func GetErrorCode(err error) int {
	if err == nil {
		return 0
	}
	reason := errors.Reason(err)
	i := strings.IndexByte(reason, '_')
	if i < 0 {
		return 0
	}
	var code int
	if _, scanErr := fmt.Sscanf(reason[i+1:], "%d", &code); scanErr != nil {
		return 0
	}
	return code
}
