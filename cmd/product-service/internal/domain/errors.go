package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCategoryNotFound 分类未找到
	ErrCategoryNotFound = errors.New("category not found")

	// ErrProductNotFound 商品未找到
	ErrProductNotFound = errors.New("product not found")

	// ErrSupplierNotFound 供应商未找到
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")

	// ErrProductDetailsNotFound 商品联合视图无匹配行
	ErrProductDetailsNotFound = errors.New("product details not found")

	// ErrCategoryNameExists 分类名称已存在
	ErrCategoryNameExists = errors.New("category name already exists")

	// ErrSupplierEmailExists 供应商邮箱已存在
	ErrSupplierEmailExists = errors.New("supplier email already exists")

	// ErrNilRecord 空记录
	ErrNilRecord = errors.New("record is nil")

	// ErrDocumentBusy 等待文档锁超时
	ErrDocumentBusy = errors.New("data document is busy")

	// ErrInvalidArgument 参数无效
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// ParseError 数据文档无法解析
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatError 记录字段缺失或无法按声明类型解析
type FormatError struct {
	Collection string
	Index      int
	ID         string
	Field      string
	Value      string
	Err        error
}

func (e *FormatError) Error() string {
	id := e.ID
	if id == "" {
		id = "?"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s[%d] (Id=%s): missing field %s", e.Collection, e.Index, id, e.Field)
	}
	return fmt.Sprintf("%s[%d] (Id=%s): field %s=%q: %v", e.Collection, e.Index, id, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// IsNotFound 判断是否为记录未找到类错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrSupplierNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductDetailsNotFound)
}

// IsConflict 判断是否为唯一性冲突
func IsConflict(err error) bool {
	return errors.Is(err, ErrCategoryNameExists) || errors.Is(err, ErrSupplierEmailExists)
}
