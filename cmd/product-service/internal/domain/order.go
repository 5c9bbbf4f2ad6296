package domain

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts 可接受的时间格式，写入统一使用 RFC3339
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp 按 timestampLayouts 依次尝试解析，无时区的输入按 UTC 处理
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", s)
}

// Order 采购订单
type Order struct {
	ID         int       `json:"id"`
	ProductID  int       `json:"productId"`
	Quantity   int       `json:"quantity"`
	OrderDate  time.Time `json:"orderDate"`
	SupplierID int       `json:"supplierId"`
	Status     string    `json:"status"`
}

// Validate 校验订单字段
func (o *Order) Validate() error {
	if o == nil {
		return ErrNilRecord
	}
	return nil
}
