package domain

import "github.com/shopspring/decimal"

func init() {
	// Price 在 JSON 中以数字输出
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultOrderCountThreshold 按订单数筛选商品的默认阈值（严格小于）
const DefaultOrderCountThreshold = 5

// Product 商品
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"categoryId"`
}

// Validate 校验商品字段
func (p *Product) Validate() error {
	if p == nil {
		return ErrNilRecord
	}
	if p.Quantity < 0 {
		return invalidArgument("product quantity must be non-negative")
	}
	return nil
}

// ProductWithCategoryAndSupplier 商品-分类-供应商联合视图
type ProductWithCategoryAndSupplier struct {
	ProductName  string `json:"productName"`
	CategoryName string `json:"categoryName"`
	SupplierName string `json:"supplierName"`
}

// ProductOrderCount 商品订单数视图
type ProductOrderCount struct {
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	OrderCount  int    `json:"orderCount"`
}
