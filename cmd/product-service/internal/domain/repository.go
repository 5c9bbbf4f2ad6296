package domain

import (
	"context"
	"time"
)

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	// List 按文档顺序列出全部分类
	List(ctx context.Context) ([]*Category, error)

	// GetByID 获取分类
	GetByID(ctx context.Context, id int) (*Category, error)

	// ListWithProductCount 分类及商品数量（内连接，无商品的分类不出现）
	ListWithProductCount(ctx context.Context) ([]*CategoryWithProductCount, error)

	// Create 创建分类，名称重复时返回 ErrCategoryNameExists
	Create(ctx context.Context, category *Category) (int, error)

	// Update 按 ID 全量覆盖
	Update(ctx context.Context, category *Category) error

	// Delete 删除分类
	Delete(ctx context.Context, id int) error
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	List(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)

	// ListByCategory 指定分类下的商品，按价格降序
	ListByCategory(ctx context.Context, categoryID int) ([]*Product, error)

	// ListBelowQuantity 库存严格小于 quantity 的商品
	ListBelowQuantity(ctx context.Context, quantity int) ([]*Product, error)

	// GetDetails 商品->分类->订单->供应商 联合视图的第一行
	GetDetails(ctx context.Context, id int) (*ProductWithCategoryAndSupplier, error)

	// ListDetails 联合视图的全部行
	ListDetails(ctx context.Context) ([]*ProductWithCategoryAndSupplier, error)

	// ListByOrderCount 订单数严格小于 threshold 的商品（无订单的商品不出现）
	ListByOrderCount(ctx context.Context, threshold int) ([]*ProductOrderCount, error)

	Create(ctx context.Context, product *Product) (int, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int) error
}

// SupplierRepository 供应商仓储接口
type SupplierRepository interface {
	List(ctx context.Context) ([]*Supplier, error)
	GetByID(ctx context.Context, id int) (*Supplier, error)

	// ListByProductQuantity 供过货且商品库存等于 quantity 的供应商
	ListByProductQuantity(ctx context.Context, quantity int) ([]*Supplier, error)

	// Create 创建供应商，邮箱重复时返回 ErrSupplierEmailExists
	Create(ctx context.Context, supplier *Supplier) (int, error)
	Update(ctx context.Context, supplier *Supplier) error
	Delete(ctx context.Context, id int) error
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	List(ctx context.Context) ([]*Order, error)
	GetByID(ctx context.Context, id int) (*Order, error)

	// ListBySupplierAndStatus 供应商与状态精确匹配
	ListBySupplierAndStatus(ctx context.Context, supplierID int, status string) ([]*Order, error)

	// ListByDateRange 下单时间严格位于 (start, end) 之间
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Order, error)

	Create(ctx context.Context, order *Order) (int, error)
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id int) error
}
