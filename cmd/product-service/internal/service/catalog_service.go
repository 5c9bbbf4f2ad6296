package service

import (
	"context"
	"time"

	"github.com/google/wire"

	"productmanagement/cmd/product-service/internal/biz"
	"productmanagement/cmd/product-service/internal/domain"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewCatalogService)

// CatalogService 商品目录服务实现
type CatalogService struct {
	categoryUc *biz.CategoryUsecase
	productUc  *biz.ProductUsecase
	supplierUc *biz.SupplierUsecase
	orderUc    *biz.OrderUsecase
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(
	categoryUc *biz.CategoryUsecase,
	productUc *biz.ProductUsecase,
	supplierUc *biz.SupplierUsecase,
	orderUc *biz.OrderUsecase,
) *CatalogService {
	return &CatalogService{
		categoryUc: categoryUc,
		productUc:  productUc,
		supplierUc: supplierUc,
		orderUc:    orderUc,
	}
}

// ==================== 分类 ====================

// ListCategories 列出分类
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryUc.List(ctx)
}

// GetCategory 获取分类
func (s *CatalogService) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	return s.categoryUc.Get(ctx, id)
}

// ListCategoriesWithProductCount 分类商品数量
func (s *CatalogService) ListCategoriesWithProductCount(ctx context.Context) ([]*domain.CategoryWithProductCount, error) {
	return s.categoryUc.ListWithProductCount(ctx)
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) (int, error) {
	return s.categoryUc.Create(ctx, c)
}

// UpdateCategory 更新分类
func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return s.categoryUc.Update(ctx, c)
}

// DeleteCategory 删除分类
func (s *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	return s.categoryUc.Delete(ctx, id)
}

// ==================== 商品 ====================

// ListProducts 列出商品
func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.productUc.List(ctx)
}

// GetProduct 获取商品
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.productUc.Get(ctx, id)
}

// ListProductsByCategory 分类下的商品
func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int) ([]*domain.Product, error) {
	return s.productUc.ListByCategory(ctx, categoryID)
}

// ListProductsBelowQuantity 低库存商品
func (s *CatalogService) ListProductsBelowQuantity(ctx context.Context, quantity int) ([]*domain.Product, error) {
	return s.productUc.ListBelowQuantity(ctx, quantity)
}

// GetProductDetails 商品联合视图
func (s *CatalogService) GetProductDetails(ctx context.Context, id int) (*domain.ProductWithCategoryAndSupplier, error) {
	return s.productUc.GetDetails(ctx, id)
}

// ListProductDetails 商品联合视图分页
func (s *CatalogService) ListProductDetails(ctx context.Context, page, size int) ([]*domain.ProductWithCategoryAndSupplier, error) {
	return s.productUc.ListDetailsPage(ctx, page, size)
}

// ListProductsByOrderCount 订单数少于 threshold 的商品
func (s *CatalogService) ListProductsByOrderCount(ctx context.Context, threshold int) ([]*domain.ProductOrderCount, error) {
	return s.productUc.ListByOrderCount(ctx, threshold)
}

// CreateProduct 创建商品
func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) (int, error) {
	return s.productUc.Create(ctx, p)
}

// UpdateProduct 更新商品
func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return s.productUc.Update(ctx, p)
}

// DeleteProduct 删除商品
func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	return s.productUc.Delete(ctx, id)
}

// ==================== 供应商 ====================

// ListSuppliers 列出供应商
func (s *CatalogService) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	return s.supplierUc.List(ctx)
}

// GetSupplier 获取供应商
func (s *CatalogService) GetSupplier(ctx context.Context, id int) (*domain.Supplier, error) {
	return s.supplierUc.Get(ctx, id)
}

// ListSuppliersByProductQuantity 供应过库存恰为 quantity 的商品的供应商
func (s *CatalogService) ListSuppliersByProductQuantity(ctx context.Context, quantity int) ([]*domain.Supplier, error) {
	return s.supplierUc.ListByProductQuantity(ctx, quantity)
}

// CreateSupplier 创建供应商
func (s *CatalogService) CreateSupplier(ctx context.Context, sp *domain.Supplier) (int, error) {
	return s.supplierUc.Create(ctx, sp)
}

// UpdateSupplier 更新供应商
func (s *CatalogService) UpdateSupplier(ctx context.Context, sp *domain.Supplier) error {
	return s.supplierUc.Update(ctx, sp)
}

// DeleteSupplier 删除供应商
func (s *CatalogService) DeleteSupplier(ctx context.Context, id int) error {
	return s.supplierUc.Delete(ctx, id)
}

// ==================== 订单 ====================

// ListOrders 列出订单
func (s *CatalogService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderUc.List(ctx)
}

// ListOrdersPage 订单分页
func (s *CatalogService) ListOrdersPage(ctx context.Context, page, size int) ([]*domain.Order, error) {
	return s.orderUc.ListPage(ctx, page, size)
}

// GetOrder 获取订单
func (s *CatalogService) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return s.orderUc.Get(ctx, id)
}

// ListOrdersBySupplierAndStatus 按供应商与状态筛选订单
func (s *CatalogService) ListOrdersBySupplierAndStatus(ctx context.Context, supplierID int, status string) ([]*domain.Order, error) {
	return s.orderUc.ListBySupplierAndStatus(ctx, supplierID, status)
}

// ListOrdersByDateRange 按下单时间筛选订单
func (s *CatalogService) ListOrdersByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	return s.orderUc.ListByDateRange(ctx, start, end)
}

// CreateOrder 创建订单
func (s *CatalogService) CreateOrder(ctx context.Context, o *domain.Order) (int, error) {
	return s.orderUc.Create(ctx, o)
}

// UpdateOrder 更新订单
func (s *CatalogService) UpdateOrder(ctx context.Context, o *domain.Order) error {
	return s.orderUc.Update(ctx, o)
}

// DeleteOrder 删除订单
func (s *CatalogService) DeleteOrder(ctx context.Context, id int) error {
	return s.orderUc.Delete(ctx, id)
}
