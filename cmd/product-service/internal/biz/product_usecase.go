package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

// ProductUsecase 商品用例
type ProductUsecase struct {
	repo     domain.ProductRepository
	notifier *EventNotifier
	log      *log.Helper
}

// NewProductUsecase 创建商品用例
func NewProductUsecase(repo domain.ProductRepository, notifier *EventNotifier, logger log.Logger) *ProductUsecase {
	return &ProductUsecase{
		repo:     repo,
		notifier: notifier,
		log:      log.NewHelper(log.With(logger, "module", "biz/product")),
	}
}

// List 全部商品
func (uc *ProductUsecase) List(ctx context.Context) ([]*domain.Product, error) {
	return uc.repo.List(ctx)
}

// Get 按 Id 获取商品
func (uc *ProductUsecase) Get(ctx context.Context, id int) (*domain.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListByCategory 分类下的商品，价格降序
func (uc *ProductUsecase) ListByCategory(ctx context.Context, categoryID int) ([]*domain.Product, error) {
	return uc.repo.ListByCategory(ctx, categoryID)
}

// ListBelowQuantity 库存低于 quantity 的商品
func (uc *ProductUsecase) ListBelowQuantity(ctx context.Context, quantity int) ([]*domain.Product, error) {
	return uc.repo.ListBelowQuantity(ctx, quantity)
}

// GetDetails 商品的分类与供应商信息
func (uc *ProductUsecase) GetDetails(ctx context.Context, id int) (*domain.ProductWithCategoryAndSupplier, error) {
	return uc.repo.GetDetails(ctx, id)
}

// ListDetailsPage 联合视图分页
func (uc *ProductUsecase) ListDetailsPage(ctx context.Context, page, size int) ([]*domain.ProductWithCategoryAndSupplier, error) {
	rows, err := uc.repo.ListDetails(ctx)
	if err != nil {
		return nil, err
	}
	return Paginate(rows, page, size), nil
}

// ListByOrderCount 订单数少于 threshold 的商品，threshold <= 0 时使用默认阈值
func (uc *ProductUsecase) ListByOrderCount(ctx context.Context, threshold int) ([]*domain.ProductOrderCount, error) {
	if threshold <= 0 {
		threshold = domain.DefaultOrderCountThreshold
	}
	return uc.repo.ListByOrderCount(ctx, threshold)
}

// Create 创建商品
func (uc *ProductUsecase) Create(ctx context.Context, p *domain.Product) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	id, err := uc.repo.Create(ctx, p)
	if err == nil {
		p.ID = id
	}
	uc.notifier.recordMutation(ctx, entityProduct, domain.ActionCreated, id, p, err)
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	uc.log.WithContext(ctx).Infof("product created: id=%d name=%s", id, p.Name)
	return id, nil
}

// Update 按 Id 整体覆盖商品
func (uc *ProductUsecase) Update(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	err := uc.repo.Update(ctx, p)
	uc.notifier.recordMutation(ctx, entityProduct, domain.ActionUpdated, p.ID, p, err)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

// Delete 删除商品，不检查订单引用
func (uc *ProductUsecase) Delete(ctx context.Context, id int) error {
	if id < 0 {
		return domain.ErrProductNotFound
	}

	err := uc.repo.Delete(ctx, id)
	uc.notifier.recordMutation(ctx, entityProduct, domain.ActionDeleted, id, nil, err)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	uc.log.WithContext(ctx).Infof("product deleted: id=%d", id)
	return nil
}
