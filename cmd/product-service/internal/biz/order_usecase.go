package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

// OrderUsecase 订单用例
type OrderUsecase struct {
	repo     domain.OrderRepository
	notifier *EventNotifier
	log      *log.Helper
}

// NewOrderUsecase 创建订单用例
func NewOrderUsecase(repo domain.OrderRepository, notifier *EventNotifier, logger log.Logger) *OrderUsecase {
	return &OrderUsecase{
		repo:     repo,
		notifier: notifier,
		log:      log.NewHelper(log.With(logger, "module", "biz/order")),
	}
}

// List 全部订单
func (uc *OrderUsecase) List(ctx context.Context) ([]*domain.Order, error) {
	return uc.repo.List(ctx)
}

// ListPage 订单分页
func (uc *OrderUsecase) ListPage(ctx context.Context, page, size int) ([]*domain.Order, error) {
	orders, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Paginate(orders, page, size), nil
}

// Get 按 Id 获取订单
func (uc *OrderUsecase) Get(ctx context.Context, id int) (*domain.Order, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListBySupplierAndStatus 按供应商与状态筛选
func (uc *OrderUsecase) ListBySupplierAndStatus(ctx context.Context, supplierID int, status string) ([]*domain.Order, error) {
	return uc.repo.ListBySupplierAndStatus(ctx, supplierID, status)
}

// ListByDateRange 下单时间位于 (start, end) 的订单
func (uc *OrderUsecase) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	return uc.repo.ListByDateRange(ctx, start, end)
}

// Create 创建订单，不校验商品与供应商是否存在
func (uc *OrderUsecase) Create(ctx context.Context, o *domain.Order) (int, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	id, err := uc.repo.Create(ctx, o)
	if err == nil {
		o.ID = id
	}
	uc.notifier.recordMutation(ctx, entityOrder, domain.ActionCreated, id, o, err)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	uc.log.WithContext(ctx).Infof("order created: id=%d product=%d supplier=%d", id, o.ProductID, o.SupplierID)
	return id, nil
}

// Update 按 Id 整体覆盖订单
func (uc *OrderUsecase) Update(ctx context.Context, o *domain.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	err := uc.repo.Update(ctx, o)
	uc.notifier.recordMutation(ctx, entityOrder, domain.ActionUpdated, o.ID, o, err)
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	return nil
}

// Delete 删除订单
func (uc *OrderUsecase) Delete(ctx context.Context, id int) error {
	if id < 0 {
		return domain.ErrOrderNotFound
	}

	err := uc.repo.Delete(ctx, id)
	uc.notifier.recordMutation(ctx, entityOrder, domain.ActionDeleted, id, nil, err)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}

	uc.log.WithContext(ctx).Infof("order deleted: id=%d", id)
	return nil
}
