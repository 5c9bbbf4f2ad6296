package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

// SupplierUsecase 供应商用例
type SupplierUsecase struct {
	repo     domain.SupplierRepository
	notifier *EventNotifier
	log      *log.Helper
}

// NewSupplierUsecase 创建供应商用例
func NewSupplierUsecase(repo domain.SupplierRepository, notifier *EventNotifier, logger log.Logger) *SupplierUsecase {
	return &SupplierUsecase{
		repo:     repo,
		notifier: notifier,
		log:      log.NewHelper(log.With(logger, "module", "biz/supplier")),
	}
}

// List 全部供应商
func (uc *SupplierUsecase) List(ctx context.Context) ([]*domain.Supplier, error) {
	return uc.repo.List(ctx)
}

// Get 按 Id 获取供应商
func (uc *SupplierUsecase) Get(ctx context.Context, id int) (*domain.Supplier, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListByProductQuantity 供应过库存恰为 quantity 的商品的供应商
func (uc *SupplierUsecase) ListByProductQuantity(ctx context.Context, quantity int) ([]*domain.Supplier, error) {
	return uc.repo.ListByProductQuantity(ctx, quantity)
}

// Create 创建供应商，邮箱必须唯一
func (uc *SupplierUsecase) Create(ctx context.Context, s *domain.Supplier) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	id, err := uc.repo.Create(ctx, s)
	if err == nil {
		s.ID = id
	}
	uc.notifier.recordMutation(ctx, entitySupplier, domain.ActionCreated, id, s, err)
	if err != nil {
		return 0, fmt.Errorf("create supplier: %w", err)
	}

	uc.log.WithContext(ctx).Infof("supplier created: id=%d name=%s", id, s.Name)
	return id, nil
}

// Update 按 Id 整体覆盖供应商
func (uc *SupplierUsecase) Update(ctx context.Context, s *domain.Supplier) error {
	if err := s.Validate(); err != nil {
		return err
	}

	err := uc.repo.Update(ctx, s)
	uc.notifier.recordMutation(ctx, entitySupplier, domain.ActionUpdated, s.ID, s, err)
	if err != nil {
		return fmt.Errorf("update supplier %d: %w", s.ID, err)
	}
	return nil
}

// Delete 删除供应商
func (uc *SupplierUsecase) Delete(ctx context.Context, id int) error {
	if id < 0 {
		return domain.ErrSupplierNotFound
	}

	err := uc.repo.Delete(ctx, id)
	uc.notifier.recordMutation(ctx, entitySupplier, domain.ActionDeleted, id, nil, err)
	if err != nil {
		return fmt.Errorf("delete supplier %d: %w", id, err)
	}

	uc.log.WithContext(ctx).Infof("supplier deleted: id=%d", id)
	return nil
}
