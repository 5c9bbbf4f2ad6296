package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

// CategoryUsecase 分类用例
type CategoryUsecase struct {
	repo     domain.CategoryRepository
	notifier *EventNotifier
	log      *log.Helper
}

// NewCategoryUsecase 创建分类用例
func NewCategoryUsecase(repo domain.CategoryRepository, notifier *EventNotifier, logger log.Logger) *CategoryUsecase {
	return &CategoryUsecase{
		repo:     repo,
		notifier: notifier,
		log:      log.NewHelper(log.With(logger, "module", "biz/category")),
	}
}

// List 全部分类
func (uc *CategoryUsecase) List(ctx context.Context) ([]*domain.Category, error) {
	return uc.repo.List(ctx)
}

// Get 按 Id 获取分类
func (uc *CategoryUsecase) Get(ctx context.Context, id int) (*domain.Category, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListWithProductCount 各分类的商品数量
func (uc *CategoryUsecase) ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithProductCount, error) {
	return uc.repo.ListWithProductCount(ctx)
}

// Create 创建分类，名称必须唯一
func (uc *CategoryUsecase) Create(ctx context.Context, c *domain.Category) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	id, err := uc.repo.Create(ctx, c)
	if err == nil {
		c.ID = id
	}
	uc.notifier.recordMutation(ctx, entityCategory, domain.ActionCreated, id, c, err)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}

	uc.log.WithContext(ctx).Infof("category created: id=%d name=%s", id, c.Name)
	return id, nil
}

// Update 按 Id 整体覆盖分类
func (uc *CategoryUsecase) Update(ctx context.Context, c *domain.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	err := uc.repo.Update(ctx, c)
	uc.notifier.recordMutation(ctx, entityCategory, domain.ActionUpdated, c.ID, c, err)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

// Delete 删除分类，不级联删除商品
func (uc *CategoryUsecase) Delete(ctx context.Context, id int) error {
	if id < 0 {
		return domain.ErrCategoryNotFound
	}

	err := uc.repo.Delete(ctx, id)
	uc.notifier.recordMutation(ctx, entityCategory, domain.ActionDeleted, id, nil, err)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}

	uc.log.WithContext(ctx).Infof("category deleted: id=%d", id)
	return nil
}
