package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

type categoryRepo struct {
	data *Data
	log  *log.Helper
}

// NewCategoryRepo 创建分类仓储
func NewCategoryRepo(data *Data, logger log.Logger) domain.CategoryRepository {
	return &categoryRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/category")),
	}
}

func (r *categoryRepo) List(ctx context.Context) (items []*domain.Category, err error) {
	err = r.data.View(ctx, func(doc *Document) error {
		items, err = doc.Categories()
		return err
	})
	return items, err
}

func (r *categoryRepo) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	var found *domain.Category
	err := r.data.View(ctx, func(doc *Document) error {
		categories, err := doc.Categories()
		if err != nil {
			return err
		}
		if i := indexOf(categories, id, categoryID); i >= 0 {
			found = categories[i]
			return nil
		}
		return domain.ErrCategoryNotFound
	})
	return found, err
}

// ListWithProductCount 分类与商品内连接后按分类分组计数，无商品的分类不出现
func (r *categoryRepo) ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithProductCount, error) {
	var items []*domain.CategoryWithProductCount
	err := r.data.View(ctx, func(doc *Document) error {
		categories, err := doc.Categories()
		if err != nil {
			return err
		}
		products, err := doc.Products()
		if err != nil {
			return err
		}

		counts := make(map[int]int, len(categories))
		for _, p := range products {
			counts[p.CategoryID]++
		}

		items = make([]*domain.CategoryWithProductCount, 0, len(categories))
		for _, c := range categories {
			if n := counts[c.ID]; n > 0 {
				items = append(items, &domain.CategoryWithProductCount{CategoryName: c.Name, ProductCount: n})
			}
		}
		return nil
	})
	return items, err
}

func (r *categoryRepo) Create(ctx context.Context, c *domain.Category) (int, error) {
	var id int
	err := r.data.Update(ctx, func(doc *Document) (bool, error) {
		categories, err := doc.Categories()
		if err != nil {
			return false, err
		}
		for _, existing := range categories {
			if existing.Name == c.Name {
				return false, domain.ErrCategoryNameExists
			}
		}

		id, err = doc.allocateID(elemCategories, maxID(categories, categoryID))
		if err != nil {
			return false, err
		}
		record := *c
		record.ID = id
		doc.SetCategories(append(categories, &record))
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	r.log.WithContext(ctx).Debugf("category %d appended", id)
	return id, nil
}

func (r *categoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		categories, err := doc.Categories()
		if err != nil {
			return false, err
		}
		i := indexOf(categories, c.ID, categoryID)
		if i < 0 {
			return false, domain.ErrCategoryNotFound
		}
		record := *c
		categories[i] = &record
		doc.SetCategories(categories)
		return true, nil
	})
}

func (r *categoryRepo) Delete(ctx context.Context, id int) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		categories, err := doc.Categories()
		if err != nil {
			return false, err
		}
		i := indexOf(categories, id, categoryID)
		if i < 0 {
			return false, domain.ErrCategoryNotFound
		}
		doc.SetCategories(append(categories[:i], categories[i+1:]...))
		return true, nil
	})
}

func categoryID(c *domain.Category) int { return c.ID }
