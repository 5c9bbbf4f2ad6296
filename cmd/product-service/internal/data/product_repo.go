package data

import (
	"context"
	"sort"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

type productRepo struct {
	data *Data
	log  *log.Helper
}

// NewProductRepo 创建商品仓储
func NewProductRepo(data *Data, logger log.Logger) domain.ProductRepository {
	return &productRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/product")),
	}
}

func (r *productRepo) List(ctx context.Context) (items []*domain.Product, err error) {
	err = r.data.View(ctx, func(doc *Document) error {
		items, err = doc.Products()
		return err
	})
	return items, err
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	var found *domain.Product
	err := r.data.View(ctx, func(doc *Document) error {
		products, err := doc.Products()
		if err != nil {
			return err
		}
		if i := indexOf(products, id, productID); i >= 0 {
			found = products[i]
			return nil
		}
		return domain.ErrProductNotFound
	})
	return found, err
}

// ListByCategory 指定分类的商品，按价格降序，同价保持文档顺序
func (r *productRepo) ListByCategory(ctx context.Context, categoryID int) ([]*domain.Product, error) {
	var items []*domain.Product
	err := r.data.View(ctx, func(doc *Document) error {
		products, err := doc.Products()
		if err != nil {
			return err
		}
		items = make([]*domain.Product, 0)
		for _, p := range products {
			if p.CategoryID == categoryID {
				items = append(items, p)
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price.GreaterThan(items[j].Price)
		})
		return nil
	})
	return items, err
}

// ListBelowQuantity 库存严格小于 quantity 的商品
func (r *productRepo) ListBelowQuantity(ctx context.Context, quantity int) ([]*domain.Product, error) {
	var items []*domain.Product
	err := r.data.View(ctx, func(doc *Document) error {
		products, err := doc.Products()
		if err != nil {
			return err
		}
		items = make([]*domain.Product, 0)
		for _, p := range products {
			if p.Quantity < quantity {
				items = append(items, p)
			}
		}
		return nil
	})
	return items, err
}

// GetDetails 指定商品的第一条联合视图行
func (r *productRepo) GetDetails(ctx context.Context, id int) (*domain.ProductWithCategoryAndSupplier, error) {
	var found *domain.ProductWithCategoryAndSupplier
	err := r.data.View(ctx, func(doc *Document) error {
		rows, err := joinProductDetails(doc, func(p *domain.Product) bool { return p.ID == id }, 1)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return domain.ErrProductDetailsNotFound
		}
		found = rows[0]
		return nil
	})
	return found, err
}

// ListDetails 全部联合视图行
func (r *productRepo) ListDetails(ctx context.Context) ([]*domain.ProductWithCategoryAndSupplier, error) {
	var items []*domain.ProductWithCategoryAndSupplier
	err := r.data.View(ctx, func(doc *Document) error {
		var err error
		items, err = joinProductDetails(doc, nil, 0)
		return err
	})
	return items, err
}

// ListByOrderCount 商品与订单内连接后按商品分组，保留订单数小于 threshold 的分组。
// 没有订单的商品不出现。
func (r *productRepo) ListByOrderCount(ctx context.Context, threshold int) ([]*domain.ProductOrderCount, error) {
	var items []*domain.ProductOrderCount
	err := r.data.View(ctx, func(doc *Document) error {
		products, err := doc.Products()
		if err != nil {
			return err
		}
		orders, err := doc.Orders()
		if err != nil {
			return err
		}

		counts := make(map[int]int, len(products))
		for _, o := range orders {
			counts[o.ProductID]++
		}

		items = make([]*domain.ProductOrderCount, 0)
		for _, p := range products {
			n := counts[p.ID]
			if n > 0 && n < threshold {
				items = append(items, &domain.ProductOrderCount{ProductID: p.ID, ProductName: p.Name, OrderCount: n})
			}
		}
		return nil
	})
	return items, err
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) (int, error) {
	var id int
	err := r.data.Update(ctx, func(doc *Document) (bool, error) {
		products, err := doc.Products()
		if err != nil {
			return false, err
		}
		id, err = doc.allocateID(elemProducts, maxID(products, productID))
		if err != nil {
			return false, err
		}
		record := *p
		record.ID = id
		doc.SetProducts(append(products, &record))
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	r.log.WithContext(ctx).Debugf("product %d appended", id)
	return id, nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		products, err := doc.Products()
		if err != nil {
			return false, err
		}
		i := indexOf(products, p.ID, productID)
		if i < 0 {
			return false, domain.ErrProductNotFound
		}
		record := *p
		products[i] = &record
		doc.SetProducts(products)
		return true, nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id int) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		products, err := doc.Products()
		if err != nil {
			return false, err
		}
		i := indexOf(products, id, productID)
		if i < 0 {
			return false, domain.ErrProductNotFound
		}
		doc.SetProducts(append(products[:i], products[i+1:]...))
		return true, nil
	})
}

// joinProductDetails Product -> Category -> Order -> Supplier 内连接。
// 行按商品文档顺序产出，同一商品内按分类、订单顺序展开；limit > 0 时最多返回 limit 行。
func joinProductDetails(doc *Document, match func(*domain.Product) bool, limit int) ([]*domain.ProductWithCategoryAndSupplier, error) {
	products, err := doc.Products()
	if err != nil {
		return nil, err
	}
	categories, err := doc.Categories()
	if err != nil {
		return nil, err
	}
	orders, err := doc.Orders()
	if err != nil {
		return nil, err
	}
	suppliers, err := doc.Suppliers()
	if err != nil {
		return nil, err
	}

	categoriesByID := groupByID(categories, categoryID)
	ordersByProduct := groupByID(orders, func(o *domain.Order) int { return o.ProductID })
	suppliersByID := groupByID(suppliers, supplierID)

	rows := make([]*domain.ProductWithCategoryAndSupplier, 0)
	for _, p := range products {
		if match != nil && !match(p) {
			continue
		}
		for _, c := range categoriesByID[p.CategoryID] {
			for _, o := range ordersByProduct[p.ID] {
				for _, s := range suppliersByID[o.SupplierID] {
					rows = append(rows, &domain.ProductWithCategoryAndSupplier{
						ProductName:  p.Name,
						CategoryName: c.Name,
						SupplierName: s.Name,
					})
					if limit > 0 && len(rows) >= limit {
						return rows, nil
					}
				}
			}
		}
	}
	return rows, nil
}

func productID(p *domain.Product) int { return p.ID }
