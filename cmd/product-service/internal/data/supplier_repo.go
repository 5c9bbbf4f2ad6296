package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

type supplierRepo struct {
	data *Data
	log  *log.Helper
}

// NewSupplierRepo 创建供应商仓储
func NewSupplierRepo(data *Data, logger log.Logger) domain.SupplierRepository {
	return &supplierRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/supplier")),
	}
}

func (r *supplierRepo) List(ctx context.Context) (items []*domain.Supplier, err error) {
	err = r.data.View(ctx, func(doc *Document) error {
		items, err = doc.Suppliers()
		return err
	})
	return items, err
}

func (r *supplierRepo) GetByID(ctx context.Context, id int) (*domain.Supplier, error) {
	var found *domain.Supplier
	err := r.data.View(ctx, func(doc *Document) error {
		suppliers, err := doc.Suppliers()
		if err != nil {
			return err
		}
		if i := indexOf(suppliers, id, supplierID); i >= 0 {
			found = suppliers[i]
			return nil
		}
		return domain.ErrSupplierNotFound
	})
	return found, err
}

// ListByProductQuantity 通过订单关联到库存恰为 quantity 的商品的供应商，
// 每个供应商只出现一次，按首次匹配顺序。
func (r *supplierRepo) ListByProductQuantity(ctx context.Context, quantity int) ([]*domain.Supplier, error) {
	var items []*domain.Supplier
	err := r.data.View(ctx, func(doc *Document) error {
		suppliers, err := doc.Suppliers()
		if err != nil {
			return err
		}
		orders, err := doc.Orders()
		if err != nil {
			return err
		}
		products, err := doc.Products()
		if err != nil {
			return err
		}

		matched := make(map[int]bool)
		for _, p := range products {
			if p.Quantity == quantity {
				matched[p.ID] = true
			}
		}
		ordersBySupplier := groupByID(orders, func(o *domain.Order) int { return o.SupplierID })

		items = make([]*domain.Supplier, 0)
		seen := make(map[int]bool)
		for _, s := range suppliers {
			if seen[s.ID] {
				continue
			}
			for _, o := range ordersBySupplier[s.ID] {
				if matched[o.ProductID] {
					seen[s.ID] = true
					items = append(items, s)
					break
				}
			}
		}
		return nil
	})
	return items, err
}

func (r *supplierRepo) Create(ctx context.Context, s *domain.Supplier) (int, error) {
	var id int
	err := r.data.Update(ctx, func(doc *Document) (bool, error) {
		suppliers, err := doc.Suppliers()
		if err != nil {
			return false, err
		}
		for _, existing := range suppliers {
			if existing.Email == s.Email {
				return false, domain.ErrSupplierEmailExists
			}
		}

		id, err = doc.allocateID(elemSuppliers, maxID(suppliers, supplierID))
		if err != nil {
			return false, err
		}
		record := *s
		record.ID = id
		doc.SetSuppliers(append(suppliers, &record))
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	r.log.WithContext(ctx).Debugf("supplier %d appended", id)
	return id, nil
}

func (r *supplierRepo) Update(ctx context.Context, s *domain.Supplier) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		suppliers, err := doc.Suppliers()
		if err != nil {
			return false, err
		}
		i := indexOf(suppliers, s.ID, supplierID)
		if i < 0 {
			return false, domain.ErrSupplierNotFound
		}
		record := *s
		suppliers[i] = &record
		doc.SetSuppliers(suppliers)
		return true, nil
	})
}

func (r *supplierRepo) Delete(ctx context.Context, id int) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		suppliers, err := doc.Suppliers()
		if err != nil {
			return false, err
		}
		i := indexOf(suppliers, id, supplierID)
		if i < 0 {
			return false, domain.ErrSupplierNotFound
		}
		doc.SetSuppliers(append(suppliers[:i], suppliers[i+1:]...))
		return true, nil
	})
}

func supplierID(s *domain.Supplier) int { return s.ID }
