package data

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

type orderRepo struct {
	data *Data
	log  *log.Helper
}

// NewOrderRepo 创建订单仓储
func NewOrderRepo(data *Data, logger log.Logger) domain.OrderRepository {
	return &orderRepo{
		data: data,
		log:  log.NewHelper(log.With(logger, "module", "data/order")),
	}
}

func (r *orderRepo) List(ctx context.Context) (items []*domain.Order, err error) {
	err = r.data.View(ctx, func(doc *Document) error {
		items, err = doc.Orders()
		return err
	})
	return items, err
}

func (r *orderRepo) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	var found *domain.Order
	err := r.data.View(ctx, func(doc *Document) error {
		orders, err := doc.Orders()
		if err != nil {
			return err
		}
		if i := indexOf(orders, id, orderID); i >= 0 {
			found = orders[i]
			return nil
		}
		return domain.ErrOrderNotFound
	})
	return found, err
}

// ListBySupplierAndStatus 供应商与状态均精确匹配的订单
func (r *orderRepo) ListBySupplierAndStatus(ctx context.Context, supplierID int, status string) ([]*domain.Order, error) {
	return r.filter(ctx, func(o *domain.Order) bool {
		return o.SupplierID == supplierID && o.Status == status
	})
}

// ListByDateRange 下单时间严格位于 (start, end) 之间的订单
func (r *orderRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	return r.filter(ctx, func(o *domain.Order) bool {
		return o.OrderDate.After(start) && o.OrderDate.Before(end)
	})
}

func (r *orderRepo) filter(ctx context.Context, keep func(*domain.Order) bool) ([]*domain.Order, error) {
	var items []*domain.Order
	err := r.data.View(ctx, func(doc *Document) error {
		orders, err := doc.Orders()
		if err != nil {
			return err
		}
		items = make([]*domain.Order, 0)
		for _, o := range orders {
			if keep(o) {
				items = append(items, o)
			}
		}
		return nil
	})
	return items, err
}

func (r *orderRepo) Create(ctx context.Context, o *domain.Order) (int, error) {
	var id int
	err := r.data.Update(ctx, func(doc *Document) (bool, error) {
		orders, err := doc.Orders()
		if err != nil {
			return false, err
		}
		id, err = doc.allocateID(elemOrders, maxID(orders, orderID))
		if err != nil {
			return false, err
		}
		record := *o
		record.ID = id
		doc.SetOrders(append(orders, &record))
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	r.log.WithContext(ctx).Debugf("order %d appended", id)
	return id, nil
}

func (r *orderRepo) Update(ctx context.Context, o *domain.Order) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		orders, err := doc.Orders()
		if err != nil {
			return false, err
		}
		i := indexOf(orders, o.ID, orderID)
		if i < 0 {
			return false, domain.ErrOrderNotFound
		}
		record := *o
		orders[i] = &record
		doc.SetOrders(orders)
		return true, nil
	})
}

func (r *orderRepo) Delete(ctx context.Context, id int) error {
	return r.data.Update(ctx, func(doc *Document) (bool, error) {
		orders, err := doc.Orders()
		if err != nil {
			return false, err
		}
		i := indexOf(orders, id, orderID)
		if i < 0 {
			return false, domain.ErrOrderNotFound
		}
		doc.SetOrders(append(orders[:i], orders[i+1:]...))
		return true, nil
	})
}

func orderID(o *domain.Order) int { return o.ID }
