package biz

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/domain"
)

func testLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

type fakeCategoryRepo struct {
	ListFunc                 func(ctx context.Context) ([]*domain.Category, error)
	GetByIDFunc              func(ctx context.Context, id int) (*domain.Category, error)
	ListWithProductCountFunc func(ctx context.Context) ([]*domain.CategoryWithProductCount, error)
	CreateFunc               func(ctx context.Context, c *domain.Category) (int, error)
	UpdateFunc               func(ctx context.Context, c *domain.Category) error
	DeleteFunc               func(ctx context.Context, id int) error
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	return f.ListFunc(ctx)
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeCategoryRepo) ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithProductCount, error) {
	return f.ListWithProductCountFunc(ctx)
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) (int, error) {
	return f.CreateFunc(ctx, c)
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return f.UpdateFunc(ctx, c)
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int) error {
	return f.DeleteFunc(ctx, id)
}

type fakeProductRepo struct {
	domain.ProductRepository
	ListDetailsFunc      func(ctx context.Context) ([]*domain.ProductWithCategoryAndSupplier, error)
	ListByOrderCountFunc func(ctx context.Context, threshold int) ([]*domain.ProductOrderCount, error)
	CreateFunc           func(ctx context.Context, p *domain.Product) (int, error)
}

func (f *fakeProductRepo) ListDetails(ctx context.Context) ([]*domain.ProductWithCategoryAndSupplier, error) {
	return f.ListDetailsFunc(ctx)
}

func (f *fakeProductRepo) ListByOrderCount(ctx context.Context, threshold int) ([]*domain.ProductOrderCount, error) {
	return f.ListByOrderCountFunc(ctx, threshold)
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domain.Product) (int, error) {
	return f.CreateFunc(ctx, p)
}

type fakeOrderRepo struct {
	domain.OrderRepository
	ListFunc            func(ctx context.Context) ([]*domain.Order, error)
	ListByDateRangeFunc func(ctx context.Context, start, end time.Time) ([]*domain.Order, error)
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	return f.ListFunc(ctx)
}

func (f *fakeOrderRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	return f.ListByDateRangeFunc(ctx, start, end)
}

type fakeSupplierRepo struct {
	domain.SupplierRepository
	CreateFunc func(ctx context.Context, s *domain.Supplier) (int, error)
	DeleteFunc func(ctx context.Context, id int) error
}

func (f *fakeSupplierRepo) Create(ctx context.Context, s *domain.Supplier) (int, error) {
	return f.CreateFunc(ctx, s)
}

func (f *fakeSupplierRepo) Delete(ctx context.Context, id int) error {
	return f.DeleteFunc(ctx, id)
}

// recordingPublisher 记录已发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.CatalogEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type())
	}
	return types
}
