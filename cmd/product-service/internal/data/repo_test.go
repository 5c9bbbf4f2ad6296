package data

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productmanagement/cmd/product-service/internal/domain"
)

func TestCategoryRepo_CreateAssignsSequentialIDs(t *testing.T) {
	d, _ := newTestData(t)
	repo := NewCategoryRepo(d, testLogger())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		id, err := repo.Create(ctx, &domain.Category{Name: fmt.Sprintf("category-%d", i)})
		require.NoError(t, err)
		assert.Equal(t, i, id)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i, c := range items {
		assert.Equal(t, i+1, c.ID)
	}
}

func TestCategoryRepo_DeletedIDsAreNotReused(t *testing.T) {
	d, fs := newTestData(t)
	repo := NewCategoryRepo(d, testLogger())
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Category{Name: "Tools"})
	require.NoError(t, err)
	id, err := repo.Create(ctx, &domain.Category{Name: "Garden"})
	require.NoError(t, err)
	require.Equal(t, 2, id)

	require.NoError(t, repo.Delete(ctx, 2))
	assert.Contains(t, string(readDocument(t, fs)), `<Categories NextId="3">`)

	id, err = repo.Create(ctx, &domain.Category{Name: "Paint"})
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestCategoryRepo_LegacyDocumentWithoutNextID(t *testing.T) {
	content := `<Source><Categories>` +
		`<Category><Id>1</Id><Name>Tools</Name><Description></Description></Category>` +
		`<Category><Id>5</Id><Name>Garden</Name><Description></Description></Category>` +
		`<Category><Id>2</Id><Name>Paint</Name><Description></Description></Category>` +
		`</Categories></Source>`
	d, _ := newTestDataWithContent(t, content)
	repo := NewCategoryRepo(d, testLogger())

	id, err := repo.Create(context.Background(), &domain.Category{Name: "Lighting"})
	require.NoError(t, err)
	assert.Equal(t, 6, id)
}

func TestCategoryRepo_NameUniqueness(t *testing.T) {
	d, fs := newTestData(t)
	repo := NewCategoryRepo(d, testLogger())
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Category{Name: "Tools"})
	require.NoError(t, err)
	before := readDocument(t, fs)

	_, err = repo.Create(ctx, &domain.Category{Name: "Tools", Description: "again"})
	assert.ErrorIs(t, err, domain.ErrCategoryNameExists)
	assert.Equal(t, before, readDocument(t, fs))

	// 大小写敏感
	_, err = repo.Create(ctx, &domain.Category{Name: "tools"})
	assert.NoError(t, err)
}

func TestRepos_NotFoundLeavesDocumentUnchanged(t *testing.T) {
	d, fs := newTestData(t)
	ctx := context.Background()
	categories := NewCategoryRepo(d, testLogger())
	products := NewProductRepo(d, testLogger())
	suppliers := NewSupplierRepo(d, testLogger())
	orders := NewOrderRepo(d, testLogger())

	_, err := categories.Create(ctx, &domain.Category{Name: "Tools"})
	require.NoError(t, err)
	before := readDocument(t, fs)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"update category", func() error { return categories.Update(ctx, &domain.Category{ID: 99, Name: "x"}) }, domain.ErrCategoryNotFound},
		{"delete category", func() error { return categories.Delete(ctx, 99) }, domain.ErrCategoryNotFound},
		{"update product", func() error { return products.Update(ctx, &domain.Product{ID: 99}) }, domain.ErrProductNotFound},
		{"delete product", func() error { return products.Delete(ctx, 99) }, domain.ErrProductNotFound},
		{"update supplier", func() error { return suppliers.Update(ctx, &domain.Supplier{ID: 99}) }, domain.ErrSupplierNotFound},
		{"delete supplier", func() error { return suppliers.Delete(ctx, 99) }, domain.ErrSupplierNotFound},
		{"update order", func() error { return orders.Update(ctx, &domain.Order{ID: 99}) }, domain.ErrOrderNotFound},
		{"delete order", func() error { return orders.Delete(ctx, 99) }, domain.ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.want)
			assert.Equal(t, before, readDocument(t, fs))
		})
	}
}

func TestCategoryRepo_UpdateAndDelete(t *testing.T) {
	d, _ := newTestData(t)
	repo := NewCategoryRepo(d, testLogger())
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.Category{Name: "Tools"})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, &domain.Category{ID: id, Name: "Hand Tools", Description: "updated"}))
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &domain.Category{ID: id, Name: "Hand Tools", Description: "updated"}, got)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestSupplierRepo_EmailUniqueness(t *testing.T) {
	d, fs := newTestData(t)
	repo := NewSupplierRepo(d, testLogger())
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Supplier{Name: "Acme", Email: "sales@acme.test"})
	require.NoError(t, err)
	before := readDocument(t, fs)

	_, err = repo.Create(ctx, &domain.Supplier{Name: "Acme 2", Email: "sales@acme.test"})
	assert.ErrorIs(t, err, domain.ErrSupplierEmailExists)
	assert.Equal(t, before, readDocument(t, fs))
}

// seedHardware Tools / Hammer / Acme 场景
func seedHardware(t *testing.T, d *Data) {
	t.Helper()
	ctx := context.Background()

	_, err := NewCategoryRepo(d, testLogger()).Create(ctx, &domain.Category{Name: "Tools", Description: "hand tools"})
	require.NoError(t, err)
	_, err = NewCategoryRepo(d, testLogger()).Create(ctx, &domain.Category{Name: "Garden"})
	require.NoError(t, err)

	products := NewProductRepo(d, testLogger())
	for _, p := range []*domain.Product{
		{Name: "Hammer", Quantity: 3, Price: decimal.RequireFromString("9.99"), CategoryID: 1},
		{Name: "Wrench", Quantity: 12, Price: decimal.RequireFromString("14.50"), CategoryID: 1},
		{Name: "Pliers", Quantity: 3, Price: decimal.RequireFromString("9.99"), CategoryID: 1},
		{Name: "Orphan", Quantity: 1, Price: decimal.RequireFromString("1"), CategoryID: 42},
	} {
		_, err := products.Create(ctx, p)
		require.NoError(t, err)
	}

	suppliers := NewSupplierRepo(d, testLogger())
	_, err = suppliers.Create(ctx, &domain.Supplier{Name: "Acme", Email: "sales@acme.test"})
	require.NoError(t, err)
	_, err = suppliers.Create(ctx, &domain.Supplier{Name: "Globex", Email: "hi@globex.test"})
	require.NoError(t, err)

	orders := NewOrderRepo(d, testLogger())
	for _, o := range []*domain.Order{
		{ProductID: 1, Quantity: 2, OrderDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), SupplierID: 1, Status: "Pending"},
		{ProductID: 1, Quantity: 1, OrderDate: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), SupplierID: 1, Status: "Shipped"},
		{ProductID: 2, Quantity: 5, OrderDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), SupplierID: 2, Status: "Pending"},
		{ProductID: 3, Quantity: 5, OrderDate: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), SupplierID: 1, Status: "Pending"},
	} {
		_, err := orders.Create(ctx, o)
		require.NoError(t, err)
	}
}

func TestProductRepo_Queries(t *testing.T) {
	d, _ := newTestData(t)
	seedHardware(t, d)
	repo := NewProductRepo(d, testLogger())
	ctx := context.Background()

	t.Run("GetDetails", func(t *testing.T) {
		got, err := repo.GetDetails(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, &domain.ProductWithCategoryAndSupplier{ProductName: "Hammer", CategoryName: "Tools", SupplierName: "Acme"}, got)
	})

	t.Run("GetDetails_NoJoinedRow", func(t *testing.T) {
		_, err := repo.GetDetails(ctx, 4)
		assert.ErrorIs(t, err, domain.ErrProductDetailsNotFound)
	})

	t.Run("ListDetails", func(t *testing.T) {
		rows, err := repo.ListDetails(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "Hammer", rows[0].ProductName)
		assert.Equal(t, "Hammer", rows[1].ProductName)
		assert.Equal(t, "Wrench", rows[2].ProductName)
		assert.Equal(t, "Globex", rows[2].SupplierName)
		assert.Equal(t, "Pliers", rows[3].ProductName)
	})

	t.Run("ListByCategory", func(t *testing.T) {
		items, err := repo.ListByCategory(ctx, 1)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Wrench", items[0].Name)
		assert.Equal(t, "Hammer", items[1].Name)
		assert.Equal(t, "Pliers", items[2].Name)
	})

	t.Run("ListByCategory_Empty", func(t *testing.T) {
		items, err := repo.ListByCategory(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	t.Run("ListBelowQuantity", func(t *testing.T) {
		items, err := repo.ListBelowQuantity(ctx, 5)
		require.NoError(t, err)
		names := make([]string, 0, len(items))
		for _, p := range items {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"Hammer", "Pliers", "Orphan"}, names)
	})

	t.Run("ListByOrderCount", func(t *testing.T) {
		items, err := repo.ListByOrderCount(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []*domain.ProductOrderCount{
			{ProductID: 2, ProductName: "Wrench", OrderCount: 1},
			{ProductID: 3, ProductName: "Pliers", OrderCount: 1},
		}, items)

		items, err = repo.ListByOrderCount(ctx, domain.DefaultOrderCountThreshold)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("Price", func(t *testing.T) {
		p, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("14.5").Equal(p.Price))
	})
}

func TestCategoryRepo_ListWithProductCount(t *testing.T) {
	d, _ := newTestData(t)
	seedHardware(t, d)

	items, err := NewCategoryRepo(d, testLogger()).ListWithProductCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*domain.CategoryWithProductCount{{CategoryName: "Tools", ProductCount: 3}}, items)
}

func TestSupplierRepo_ListByProductQuantity(t *testing.T) {
	d, _ := newTestData(t)
	seedHardware(t, d)
	repo := NewSupplierRepo(d, testLogger())
	ctx := context.Background()

	items, err := repo.ListByProductQuantity(ctx, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].Name)

	items, err = repo.ListByProductQuantity(ctx, 12)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Globex", items[0].Name)

	items, err = repo.ListByProductQuantity(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderRepo_Queries(t *testing.T) {
	d, _ := newTestData(t)
	seedHardware(t, d)
	repo := NewOrderRepo(d, testLogger())
	ctx := context.Background()

	t.Run("BySupplierAndStatus", func(t *testing.T) {
		items, err := repo.ListBySupplierAndStatus(ctx, 1, "Pending")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].ID)
		assert.Equal(t, 4, items[1].ID)

		items, err = repo.ListBySupplierAndStatus(ctx, 1, "pending")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("ByDateRangeExclusive", func(t *testing.T) {
		items, err := repo.ListByDateRange(ctx,
			time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].ID)
	})

	t.Run("OrderDateRoundTrip", func(t *testing.T) {
		o, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).Equal(o.OrderDate))
		assert.Equal(t, "Pending", o.Status)
	})
}

func TestCategoryRepo_ConcurrentCreate(t *testing.T) {
	d, _ := newTestData(t)
	repo := NewCategoryRepo(d, testLogger())
	ctx := context.Background()

	const n = 20
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Create(ctx, &domain.Category{Name: fmt.Sprintf("category-%d", i)})
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, n)
}

func TestRepos_CreateThenGetRoundTrip(t *testing.T) {
	d, _ := newTestData(t)
	ctx := context.Background()
	text := "  Tools & <Hardware> \"quoted\" 'single'  "

	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{
			name: "Category",
			check: func(t *testing.T) {
				repo := NewCategoryRepo(d, testLogger())
				in := domain.Category{Name: text, Description: "a < b && c > d\n"}
				id, err := repo.Create(ctx, &domain.Category{Name: in.Name, Description: in.Description})
				require.NoError(t, err)

				got, err := repo.GetByID(ctx, id)
				require.NoError(t, err)
				in.ID = id
				assert.Equal(t, in, *got)
			},
		},
		{
			name: "Product",
			check: func(t *testing.T) {
				repo := NewProductRepo(d, testLogger())
				in := domain.Product{
					Name:        text,
					Description: " 3/4\" <bit> & driver ",
					Quantity:    42,
					Price:       decimal.RequireFromString("1234.5678"),
					CategoryID:  7,
				}
				cp := in
				id, err := repo.Create(ctx, &cp)
				require.NoError(t, err)

				got, err := repo.GetByID(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, in.Name, got.Name)
				assert.Equal(t, in.Description, got.Description)
				assert.Equal(t, in.Quantity, got.Quantity)
				assert.True(t, in.Price.Equal(got.Price), "price %s != %s", in.Price, got.Price)
				assert.Equal(t, in.CategoryID, got.CategoryID)
			},
		},
		{
			name: "Supplier",
			check: func(t *testing.T) {
				repo := NewSupplierRepo(d, testLogger())
				in := domain.Supplier{
					Name:          text,
					ContactPerson: " O'Brien & Sons ",
					Email:         "orders+<tools>@acme.example",
					Phone:         " +1 (555) 0100 ",
				}
				cp := in
				id, err := repo.Create(ctx, &cp)
				require.NoError(t, err)

				got, err := repo.GetByID(ctx, id)
				require.NoError(t, err)
				in.ID = id
				assert.Equal(t, in, *got)
			},
		},
		{
			name: "Order",
			check: func(t *testing.T) {
				repo := NewOrderRepo(d, testLogger())
				zone := time.FixedZone("UTC+5:30", 5*3600+1800)
				in := domain.Order{
					ProductID:  3,
					Quantity:   12,
					OrderDate:  time.Date(2024, 2, 29, 23, 15, 30, 123456789, zone),
					SupplierID: 9,
					Status:     " shipped & <billed> ",
				}
				cp := in
				id, err := repo.Create(ctx, &cp)
				require.NoError(t, err)

				got, err := repo.GetByID(ctx, id)
				require.NoError(t, err)
				assert.True(t, in.OrderDate.Equal(got.OrderDate), "order date %s != %s", in.OrderDate, got.OrderDate)

				want := in
				want.ID = id
				want.OrderDate = got.OrderDate
				assert.Equal(t, want, *got)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}
