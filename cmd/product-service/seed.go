package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"productmanagement/cmd/product-service/internal/domain"
	"productmanagement/cmd/product-service/internal/service"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load records from a YAML fixture file into the data document",
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()

		fx, err := loadFixtures(f)
		if err != nil {
			return err
		}

		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		app, cleanup, err := wireApp(cfg, withTraceFields(logger))
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := fx.apply(cmd.Context(), app.catalog)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records into %s\n", n, cfg.Data.PathData)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "configs/fixtures.yaml", "fixture file")
}

// fixtures 种子数据，引用字段（categoryId 等）按写入后的 id 填写
type fixtures struct {
	Categories []categoryFixture `yaml:"categories"`
	Suppliers  []supplierFixture `yaml:"suppliers"`
	Products   []productFixture  `yaml:"products"`
	Orders     []orderFixture    `yaml:"orders"`
}

type categoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type supplierFixture struct {
	Name          string `yaml:"name"`
	ContactPerson string `yaml:"contactPerson"`
	Email         string `yaml:"email"`
	Phone         string `yaml:"phone"`
}

type productFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Quantity    int    `yaml:"quantity"`
	// Price 以字符串书写，避免浮点误差
	Price      string `yaml:"price"`
	CategoryID int    `yaml:"categoryId"`
}

type orderFixture struct {
	ProductID  int    `yaml:"productId"`
	Quantity   int    `yaml:"quantity"`
	OrderDate  string `yaml:"orderDate"`
	SupplierID int    `yaml:"supplierId"`
	Status     string `yaml:"status"`
}

// seedRecords 种子数据转换后的领域记录
type seedRecords struct {
	categories []*domain.Category
	suppliers  []*domain.Supplier
	products   []*domain.Product
	orders     []*domain.Order
}

func loadFixtures(r io.Reader) (*seedRecords, error) {
	var fx fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	out := &seedRecords{}
	for _, c := range fx.Categories {
		out.categories = append(out.categories, &domain.Category{Name: c.Name, Description: c.Description})
	}
	for _, s := range fx.Suppliers {
		out.suppliers = append(out.suppliers, &domain.Supplier{
			Name:          s.Name,
			ContactPerson: s.ContactPerson,
			Email:         s.Email,
			Phone:         s.Phone,
		})
	}
	for i, p := range fx.Products {
		price := decimal.Zero
		if p.Price != "" {
			var err error
			if price, err = decimal.NewFromString(p.Price); err != nil {
				return nil, fmt.Errorf("products[%d].price: %w", i, err)
			}
		}
		out.products = append(out.products, &domain.Product{
			Name:        p.Name,
			Description: p.Description,
			Quantity:    p.Quantity,
			Price:       price,
			CategoryID:  p.CategoryID,
		})
	}
	for i, o := range fx.Orders {
		date, err := domain.ParseTimestamp(o.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("orders[%d].orderDate: %w", i, err)
		}
		out.orders = append(out.orders, &domain.Order{
			ProductID:  o.ProductID,
			Quantity:   o.Quantity,
			OrderDate:  date,
			SupplierID: o.SupplierID,
			Status:     o.Status,
		})
	}
	return out, nil
}

// apply 按分类、供应商、商品、订单的顺序写入，返回写入条数
func (r *seedRecords) apply(ctx context.Context, catalog *service.CatalogService) (int, error) {
	n := 0
	for _, c := range r.categories {
		if _, err := catalog.CreateCategory(ctx, c); err != nil {
			return n, fmt.Errorf("create category %q: %w", c.Name, err)
		}
		n++
	}
	for _, s := range r.suppliers {
		if _, err := catalog.CreateSupplier(ctx, s); err != nil {
			return n, fmt.Errorf("create supplier %q: %w", s.Name, err)
		}
		n++
	}
	for _, p := range r.products {
		if _, err := catalog.CreateProduct(ctx, p); err != nil {
			return n, fmt.Errorf("create product %q: %w", p.Name, err)
		}
		n++
	}
	for _, o := range r.orders {
		if _, err := catalog.CreateOrder(ctx, o); err != nil {
			return n, fmt.Errorf("create order for product %d: %w", o.ProductID, err)
		}
		n++
	}
	return n, nil
}
