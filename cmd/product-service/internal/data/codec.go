package data

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"productmanagement/cmd/product-service/internal/domain"
)

type xmlCategory struct {
	ID          *string `xml:"Id"`
	Name        *string `xml:"Name"`
	Description *string `xml:"Description"`
}

type xmlProduct struct {
	ID          *string `xml:"Id"`
	Name        *string `xml:"Name"`
	Description *string `xml:"Description"`
	Quantity    *string `xml:"Quantity"`
	Price       *string `xml:"Price"`
	CategoryID  *string `xml:"CategoryId"`
}

type xmlSupplier struct {
	ID            *string `xml:"Id"`
	Name          *string `xml:"Name"`
	ContactPerson *string `xml:"ContactPerson"`
	Email         *string `xml:"Email"`
	Phone         *string `xml:"Phone"`
}

type xmlOrder struct {
	ID         *string `xml:"Id"`
	ProductID  *string `xml:"ProductId"`
	Quantity   *string `xml:"Quantity"`
	OrderDate  *string `xml:"OrderDate"`
	SupplierID *string `xml:"SupplierId"`
	Status     *string `xml:"Status"`
}

// fieldReader 逐字段解码，保留第一个错误
type fieldReader struct {
	collection string
	index      int
	id         string
	err        error
}

func newFieldReader(collection string, index int, id *string) *fieldReader {
	r := &fieldReader{collection: collection, index: index}
	if id != nil {
		r.id = strings.TrimSpace(*id)
	}
	return r
}

func (r *fieldReader) fail(field, value string, err error) {
	if r.err != nil {
		return
	}
	r.err = &domain.FormatError{
		Collection: r.collection,
		Index:      r.index,
		ID:         r.id,
		Field:      field,
		Value:      value,
		Err:        err,
	}
}

func (r *fieldReader) str(field string, v *string) string {
	if v == nil {
		r.fail(field, "", nil)
		return ""
	}
	return *v
}

func (r *fieldReader) integer(field string, v *string) int {
	if v == nil {
		r.fail(field, "", nil)
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		r.fail(field, *v, err)
		return 0
	}
	return n
}

func (r *fieldReader) price(field string, v *string) decimal.Decimal {
	if v == nil {
		r.fail(field, "", nil)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*v))
	if err != nil {
		r.fail(field, *v, err)
		return decimal.Zero
	}
	return d
}

func (r *fieldReader) timestamp(field string, v *string) time.Time {
	if v == nil {
		r.fail(field, "", nil)
		return time.Time{}
	}
	t, err := parseTime(*v)
	if err != nil {
		r.fail(field, *v, err)
		return time.Time{}
	}
	return t
}

func parseTime(s string) (time.Time, error) {
	return domain.ParseTimestamp(s)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func text(s string) *string { return &s }

func decodeCategory(index int, raw *xmlCategory) (*domain.Category, error) {
	r := newFieldReader(elemCategories, index, raw.ID)
	c := &domain.Category{
		ID:          r.integer("Id", raw.ID),
		Name:        r.str("Name", raw.Name),
		Description: r.str("Description", raw.Description),
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

func encodeCategory(c *domain.Category) xmlCategory {
	return xmlCategory{
		ID:          text(strconv.Itoa(c.ID)),
		Name:        text(c.Name),
		Description: text(c.Description),
	}
}

func decodeProduct(index int, raw *xmlProduct) (*domain.Product, error) {
	r := newFieldReader(elemProducts, index, raw.ID)
	p := &domain.Product{
		ID:          r.integer("Id", raw.ID),
		Name:        r.str("Name", raw.Name),
		Description: r.str("Description", raw.Description),
		Quantity:    r.integer("Quantity", raw.Quantity),
		Price:       r.price("Price", raw.Price),
		CategoryID:  r.integer("CategoryId", raw.CategoryID),
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func encodeProduct(p *domain.Product) xmlProduct {
	return xmlProduct{
		ID:          text(strconv.Itoa(p.ID)),
		Name:        text(p.Name),
		Description: text(p.Description),
		Quantity:    text(strconv.Itoa(p.Quantity)),
		Price:       text(p.Price.String()),
		CategoryID:  text(strconv.Itoa(p.CategoryID)),
	}
}

func decodeSupplier(index int, raw *xmlSupplier) (*domain.Supplier, error) {
	r := newFieldReader(elemSuppliers, index, raw.ID)
	s := &domain.Supplier{
		ID:            r.integer("Id", raw.ID),
		Name:          r.str("Name", raw.Name),
		ContactPerson: r.str("ContactPerson", raw.ContactPerson),
		Email:         r.str("Email", raw.Email),
		Phone:         r.str("Phone", raw.Phone),
	}
	if r.err != nil {
		return nil, r.err
	}
	return s, nil
}

func encodeSupplier(s *domain.Supplier) xmlSupplier {
	return xmlSupplier{
		ID:            text(strconv.Itoa(s.ID)),
		Name:          text(s.Name),
		ContactPerson: text(s.ContactPerson),
		Email:         text(s.Email),
		Phone:         text(s.Phone),
	}
}

func decodeOrder(index int, raw *xmlOrder) (*domain.Order, error) {
	r := newFieldReader(elemOrders, index, raw.ID)
	o := &domain.Order{
		ID:         r.integer("Id", raw.ID),
		ProductID:  r.integer("ProductId", raw.ProductID),
		Quantity:   r.integer("Quantity", raw.Quantity),
		OrderDate:  r.timestamp("OrderDate", raw.OrderDate),
		SupplierID: r.integer("SupplierId", raw.SupplierID),
		Status:     r.str("Status", raw.Status),
	}
	if r.err != nil {
		return nil, r.err
	}
	return o, nil
}

func encodeOrder(o *domain.Order) xmlOrder {
	return xmlOrder{
		ID:         text(strconv.Itoa(o.ID)),
		ProductID:  text(strconv.Itoa(o.ProductID)),
		Quantity:   text(strconv.Itoa(o.Quantity)),
		OrderDate:  text(formatTime(o.OrderDate)),
		SupplierID: text(strconv.Itoa(o.SupplierID)),
		Status:     text(o.Status),
	}
}
