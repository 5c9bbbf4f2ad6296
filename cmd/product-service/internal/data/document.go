package data

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"productmanagement/cmd/product-service/internal/domain"
)

// 文档元素名称
const (
	elemSource     = "Source"
	elemCategories = "Categories"
	elemProducts   = "Products"
	elemSuppliers  = "Suppliers"
	elemOrders     = "Orders"
	attrNextID     = "NextId"
)

// xmlDocument 数据文档的原始结构
type xmlDocument struct {
	XMLName    xml.Name         `xml:"Source"`
	Categories *xmlCategoryList `xml:"Categories"`
	Products   *xmlProductList  `xml:"Products"`
	Suppliers  *xmlSupplierList `xml:"Suppliers"`
	Orders     *xmlOrderList    `xml:"Orders"`
}

type xmlCategoryList struct {
	NextID string        `xml:"NextId,attr,omitempty"`
	Items  []xmlCategory `xml:"Category"`
}

type xmlProductList struct {
	NextID string       `xml:"NextId,attr,omitempty"`
	Items  []xmlProduct `xml:"Product"`
}

type xmlSupplierList struct {
	NextID string        `xml:"NextId,attr,omitempty"`
	Items  []xmlSupplier `xml:"Supplier"`
}

type xmlOrderList struct {
	NextID string     `xml:"NextId,attr,omitempty"`
	Items  []xmlOrder `xml:"Order"`
}

// Document 内存中的完整数据文档
//
// 各集合按需解码：只有被访问的集合才会触发 FormatError，
// 未触及的集合在保存时原样写回。
type Document struct {
	raw xmlDocument
}

// NewDocument 创建包含四个空集合的文档
func NewDocument() *Document {
	doc := &Document{}
	doc.ensureCollections()
	return doc
}

// parseDocument 解析 XML 数据
func parseDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if err := xml.Unmarshal(data, &doc.raw); err != nil {
		return nil, err
	}
	doc.ensureCollections()
	return doc, nil
}

// ensureCollections 缺失的集合视为空集合
func (d *Document) ensureCollections() {
	if d.raw.Categories == nil {
		d.raw.Categories = &xmlCategoryList{}
	}
	if d.raw.Products == nil {
		d.raw.Products = &xmlProductList{}
	}
	if d.raw.Suppliers == nil {
		d.raw.Suppliers = &xmlSupplierList{}
	}
	if d.raw.Orders == nil {
		d.raw.Orders = &xmlOrderList{}
	}
}

// Marshal 序列化完整文档（含 XML 声明）
func (d *Document) Marshal() ([]byte, error) {
	d.ensureCollections()

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8" standalone="yes"?>` + "\n")
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(&d.raw); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Categories 解码分类集合
func (d *Document) Categories() ([]*domain.Category, error) {
	items := make([]*domain.Category, 0, len(d.raw.Categories.Items))
	for i := range d.raw.Categories.Items {
		c, err := decodeCategory(i, &d.raw.Categories.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

// SetCategories 以 records 替换分类集合
func (d *Document) SetCategories(records []*domain.Category) {
	items := make([]xmlCategory, 0, len(records))
	for _, c := range records {
		items = append(items, encodeCategory(c))
	}
	d.raw.Categories.Items = items
}

// Products 解码商品集合
func (d *Document) Products() ([]*domain.Product, error) {
	items := make([]*domain.Product, 0, len(d.raw.Products.Items))
	for i := range d.raw.Products.Items {
		p, err := decodeProduct(i, &d.raw.Products.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

// SetProducts 以 records 替换商品集合
func (d *Document) SetProducts(records []*domain.Product) {
	items := make([]xmlProduct, 0, len(records))
	for _, p := range records {
		items = append(items, encodeProduct(p))
	}
	d.raw.Products.Items = items
}

// Suppliers 解码供应商集合
func (d *Document) Suppliers() ([]*domain.Supplier, error) {
	items := make([]*domain.Supplier, 0, len(d.raw.Suppliers.Items))
	for i := range d.raw.Suppliers.Items {
		s, err := decodeSupplier(i, &d.raw.Suppliers.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, nil
}

// SetSuppliers 以 records 替换供应商集合
func (d *Document) SetSuppliers(records []*domain.Supplier) {
	items := make([]xmlSupplier, 0, len(records))
	for _, s := range records {
		items = append(items, encodeSupplier(s))
	}
	d.raw.Suppliers.Items = items
}

// Orders 解码订单集合
func (d *Document) Orders() ([]*domain.Order, error) {
	items := make([]*domain.Order, 0, len(d.raw.Orders.Items))
	for i := range d.raw.Orders.Items {
		o, err := decodeOrder(i, &d.raw.Orders.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, nil
}

// SetOrders 以 records 替换订单集合
func (d *Document) SetOrders(records []*domain.Order) {
	items := make([]xmlOrder, 0, len(records))
	for _, o := range records {
		items = append(items, encodeOrder(o))
	}
	d.raw.Orders.Items = items
}

// Counts 各集合记录数（不解码）
func (d *Document) Counts() map[string]int {
	return map[string]int{
		elemCategories: len(d.raw.Categories.Items),
		elemProducts:   len(d.raw.Products.Items),
		elemSuppliers:  len(d.raw.Suppliers.Items),
		elemOrders:     len(d.raw.Orders.Items),
	}
}

// nextIDField 返回集合的 NextId 属性指针
func (d *Document) nextIDField(collection string) *string {
	switch collection {
	case elemCategories:
		return &d.raw.Categories.NextID
	case elemProducts:
		return &d.raw.Products.NextID
	case elemSuppliers:
		return &d.raw.Suppliers.NextID
	case elemOrders:
		return &d.raw.Orders.NextID
	}
	panic("unknown collection " + collection)
}

// allocateID 分配新 ID：max(现有最大 ID + 1, NextId)，并推进 NextId。
// 删除最大 ID 的记录后，该 ID 不会被再次分配。
func (d *Document) allocateID(collection string, maxExisting int) (int, error) {
	field := d.nextIDField(collection)

	next := maxExisting + 1
	if s := strings.TrimSpace(*field); s != "" {
		stored, err := strconv.Atoi(s)
		if err != nil {
			return 0, &domain.FormatError{Collection: collection, Index: -1, Field: attrNextID, Value: *field, Err: err}
		}
		if stored > next {
			next = stored
		}
	}
	*field = strconv.Itoa(next + 1)
	return next, nil
}

func (d *Document) String() string {
	c := d.Counts()
	return fmt.Sprintf("Document{%s=%d %s=%d %s=%d %s=%d}",
		elemCategories, c[elemCategories], elemProducts, c[elemProducts],
		elemSuppliers, c[elemSuppliers], elemOrders, c[elemOrders])
}
