package domain

import "strings"

// Category 商品分类
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate 校验分类字段
func (c *Category) Validate() error {
	if c == nil {
		return ErrNilRecord
	}
	if strings.TrimSpace(c.Name) == "" {
		return invalidArgument("category name is required")
	}
	return nil
}

// CategoryWithProductCount 分类及其商品数量（只读投影）
type CategoryWithProductCount struct {
	CategoryName string `json:"categoryName"`
	ProductCount int    `json:"productCount"`
}
