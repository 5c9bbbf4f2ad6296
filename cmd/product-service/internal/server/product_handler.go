package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"productmanagement/cmd/product-service/internal/domain"
)

func (s *HTTPServer) listProducts(c *gin.Context) {
	products, err := s.service.ListProducts(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, productEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *HTTPServer) listProductsByCategory(c *gin.Context) {
	categoryID, ok := s.pathInt(c, "categoryId")
	if !ok {
		return
	}

	products, err := s.service.ListProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		s.handleServiceError(c, productEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *HTTPServer) listProductsBelowQuantity(c *gin.Context) {
	quantity, ok := s.pathInt(c, "quantity")
	if !ok {
		return
	}

	products, err := s.service.ListProductsBelowQuantity(c.Request.Context(), quantity)
	if err != nil {
		s.handleServiceError(c, productEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *HTTPServer) listProductsByOrderCount(c *gin.Context) {
	below, ok := s.queryInt(c, "below", domain.DefaultOrderCountThreshold, false)
	if !ok {
		return
	}

	rows, err := s.service.ListProductsByOrderCount(c.Request.Context(), below)
	if err != nil {
		s.handleServiceError(c, productEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *HTTPServer) listProductDetails(c *gin.Context) {
	page, ok := s.queryInt(c, "pageNumber", 0, true)
	if !ok {
		return
	}
	size, ok := s.queryInt(c, "pageSize", 0, true)
	if !ok {
		return
	}

	rows, err := s.service.ListProductDetails(c.Request.Context(), page, size)
	if err != nil {
		s.handleServiceError(c, productEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *HTTPServer) getProductDetails(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	row, err := s.service.GetProductDetails(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, productEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *HTTPServer) getProduct(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	product, err := s.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, productEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *HTTPServer) createProduct(c *gin.Context) {
	product, ok := bindRecord[domain.Product](s, c)
	if !ok {
		return
	}

	id, err := s.service.CreateProduct(c.Request.Context(), product)
	if err != nil {
		s.handleServiceError(c, productEntity, opCreate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: productEntity.succeeded(opCreate), ID: id})
}

func (s *HTTPServer) updateProduct(c *gin.Context) {
	product, ok := bindRecord[domain.Product](s, c)
	if !ok {
		return
	}

	if err := s.service.UpdateProduct(c.Request.Context(), product); err != nil {
		s.handleServiceError(c, productEntity, opUpdate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: productEntity.succeeded(opUpdate), ID: product.ID})
}

func (s *HTTPServer) deleteProduct(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	if err := s.service.DeleteProduct(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, productEntity, opDelete, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: productEntity.succeeded(opDelete), ID: id})
}
