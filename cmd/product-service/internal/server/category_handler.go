package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"productmanagement/cmd/product-service/internal/domain"
)

func (s *HTTPServer) listCategories(c *gin.Context) {
	categories, err := s.service.ListCategories(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, categoryEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *HTTPServer) listCategoriesWithProductCount(c *gin.Context) {
	rows, err := s.service.ListCategoriesWithProductCount(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, categoryEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *HTTPServer) getCategory(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	category, err := s.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, categoryEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *HTTPServer) createCategory(c *gin.Context) {
	category, ok := bindRecord[domain.Category](s, c)
	if !ok {
		return
	}

	id, err := s.service.CreateCategory(c.Request.Context(), category)
	if err != nil {
		s.handleServiceError(c, categoryEntity, opCreate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: categoryEntity.succeeded(opCreate), ID: id})
}

func (s *HTTPServer) updateCategory(c *gin.Context) {
	category, ok := bindRecord[domain.Category](s, c)
	if !ok {
		return
	}

	if err := s.service.UpdateCategory(c.Request.Context(), category); err != nil {
		s.handleServiceError(c, categoryEntity, opUpdate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: categoryEntity.succeeded(opUpdate), ID: category.ID})
}

func (s *HTTPServer) deleteCategory(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	if err := s.service.DeleteCategory(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, categoryEntity, opDelete, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: categoryEntity.succeeded(opDelete), ID: id})
}
