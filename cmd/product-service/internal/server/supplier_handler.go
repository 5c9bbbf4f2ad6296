package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"productmanagement/cmd/product-service/internal/domain"
)

func (s *HTTPServer) listSuppliers(c *gin.Context) {
	suppliers, err := s.service.ListSuppliers(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, supplierEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (s *HTTPServer) listSuppliersByProductQuantity(c *gin.Context) {
	quantity, ok := s.pathInt(c, "quantity")
	if !ok {
		return
	}

	suppliers, err := s.service.ListSuppliersByProductQuantity(c.Request.Context(), quantity)
	if err != nil {
		s.handleServiceError(c, supplierEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (s *HTTPServer) getSupplier(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	supplier, err := s.service.GetSupplier(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, supplierEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (s *HTTPServer) createSupplier(c *gin.Context) {
	supplier, ok := bindRecord[domain.Supplier](s, c)
	if !ok {
		return
	}

	id, err := s.service.CreateSupplier(c.Request.Context(), supplier)
	if err != nil {
		s.handleServiceError(c, supplierEntity, opCreate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: supplierEntity.succeeded(opCreate), ID: id})
}

func (s *HTTPServer) updateSupplier(c *gin.Context) {
	supplier, ok := bindRecord[domain.Supplier](s, c)
	if !ok {
		return
	}

	if err := s.service.UpdateSupplier(c.Request.Context(), supplier); err != nil {
		s.handleServiceError(c, supplierEntity, opUpdate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: supplierEntity.succeeded(opUpdate), ID: supplier.ID})
}

func (s *HTTPServer) deleteSupplier(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	if err := s.service.DeleteSupplier(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, supplierEntity, opDelete, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: supplierEntity.succeeded(opDelete), ID: id})
}
