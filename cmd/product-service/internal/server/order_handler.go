package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"productmanagement/cmd/product-service/internal/domain"
)

func (s *HTTPServer) listOrders(c *gin.Context) {
	orders, err := s.service.ListOrders(c.Request.Context())
	if err != nil {
		s.handleServiceError(c, orderEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// listOrdersBySupplier status 按原样精确匹配，未提供时匹配空状态
func (s *HTTPServer) listOrdersBySupplier(c *gin.Context) {
	supplierID, ok := s.pathInt(c, "supplierId")
	if !ok {
		return
	}

	orders, err := s.service.ListOrdersBySupplierAndStatus(c.Request.Context(), supplierID, c.Query("status"))
	if err != nil {
		s.handleServiceError(c, orderEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *HTTPServer) listOrdersByDateRange(c *gin.Context) {
	start, ok := s.queryTime(c, "startDate")
	if !ok {
		return
	}
	end, ok := s.queryTime(c, "endDate")
	if !ok {
		return
	}

	orders, err := s.service.ListOrdersByDateRange(c.Request.Context(), start, end)
	if err != nil {
		s.handleServiceError(c, orderEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *HTTPServer) listOrdersPage(c *gin.Context) {
	page, ok := s.queryInt(c, "pageNumber", 0, true)
	if !ok {
		return
	}
	size, ok := s.queryInt(c, "pageSize", 0, true)
	if !ok {
		return
	}

	orders, err := s.service.ListOrdersPage(c.Request.Context(), page, size)
	if err != nil {
		s.handleServiceError(c, orderEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *HTTPServer) getOrder(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	order, err := s.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		s.handleServiceError(c, orderEntity, opGet, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *HTTPServer) createOrder(c *gin.Context) {
	order, ok := bindRecord[domain.Order](s, c)
	if !ok {
		return
	}

	id, err := s.service.CreateOrder(c.Request.Context(), order)
	if err != nil {
		s.handleServiceError(c, orderEntity, opCreate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: orderEntity.succeeded(opCreate), ID: id})
}

func (s *HTTPServer) updateOrder(c *gin.Context) {
	order, ok := bindRecord[domain.Order](s, c)
	if !ok {
		return
	}

	if err := s.service.UpdateOrder(c.Request.Context(), order); err != nil {
		s.handleServiceError(c, orderEntity, opUpdate, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: orderEntity.succeeded(opUpdate), ID: order.ID})
}

func (s *HTTPServer) deleteOrder(c *gin.Context) {
	id, ok := s.pathInt(c, "id")
	if !ok {
		return
	}

	if err := s.service.DeleteOrder(c.Request.Context(), id); err != nil {
		s.handleServiceError(c, orderEntity, opDelete, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: orderEntity.succeeded(opDelete), ID: id})
}
