package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eats-backend/middleware"
	"eats-backend/models"
	"eats-backend/services"
)

// OrderHandler serves order placement, listing and lifecycle endpoints.
type OrderHandler struct {
	Orders *services.Orders
}

// CreateOrder places a new order for the calling client.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.CreateOrder(middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetOrders lists the caller's orders, optionally filtered by status.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var status *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := models.OrderStatus(raw)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		status = &s
	}

	orders, err := h.Orders.GetOrders(middleware.GetUser(c), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrder returns a single order the caller may view.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.GetOrder(middleware.GetUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,orderstatus"`
}

// UpdateStatus applies a status transition.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orders.UpdateStatus(middleware.GetUser(c), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order status updated",
		"order_id": id,
		"status":   req.Status,
	})
}

// TakeOrder assigns the calling driver to an order.
func (h *OrderHandler) TakeOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Orders.TakeOrder(middleware.GetUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order taken", "order_id": id})
}
