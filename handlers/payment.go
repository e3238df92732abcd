package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eats-backend/middleware"
	"eats-backend/services"
)

// PaymentHandler serves promotion payment endpoints for owners.
type PaymentHandler struct {
	Payments *services.Payments
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req services.CreatePaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payment, err := h.Payments.CreatePayment(middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Payment recorded", "payment": payment})
}

func (h *PaymentHandler) GetPayments(c *gin.Context) {
	payments, err := h.Payments.GetPayments(middleware.GetUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(payments), "payments": payments})
}
