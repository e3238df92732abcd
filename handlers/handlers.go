package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"eats-backend/models"
	"eats-backend/services"
)

// The enum validators referenced by binding tags (userrole, orderstatus) are
// registered once, before any request is bound.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	})
}

// respondError maps service sentinel errors to HTTP statuses. Anything
// unclassified is a generic operation failure and becomes a 500; the service
// has already stripped collaborator detail from the message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrWrongPassword):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrDriverTaken):
		status = http.StatusConflict
	case errors.Is(err, services.ErrUserNotFound) ||
		errors.Is(err, services.ErrRestaurantNotFound) ||
		errors.Is(err, services.ErrDishNotFound) ||
		errors.Is(err, services.ErrOrderNotFound) ||
		errors.Is(err, services.ErrCategoryNotFound) ||
		errors.Is(err, services.ErrCodeNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// idParam parses a numeric path parameter, writing a 400 on failure.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// pageQuery parses the ?page query, defaulting to the first page.
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
