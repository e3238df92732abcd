package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eats-backend/middleware"
	"eats-backend/services"
)

// RestaurantHandler serves restaurant, category and dish endpoints.
type RestaurantHandler struct {
	Restaurants *services.Restaurants
}

// ── Public listing ───────────────────────────────────────────────

// ListRestaurants returns one page of restaurants, promoted first.
func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	page, err := h.Restaurants.ListRestaurants(pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetRestaurant returns a single restaurant with its menu.
func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.Restaurants.GetRestaurant(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// SearchRestaurants finds restaurants by name.
func (h *RestaurantHandler) SearchRestaurants(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter required"})
		return
	}
	page, err := h.Restaurants.SearchRestaurants(query, pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AllCategories lists categories with restaurant counts.
func (h *RestaurantHandler) AllCategories(c *gin.Context) {
	categories, err := h.Restaurants.AllCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CategoryBySlug returns a category and one page of its restaurants.
func (h *RestaurantHandler) CategoryBySlug(c *gin.Context) {
	category, page, err := h.Restaurants.CategoryBySlug(c.Param("slug"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "restaurants": page})
}

// ── Owner management ─────────────────────────────────────────────

func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req services.CreateRestaurantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	restaurant, err := h.Restaurants.CreateRestaurant(middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

func (h *RestaurantHandler) EditRestaurant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req services.EditRestaurantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	restaurant, err := h.Restaurants.EditRestaurant(middleware.GetUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Restaurants.DeleteRestaurant(middleware.GetUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

// ── Dishes ───────────────────────────────────────────────────────

func (h *RestaurantHandler) CreateDish(c *gin.Context) {
	var req services.CreateDishInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dish, err := h.Restaurants.CreateDish(middleware.GetUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dish created", "dish": dish})
}

func (h *RestaurantHandler) EditDish(c *gin.Context) {
	id, ok := idParam(c, "dishId")
	if !ok {
		return
	}
	var req services.EditDishInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dish, err := h.Restaurants.EditDish(middleware.GetUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish updated", "dish": dish})
}

func (h *RestaurantHandler) DeleteDish(c *gin.Context) {
	id, ok := idParam(c, "dishId")
	if !ok {
		return
	}
	if err := h.Restaurants.DeleteDish(middleware.GetUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish deleted"})
}
