package routes

import (
	"github.com/gin-gonic/gin"

	"eats-backend/handlers"
	"eats-backend/middleware"
	"eats-backend/models"
)

// Handlers bundles everything SetupRoutes wires onto the router.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Restaurants   *handlers.RestaurantHandler
	Orders        *handlers.OrderHandler
	Payments      *handlers.PaymentHandler
	Uploads       *handlers.UploadHandler
	Subscriptions *handlers.SubscriptionHandler
}

func SetupRoutes(r *gin.Engine, h Handlers) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/users", h.Auth.Register)
		public.POST("/users/login", h.Auth.Login)

		public.GET("/restaurants", h.Restaurants.ListRestaurants)
		public.GET("/restaurants/search", h.Restaurants.SearchRestaurants)
		public.GET("/restaurants/:id", h.Restaurants.GetRestaurant)
		public.GET("/categories", h.Restaurants.AllCategories)
		public.GET("/categories/:slug", h.Restaurants.CategoryBySlug)
	}

	// ── Authenticated routes (any role) ────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/me", h.Auth.GetProfile)
		auth.PUT("/me", h.Auth.EditProfile)
		auth.POST("/users/verify", h.Auth.VerifyEmail)
		auth.POST("/uploads", h.Uploads.Upload)
		auth.GET("/orders/:id", h.Orders.GetOrder)
		auth.GET("/orders", h.Orders.GetOrders)
	}

	// ── Client routes ──────────────────────────────────────────────
	client := r.Group("/api")
	client.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleClient))
	{
		client.POST("/orders", h.Orders.CreateOrder)
	}

	// ── Owner routes ───────────────────────────────────────────────
	owner := r.Group("/api")
	owner.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleOwner))
	{
		owner.POST("/restaurants", h.Restaurants.CreateRestaurant)
		owner.PUT("/restaurants/:id", h.Restaurants.EditRestaurant)
		owner.DELETE("/restaurants/:id", h.Restaurants.DeleteRestaurant)

		owner.POST("/dishes", h.Restaurants.CreateDish)
		owner.PUT("/dishes/:dishId", h.Restaurants.EditDish)
		owner.DELETE("/dishes/:dishId", h.Restaurants.DeleteDish)

		owner.POST("/payments", h.Payments.CreatePayment)
		owner.GET("/payments", h.Payments.GetPayments)
	}

	// ── Status transitions: owners and drivers, gated by policy ────
	transition := r.Group("/api")
	transition.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleOwner, models.RoleDelivery))
	{
		transition.PUT("/orders/:id/status", h.Orders.UpdateStatus)
	}

	// ── Delivery routes ────────────────────────────────────────────
	delivery := r.Group("/api")
	delivery.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDelivery))
	{
		delivery.PUT("/orders/:id/take", h.Orders.TakeOrder)
	}

	// ── Live subscriptions ─────────────────────────────────────────
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired())
	{
		ws.GET("/pending-orders", middleware.RoleRequired(models.RoleOwner), h.Subscriptions.PendingOrders)
		ws.GET("/cooked-orders", middleware.RoleRequired(models.RoleDelivery), h.Subscriptions.CookedOrders)
		ws.GET("/order-updates/:id", h.Subscriptions.OrderUpdates)
	}
}
