package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/handlers/admin"
	"fastfood_backend/internal/handlers/catalog"
	"fastfood_backend/internal/handlers/order"
	"fastfood_backend/internal/handlers/user"
	"fastfood_backend/internal/metrics"
	"fastfood_backend/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", order.IdempotencyKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// Auth
	api.POST("/auth/register", user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)

	// Public catalog
	api.GET("/categories", catalog.ListCategories)
	api.GET("/products", catalog.ListProducts)
	api.GET("/products/:id", catalog.GetProduct)
	api.GET("/combos", catalog.ListCombos)
	api.GET("/combos/:id", catalog.GetCombo)
	api.GET("/combos/:id/items", catalog.GetComboItems)
	api.GET("/promo/validate", catalog.ValidatePromo)

	// Authenticated
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/me", user.GetProfile)
		auth.PUT("/me", user.UpdateProfile)
		auth.POST("/me/change-password", user.ChangePassword)

		auth.GET("/cart", user.GetCart)
		auth.POST("/cart", user.AddToCart)
		auth.DELETE("/cart/:productId", user.RemoveFromCart)
		auth.DELETE("/cart", user.ClearCart)

		auth.POST("/orders", order.Checkout)
		auth.GET("/orders/:id", order.GetOrder)
		auth.GET("/orders/:id/history", order.GetOrderHistory)
		auth.GET("/users/me/orders", order.GetMyOrders)
	}

	// Admin
	adm := api.Group("/admin")
	adm.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adm.POST("/categories", admin.CreateCategory)
		adm.PUT("/categories/:id", admin.UpdateCategory)
		adm.DELETE("/categories/:id", admin.DeleteCategory)

		adm.POST("/products", admin.CreateProduct)
		adm.PUT("/products/:id", admin.UpdateProduct)
		adm.DELETE("/products/:id", admin.DeleteProduct)

		adm.POST("/combos", admin.CreateCombo)
		adm.PUT("/combos/:id", admin.UpdateCombo)
		adm.DELETE("/combos/:id", admin.DeleteCombo)

		adm.GET("/promos", admin.ListPromos)
		adm.POST("/promos", admin.CreatePromo)
		adm.PUT("/promos/:code", admin.UpdatePromo)
		adm.DELETE("/promos/:code", admin.DeletePromo)

		adm.GET("/users", admin.ListUsers)
		adm.POST("/users", admin.CreateUser)
		adm.PUT("/users/:id", admin.UpdateUser)
		adm.DELETE("/users/:id", admin.DeleteUser)
		adm.PUT("/users/:id/role", admin.SetUserRole)
		adm.GET("/roles", admin.ListRoles)

		adm.GET("/orders", admin.ListOrders)
		adm.PUT("/orders/:id/status", admin.UpdateOrderStatus)
		adm.PUT("/orders/:id/payment-status", admin.UpdatePaymentStatus)
		adm.POST("/orders/:id/payment", admin.RecordPayment)

		adm.GET("/revenue", admin.Revenue)
		adm.GET("/audit-logs", admin.ListAuditLogs)
	}
}
