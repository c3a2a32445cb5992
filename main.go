package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/controllers"
	"github.com/priya-bakes/sugarplum-bakery-api/middleware"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Sugarplum Bakery API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.StoreStatus{},
		&models.PaymentTask{},
		&models.OrderNote{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize the S3-backed image service
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	// Initialize the payment gateway client
	services.InitRazorpayService()

	// Initialize Gin router
	router := gin.Default()

	// CORS for the storefront frontend
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auth := middleware.EnsureValidToken(cfg)
	admin := middleware.RequireAdmin()

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// User profile endpoints
		v1.POST("/users", auth, controllers.CreateUser)
		v1.GET("/users/me", auth, controllers.GetMyProfile)
		v1.PUT("/users/me", auth, controllers.UpdateMyProfile)

		// Product catalog
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/:id", controllers.GetProduct)
		v1.POST("/products", auth, admin, controllers.CreateProduct)
		v1.PUT("/products/:id", auth, admin, controllers.UpdateProduct)
		v1.DELETE("/products/:id", auth, admin, controllers.DeleteProduct)

		// Store open/closed toggle
		v1.GET("/store-status", controllers.GetStoreStatus)
		v1.PUT("/store-status", auth, admin, controllers.UpdateStoreStatus)

		// Coupons
		v1.GET("/coupons", auth, admin, controllers.ListCoupons)
		v1.POST("/coupons", auth, admin, controllers.CreateCoupon)
		v1.PUT("/coupons/:id", auth, admin, controllers.UpdateCoupon)
		v1.DELETE("/coupons/:id", auth, admin, controllers.DeleteCoupon)
		v1.POST("/coupons/validate", controllers.ValidateCouponCode)

		// Cart checkout
		v1.POST("/checkout/quote", controllers.QuoteCheckout)
		v1.POST("/checkout/confirm", controllers.ConfirmCheckout)

		// Orders
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders", auth, admin, controllers.ListOrders)
		v1.GET("/orders/my", controllers.MyOrders)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.PUT("/orders/:id", auth, admin, controllers.UpdateOrder)
		v1.POST("/orders/:id/notes", auth, controllers.SendOrderNote)
		v1.GET("/orders/:id/notes", auth, controllers.GetOrderNotes)

		// Payments
		v1.POST("/payments/intent", controllers.CreatePaymentIntent)
		v1.POST("/payments/confirm", controllers.ConfirmPayment)
		v1.GET("/payments/tasks", auth, admin, controllers.ListPaymentTasks)
		v1.POST("/payments/tasks/:id/retry", auth, admin, controllers.RetryPaymentTask)

		// Image uploads (cake reference photos, product shots)
		v1.POST("/uploads", auth, admin, controllers.UploadImage)
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sugarplum Bakery API is running",
	})
}
