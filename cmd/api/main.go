package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/safasahar/backend/internal/config"
	"github.com/safasahar/backend/internal/handlers"
	"github.com/safasahar/backend/internal/middleware"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	authService := services.NewAuthService(db, redisClient, cfg)
	userService := services.NewUserService(db)
	resetService := services.NewPasswordResetService(db, cfg)
	gateway := services.NewEsewaProvider(cfg)
	paymentService := services.NewPaymentService(db, cfg, gateway)
	scheduleService := services.NewScheduleService(db)
	requestService := services.NewRequestService(db)
	adminService := services.NewAdminService(db, cfg)
	auditService := services.NewAuditService(db)
	receiptService := services.NewReceiptService(cfg)

	// Create admin user if not exists
	if err := adminService.CreateDefaultAdmin(); err != nil {
		log.Printf("Failed to create default admin: %v", err)
	}

	// Seed the fee schedule singleton so the public settings endpoint
	// never has to create on read
	if _, err := paymentService.GetSettings(); err != nil {
		log.Printf("Failed to initialize payment settings: %v", err)
	}

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	resetHandler := handlers.NewPasswordResetHandler(resetService, auditService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, receiptService)
	adminPaymentHandler := handlers.NewAdminPaymentHandler(paymentService, auditService)
	wasteHandler := handlers.NewWasteHandler(scheduleService, requestService)
	adminHandler := handlers.NewAdminHandler(adminService, userService, scheduleService, requestService, auditService)

	// Health check outside API group (no /api/v1 prefix)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Health check also available under /api/v1/health for compatibility
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Public routes
		public := api.Group("/public")
		{
			public.GET("/schedules", wasteHandler.GetSchedules)
			public.GET("/waste-types", wasteHandler.GetWasteTypes)
			public.GET("/collection-days", wasteHandler.GetCollectionDays)
			public.GET("/wards", wasteHandler.GetWards)
			public.POST("/special-requests", wasteHandler.CreateSpecialRequest)
			public.POST("/compost-requests", wasteHandler.CreateCompostRequest)
		}

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.Auth(authService), authHandler.Logout)
			// Password reset (admin approval workflow)
			auth.POST("/password-reset-request", resetHandler.RequestReset)
			auth.GET("/verify-reset-token/:token", resetHandler.VerifyToken)
			auth.POST("/reset-password/:token", resetHandler.ResetWithToken)
		}

		// User routes
		user := api.Group("/user")
		user.Use(middleware.Auth(authService))
		{
			user.GET("/profile", authHandler.Me)
			user.GET("/special-requests", wasteHandler.GetMySpecialRequests)
		}

		// Payment routes
		payments := api.Group("/payments")
		payments.Use(middleware.Auth(authService))
		{
			payments.GET("/settings", paymentHandler.GetSettings)
			payments.POST("/monthly", paymentHandler.CreateMonthlyPayment)
			payments.POST("/invoice", paymentHandler.PayInvoice)
			payments.POST("/invoice/status", paymentHandler.UpdateInvoiceStatus)
			payments.GET("/history", paymentHandler.GetHistory)
			payments.GET("/stats", paymentHandler.GetUserStats)
			payments.GET("/invoices/:id/receipt.pdf", paymentHandler.GetInvoiceReceipt)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(authService))
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

			// User management
			admin.GET("/users", adminHandler.GetUsers)
			admin.PUT("/users/:id/active", adminHandler.UpdateUserActive)

			// Password reset review
			admin.GET("/password-resets", resetHandler.ListRequests)
			admin.POST("/password-resets/:id/approve", resetHandler.Approve)
			admin.POST("/password-resets/:id/reject", resetHandler.Reject)

			// Schedule management
			admin.POST("/schedules", adminHandler.CreateSchedule)
			admin.PUT("/schedules/:id", adminHandler.UpdateSchedule)
			admin.DELETE("/schedules/:id", adminHandler.DeleteSchedule)

			// Waste type management
			admin.POST("/waste-types", adminHandler.CreateWasteType)
			admin.PUT("/waste-types/:id", adminHandler.UpdateWasteType)
			admin.DELETE("/waste-types/:id", adminHandler.DeleteWasteType)

			// Collection day management
			admin.POST("/collection-days", adminHandler.CreateCollectionDay)
			admin.PUT("/collection-days/:id", adminHandler.UpdateCollectionDay)
			admin.DELETE("/collection-days/:id", adminHandler.DeleteCollectionDay)

			// Ward management
			admin.POST("/wards", adminHandler.CreateWard)
			admin.PUT("/wards/:id", adminHandler.UpdateWard)
			admin.DELETE("/wards/:id", adminHandler.DeleteWard)

			// Special request management
			admin.GET("/special-requests", adminHandler.GetSpecialRequests)
			admin.PUT("/special-requests/:id/status", adminHandler.UpdateSpecialRequestStatus)

			// Compost request management
			admin.GET("/compost-requests", adminHandler.GetCompostRequests)
			admin.DELETE("/compost-requests/:id", adminHandler.DeleteCompostRequest)

			// Payment management
			admin.GET("/payments", adminPaymentHandler.GetAllPayments)
			admin.POST("/payments/status", adminPaymentHandler.UpdatePaymentStatus)
			admin.GET("/payments/stats", adminPaymentHandler.GetPaymentStats)
			admin.GET("/payments/settings", adminPaymentHandler.GetSettings)
			admin.PUT("/payments/settings", adminPaymentHandler.UpdateSettings)
			admin.POST("/invoices", adminPaymentHandler.CreateInvoice)
			admin.DELETE("/invoices/:id", adminPaymentHandler.CancelInvoice)

			// Audit log management
			admin.GET("/audit/logs", adminHandler.GetAuditLogs)
			admin.GET("/audit/stats", adminHandler.GetAuditStats)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
