package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"servicehub-server/config"
	"servicehub-server/database"
	"servicehub-server/jobs"
	"servicehub-server/middleware"
	"servicehub-server/routes"
	"servicehub-server/services"
	ws "servicehub-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database and run migrations
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Seed catalog and bootstrap admin
	if err := seedServiceCategories(); err != nil {
		log.Printf("⚠️ Category seeding failed: %v", err)
	}
	if err := seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeding failed: %v", err)
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security middleware stack
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.AuditLogMiddleware())

	// CORS
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = []string{origins}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID", "X-Device-ID")
	router.Use(cors.New(corsConfig))

	// WebSocket hub for job broadcasts and award notifications
	hub := ws.NewHub()
	go hub.Run()
	routes.SetJobHub(hub)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"message":     "ServiceHub server is running",
			"connections": hub.ConnectedCount(),
			"time":        time.Now().UTC(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Admin password login, same strict rate limit
		adminAuthRoutes := api.Group("/admin/auth")
		adminAuthRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAdminAuthRoutes(adminAuthRoutes)

		// Category catalog (public)
		categoryRoutes := api.Group("/categories")
		routes.RegisterCategoryRoutes(categoryRoutes)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			jobRoutes := protected.Group("/jobs")
			routes.RegisterJobRoutes(jobRoutes)

			bidRoutes := protected.Group("/bids")
			routes.RegisterBidRoutes(bidRoutes)

			workerRoutes := protected.Group("/workers")
			routes.RegisterWorkerRoutes(workerRoutes)
			routes.RegisterWorkerDocumentRoutes(protected)

			notificationRoutes := protected.Group("/notifications")
			routes.RegisterNotificationRoutes(notificationRoutes)

			// WebSocket endpoint for live job and award events
			protected.GET("/ws", ws.HandleConnection(hub))
		}

		// Admin panel routes
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AdminAuthMiddleware())
		{
			routes.RegisterAdminRoutes(adminRoutes)
			routes.RegisterAdminWorkerRoutes(adminRoutes)
		}
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start background jobs
	expirationJob := jobs.NewExpirationJob()
	expirationJob.Start()
	defer expirationJob.Stop()

	// Start token cleanup job
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			jwtService := services.NewJWTService(database.DB)
			if err := jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Token cleanup failed: %v", err)
			}
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
