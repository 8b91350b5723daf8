package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avery-lane/storefront-crm-api/config"
	"github.com/avery-lane/storefront-crm-api/controllers"
	"github.com/avery-lane/storefront-crm-api/jobs"
	"github.com/avery-lane/storefront-crm-api/middleware"
	"github.com/avery-lane/storefront-crm-api/models"
	"github.com/avery-lane/storefront-crm-api/services"
	"github.com/avery-lane/storefront-crm-api/utils"
)

func main() {
	seed := flag.Bool("seed", false, "reset the database and load sample data, then exit")
	flag.Parse()

	log.Println("Starting Storefront CRM API server...")

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
	if err := db.AutoMigrate(&models.Customer{}, &models.Product{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if *seed {
		if err := utils.SeedDatabase(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Database seeding completed successfully")
		return
	}

	// The archive service is optional; without a bucket the report job
	// only writes its local log
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitArchiveService(); err != nil {
			log.Printf("Archive service unavailable: %v", err)
		}
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.RequestLogger())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		v1.POST("/customers", controllers.CreateCustomer)
		v1.POST("/customers/bulk", controllers.BulkCreateCustomers)
		v1.GET("/customers", controllers.ListCustomers)

		v1.POST("/products", controllers.CreateProduct)
		v1.POST("/products/restock", controllers.RestockProducts)
		v1.GET("/products", controllers.ListProducts)

		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders", controllers.ListOrders)
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduled jobs share the store with the API; the outbound client
	// probes the API boundary itself
	crm := services.NewCRMService(db)
	report := services.NewReportService(db)
	apiClient := services.NewAPIClient(cfg.APIBaseURL)

	scheduler := jobs.NewScheduler()
	jobs.New(cfg, crm, report, apiClient).RegisterAll(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

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
		"message": "Storefront CRM API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
