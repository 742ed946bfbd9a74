package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lalushbella/p2prental-backend/database"
	"github.com/lalushbella/p2prental-backend/internal/config"
	"github.com/lalushbella/p2prental-backend/internal/handlers"
	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/routes"
	"github.com/lalushbella/p2prental-backend/internal/services"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET not set - tokens will be signed with an empty key")
	}

	// Initialize storage
	var store storage.Store

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect(cfg.DatabaseDSN)

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.OTPSession{},
			&models.User{},
			&models.Listing{},
			&models.Order{},
			&models.DeliverySlot{},
			&models.PincodeMaster{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
	}
	storage.SetStore(store)

	// Notification channels. Either channel may be unavailable; OTP
	// issuing carries on and reports per-channel delivery flags.
	var emailSender services.EmailSender
	if cfg.EmailUser != "" {
		emailSender = services.NewSMTPEmailSender(cfg)
	} else {
		log.Println("⚠️  Email credentials not found - email OTP delivery disabled")
	}

	var smsSender services.SMSSender
	if sms, err := services.NewTwilioSMSSender(cfg); err != nil {
		log.Println("⚠️  Twilio credentials not found - SMS OTP delivery disabled")
	} else {
		smsSender = sms
	}

	notifier := services.NewNotifier(emailSender, smsSender)

	// Initialize services
	otpService := services.NewOTPService(store, notifier)
	orderService := services.NewOrderService(store)
	geoService := services.NewGeoService(store)
	visionClient := services.NewVisionClient(cfg)
	paymentProxy := services.NewPaymentProxy(cfg)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "P2P Rental Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if !cfg.UseMemoryStore && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database": status == "healthy",
				"email":    emailSender != nil,
				"sms":      smsSender != nil,
			},
		})
	})

	routes.SetupRoutes(app, &routes.Handlers{
		Auth:    handlers.NewAuthHandler(otpService, cfg.JWTSecret, cfg.TokenExpires),
		User:    handlers.NewUserHandler(store),
		Listing: handlers.NewListingHandler(store, geoService),
		Pricing: handlers.NewPricingHandler(store, geoService, visionClient),
		Order:   handlers.NewOrderHandler(store, orderService),
		Pincode: handlers.NewPincodeHandler(store),
		Payment: handlers.NewPaymentHandler(paymentProxy),
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 P2P Rental Backend starting on port %s", cfg.AppPort)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
