// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"kharcha/internal/config"
	"kharcha/internal/handlers"
	"kharcha/internal/middleware"
	"kharcha/internal/repositories"
	"kharcha/internal/services/audit"
	"kharcha/internal/services/auth"
	"kharcha/internal/services/dashboard"
	"kharcha/internal/services/expense"
	"kharcha/internal/services/export"
	"kharcha/internal/services/parser"
	"kharcha/internal/services/speech"
	"kharcha/internal/services/wallet"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	maxIdleConns := config.GetIntEnv("DB_MAX_IDLE_CONNS", 10)
	maxOpenConns := config.GetIntEnv("DB_MAX_OPEN_CONNS", 100)
	connMaxLifetime, err := time.ParseDuration(config.GetEnv("DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		connMaxLifetime = time.Hour
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	// Repositories
	userRepo := repositories.NewUserRepository(repositories.DB)
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)
	auditRepo := repositories.NewAuditRepository(repositories.DB)

	// Services
	walletService := wallet.NewService(ledgerRepo, repositories.CacheService, wallet.Config{
		InitialUPI:  config.GetFloatEnv("WALLET_INITIAL_UPI", 0),
		InitialCash: config.GetFloatEnv("WALLET_INITIAL_CASH", 0),
	})
	auditService := audit.NewService(auditRepo)
	authService := auth.NewService(userRepo, walletService)
	expenseService := expense.NewService(ledgerRepo, walletService, auditService)
	dashboardService := dashboard.NewService(expenseService, walletService)
	exportService := export.NewService(expenseService, walletService, auditService)

	openaiKey := config.GetEnv("OPENAI_API_KEY", "")
	openaiBase := config.GetEnv("OPENAI_BASE_URL", "")
	parserService := parser.NewService(
		parser.NewOpenAIProvider(openaiKey, openaiBase, config.GetEnv("OPENAI_MODEL", "")),
		repositories.CacheService,
		parser.Config{},
	)
	speechService := speech.NewService(openaiKey, openaiBase, config.GetEnv("WHISPER_MODEL", ""))

	// Handlers
	h := &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Expense:   handlers.NewExpenseHandler(expenseService, parserService, speechService),
		Wallet:    handlers.NewWalletHandler(walletService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Export:    handlers.NewExportHandler(exportService),
		Audit:     handlers.NewAuditHandler(auditService),
	}
	authMW := middleware.NewAuthMiddleware(authService)

	// Create Fiber app
	app := fiber.New()

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(429).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	// Routes
	handlers.SetupRoutes(app, h, authMW)

	// Start server
	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}
