package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"

	"github.com/fintrackapp/fintrack-be/internal/core/audit"
	"github.com/fintrackapp/fintrack-be/internal/core/auth"
	"github.com/fintrackapp/fintrack-be/internal/core/charts"
	"github.com/fintrackapp/fintrack-be/internal/core/export"
	"github.com/fintrackapp/fintrack-be/internal/handlers"
	"github.com/fintrackapp/fintrack-be/internal/repositories"
	"github.com/fintrackapp/fintrack-be/internal/scheduler"
	"github.com/fintrackapp/fintrack-be/internal/services"
	"github.com/fintrackapp/fintrack-be/internal/shared/config"
	"github.com/fintrackapp/fintrack-be/internal/shared/database"
	"github.com/fintrackapp/fintrack-be/internal/shared/utils"

	_ "github.com/fintrackapp/fintrack-be/cmd/api/docs"
)

// @title FinTrack API
// @version 1.0
// @description Personal finance transaction API
// @contact.name API Support
// @contact.email support@fintrackapp.com
// @license.name MIT
// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg := config.LoadConfig()
	utils.InitLogger()
	log.Printf("🚀 Starting api on port %s", cfg.Port)

	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Repositories
	transactionRepo := repositories.NewTransactionRepo(db.GORM)
	lookupRepo := repositories.NewLookupRepo(db.GORM)

	// Services
	auditService := audit.NewService(db.GORM)
	transactionService := services.NewTransactionService(transactionRepo, lookupRepo, auditService, cfg.OptionsCacheTTL)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	exportService := export.NewService()
	chartGenerator := charts.NewGenerator()

	// Handlers
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	reportHandler := handlers.NewReportHandler(transactionService, exportService, chartGenerator, auditService)
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := auth.NewHandler(jwtService, lookupRepo)

	// Periodic form-options cache refresh
	sched := scheduler.NewScheduler()
	if err := sched.AddJob("options-cache-refresh", cfg.OptionsRefresh, transactionService.RefreshOptionsCache); err != nil {
		log.Fatalf("❌ Failed to schedule options cache refresh: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName: "FinTrack API",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api/v1")
	api.Post("/auth/login", authHandler.Login)

	authed := api.Use(auth.Middleware(jwtService))
	authed.Get("/auth/me", authHandler.Me)

	authed.Get("/transactions", transactionHandler.ListTransactions)
	authed.Get("/transactions/options", transactionHandler.GetFormOptions)
	authed.Get("/transactions/summary", reportHandler.GetSummary)
	authed.Get("/transactions/summary/chart", reportHandler.GetSummaryChart)
	authed.Get("/transactions/export", reportHandler.ExportTransactions)
	authed.Post("/transactions", transactionHandler.CreateTransaction)
	authed.Put("/transactions/:id", transactionHandler.UpdateTransaction)
	authed.Delete("/transactions/:id", transactionHandler.DeleteTransaction)

	authed.Get("/audit", reportHandler.ListAuditEntries)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Fatal(app.Listen(":" + port))
}
