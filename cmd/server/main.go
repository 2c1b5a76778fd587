package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"workclock/internal/adapters/http/middleware"
	"workclock/internal/adapters/http/routes"
	"workclock/internal/adapters/persistence/models"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/config"
	"workclock/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title WorkClock API
// @version 1.0
// @description Employee time attendance and leave management API

// @host localhost:3000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the default admin account
	if err := config.SeedDefaultAdmin(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed default admin: %v", err)
	}

	// Start the nightly absentee marker (23:55 daily)
	autoService := services.NewAttendanceAutoService(
		repositories.NewAttendanceRepository(db),
		repositories.NewLeaveRepository(db),
		repositories.NewUserRepository(db),
	)
	if err := autoService.Start(); err != nil {
		log.Fatalf("❌ Failed to start nightly marker: %v", err)
	}
	defer autoService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "WorkClock API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
