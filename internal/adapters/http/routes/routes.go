package routes

import (
	"time"

	"workclock/internal/adapters/http/handlers"
	"workclock/internal/adapters/http/middleware"
	"workclock/internal/adapters/persistence/repositories"
	"workclock/internal/config"
	"workclock/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	leaveRepo := repositories.NewLeaveRepository(db)
	requestRepo := repositories.NewAttendanceRequestRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo)
	leaveService := services.NewLeaveService(leaveRepo)
	correctionService := services.NewCorrectionService(requestRepo, attendanceRepo, cfg)
	dashboardService := services.NewDashboardService(attendanceRepo, leaveRepo, requestRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	leaveHandler := handlers.NewLeaveHandler(leaveService)
	correctionHandler := handlers.NewCorrectionHandler(correctionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")
	auth := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.AdminOnly()

	// Auth routes
	authGroup := api.Group("/auth", middleware.NoCacheHeaders())
	authGroup.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authGroup.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/logout-all", auth, authHandler.LogoutAll)
	authGroup.Get("/me", auth, authHandler.Me)

	// Attendance routes
	attendance := api.Group("/attendance", auth)

	// Correction request routes come before the :id routes so that
	// /attendance/requests is not swallowed by /attendance/:id
	requests := attendance.Group("/requests")
	requests.Post("/", correctionHandler.Create)
	requests.Get("/me", correctionHandler.Me)
	requests.Get("/", adminOnly, correctionHandler.List)
	requests.Get("/:id", correctionHandler.GetByID)
	requests.Put("/:id/status", adminOnly, correctionHandler.Process)

	attendance.Post("/checkin", attendanceHandler.CheckIn)
	attendance.Put("/checkout/:id?", attendanceHandler.CheckOut)
	attendance.Get("/me", attendanceHandler.Me)
	attendance.Get("/", adminOnly, attendanceHandler.List)
	attendance.Get("/:id", attendanceHandler.GetByID)

	// Leave routes
	leaves := api.Group("/leaves", auth)
	leaves.Post("/", leaveHandler.Create)
	leaves.Get("/me", leaveHandler.Me)
	leaves.Get("/", adminOnly, leaveHandler.List)
	leaves.Get("/:id", leaveHandler.GetByID)
	leaves.Put("/:id", leaveHandler.Update)
	leaves.Delete("/:id", leaveHandler.Delete)

	// Profile routes (self-service)
	profile := api.Group("/profile", auth)
	profile.Get("/", userHandler.Profile)
	profile.Put("/", userHandler.UpdateProfile)
	profile.Put("/password", middleware.StrictRateLimiter(), userHandler.ChangePassword)

	// User routes (admin)
	users := api.Group("/users", auth, adminOnly)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.AdminUpdate)
	users.Put("/:id/role", userHandler.SetRole)
	users.Put("/:id/active", userHandler.SetActive)
	users.Delete("/:id", userHandler.Delete)

	// Dashboard routes
	dashboard := api.Group("/dashboard", auth)
	dashboard.Get("/admin", adminOnly, dashboardHandler.Admin)
	dashboard.Get("/me", middleware.PrivateCacheHeaders(time.Minute), dashboardHandler.Me)
}
