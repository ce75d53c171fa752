package main

import (
	"log"
	"time"

	"night_shift_app_go/config"
	"night_shift_app_go/db"
	"night_shift_app_go/handlers"
	"night_shift_app_go/middleware"
	"night_shift_app_go/models"
	"night_shift_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.LoginToken{},
		&models.Baby{},
		&models.UserBaby{},
		&models.Log{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.POST("/api/auth/signin", handlers.SignInHandler)
	e.GET("/api/auth/verify", handlers.VerifyHandler)

	// Protected routes
	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.POST("/logout", handlers.LogoutHandler)
		protected.GET("/api/me", handlers.GetCurrentUserHandler)

		// Babies
		protected.GET("/api/babies", handlers.GetBabiesHandler)
		protected.POST("/api/babies", handlers.CreateBabyHandler)
		protected.GET("/api/babies/:id", handlers.GetBabyHandler)
		protected.PUT("/api/babies/:id", handlers.UpdateBabyHandler)
		protected.DELETE("/api/babies/:id", handlers.DeleteBabyHandler)

		// Logs
		protected.GET("/api/logs", handlers.GetLogsHandler)
		protected.POST("/api/logs", handlers.CreateLogHandler)
		protected.GET("/api/logs/:id", handlers.GetLogHandler)
		protected.PUT("/api/logs/:id", handlers.UpdateLogHandler)
		protected.DELETE("/api/logs/:id", handlers.DeleteLogHandler)

		// Voice ingestion
		protected.POST("/api/voice", handlers.ProcessVoiceHandler)

		// Weekly insights
		protected.GET("/api/insights", handlers.GetInsightsHandler)
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			// Clean up expired sessions
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}

			// Clean up expired and consumed login tokens
			if err := services.CleanupExpiredLoginTokens(db.DB); err != nil {
				log.Printf("Error cleaning up login tokens: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
