package main

import (
	"context"
	"time"

	"school-service/internal/eventbus"
	"school-service/internal/handler"
	"school-service/internal/middleware"
	"school-service/pkg/config"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting school service...", cfg.LogConfig()...)

	// Initialize the Mongo client and verify the endpoint
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Control-plane indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := handler.EnsureUserIndexes(ctx, database.GetManager().MainDB()); err != nil {
		log.Warn("Failed to ensure user indexes", zap.Error(err))
	}
	cancel()

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize the event bus
	bus := eventbus.New()
	handler.InitEventBus(bus)
	log.Info("Event bus initialized")

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.Auth)

	tenant := middleware.Tenant(database.GetManager())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Control-plane authentication
	e.POST("/register", handler.Register, tenant)
	e.POST("/login", handler.Login, tenant)

	// API routes - require an authenticated principal
	api := e.Group("/api", tenant, middleware.RequireUser)
	api.GET("/me", handler.Me)
	api.POST("/schools", handler.CreateSchool)
	api.POST("/schools/:id/token", handler.IssueSchoolToken)

	// School-scoped routes - require a school token; tenant resolution runs
	// after the guard so the verified claims are available as a signal
	school := e.Group("/school", middleware.RequireSchoolToken, tenant)
	school.GET("/class-timetables/generate/:class_id", handler.GenerateClassTimetable)
	school.GET("/students", handler.ListStudents)

	// Event stream routes attach straight to the bus and skip tenant resolution
	events := e.Group("/events")
	events.GET("/stream", handler.EventsStream)
	events.GET("/stream/clients/count", handler.ConnectedClientsCount)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
