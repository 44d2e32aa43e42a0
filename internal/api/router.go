package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/citylockers/locker-system/docs"
	"github.com/citylockers/locker-system/internal/api/handler"
	"github.com/citylockers/locker-system/internal/api/middleware"
	"github.com/citylockers/locker-system/internal/core/service"
	mongodb "github.com/citylockers/locker-system/internal/infrastructure/db/mongo"
	redisdb "github.com/citylockers/locker-system/internal/infrastructure/db/redis"
	"github.com/citylockers/locker-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("lockers"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	lockerRepo := mongodb.NewLockerRepository(db)
	reservationRepo := mongodb.NewReservationRepository(db)
	revocationStore := redisdb.NewRevocationStore(rdb)

	authService := service.NewAuthService(userRepo, revocationStore, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log)
	lockerService := service.NewLockerService(lockerRepo, reservationRepo, log)
	reservationService := service.NewReservationService(lockerRepo, reservationRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	lockerHandler := handler.NewLockerHandler(lockerService, reservationService)
	adminHandler := handler.NewAdminLockerHandler(lockerService)
	reservationHandler := handler.NewReservationHandler(reservationService)

	authMW := middleware.Auth(cfg.JWTSecret)
	adminMW := middleware.RequireAdmin()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout, authMW)
	e.GET("/auth/me", authHandler.Me, authMW)
	e.PUT("/auth/me", authHandler.UpdateMe, authMW)

	// --- Locker catalog (authenticated users) ---
	lockers := e.Group("/lockers", authMW)
	lockers.GET("", lockerHandler.List)
	lockers.POST("/:id/reserve", lockerHandler.Reserve)

	// --- Admin catalog ---
	admin := e.Group("/admin/lockers", authMW, adminMW)
	admin.GET("", adminHandler.List)
	admin.POST("", adminHandler.Create)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/:id", adminHandler.Get)
	admin.PUT("/:id", adminHandler.Update)
	admin.DELETE("/:id", adminHandler.Delete)

	// --- Reservations ---
	reservations := e.Group("/reservations", authMW)
	reservations.GET("", reservationHandler.List)
	reservations.POST("", reservationHandler.Create)
	reservations.PUT("/:id/release", reservationHandler.Release)
	reservations.PUT("/:id/cancel", reservationHandler.Cancel, adminMW)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
