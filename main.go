package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-booking/config"
	"hotel-booking/controllers"
	"hotel-booking/routes"
	"hotel-booking/services"
	"hotel-booking/widget"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := config.NewLogger(cfg.LogLevel, os.Stdout)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDatabase(cfg.Database, cfg.SeedData, log)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	log.Info("database connection established and migrations applied")

	var limiter services.RateLimiter
	if cfg.RateLimit.Enabled {
		if rdb := config.NewRedisClient(cfg.Redis, log); rdb != nil {
			defer rdb.Close()
			limiter = services.NewRedisRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.RateLimit.Prefix)
		} else {
			limiter = services.NewMemoryRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
	}

	// Initialize services
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	roomService := services.NewRoomService(db, log)
	roomTypeService := services.NewRoomTypeService(db)
	guestService := services.NewGuestService(db, log)
	authService := services.NewAuthService(db, tokens, log)
	backend := services.NewWidgetBackend(roomService, guestService, log)

	quickFlow := widget.NewFlow(backend, cfg.WidgetOptions(widget.QuickBookingOptions()), log)
	sectionFlow := widget.NewFlow(backend, cfg.WidgetOptions(widget.BookingSectionOptions()), log)
	quickSessions := services.NewSessionRegistry(quickFlow, cfg.Widget.SessionTTL, log)
	sectionSessions := services.NewSessionRegistry(sectionFlow, cfg.Widget.SessionTTL, log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go quickSessions.Run(ctx, time.Minute)
	go sectionSessions.Run(ctx, time.Minute)

	// Build router
	router := routes.SetupRouter(routes.Handlers{
		Rooms:     controllers.NewRoomController(roomService, log),
		RoomTypes: controllers.NewRoomTypeController(roomTypeService, log),
		Guests:    controllers.NewGuestController(guestService, log),
		Auth:      controllers.NewAuthController(authService, guestService, log),
		Checkout:  controllers.NewCheckoutController(log),
		Quick:     controllers.NewWidgetController(quickSessions, log),
		Section:   controllers.NewWidgetController(sectionSessions, log),
		Tokens:    tokens,
		Limiter:   limiter,
		Log:       log,
	}, cfg.CORSOrigins, cfg.TrustedProxies)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped gracefully")
}
