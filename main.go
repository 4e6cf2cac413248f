package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deskhub/config"
	"deskhub/cron"
	"deskhub/database"
	reservationRepoPkg "deskhub/database/repository/reservation"
	resourceRepoPkg "deskhub/database/repository/resource"
	userRepoPkg "deskhub/database/repository/user"
	"deskhub/handlers"
	"deskhub/middleware"
	"deskhub/routes"
	"deskhub/services/booking"
	"deskhub/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	resourceRepo := resourceRepoPkg.NewMongoResourceRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := reservationRepo.EnsureIndexes(ctx); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure reservation indexes: %v", err)
		}
		cancel()
	}

	// services.
	var building *booking.Coordinates
	if config.AppConfig.BuildingLatitude != 0 || config.AppConfig.BuildingLongitude != 0 {
		building = &booking.Coordinates{
			Latitude:  config.AppConfig.BuildingLatitude,
			Longitude: config.AppConfig.BuildingLongitude,
		}
	}
	engine := &booking.DefaultReservationEngine{
		Resources:    resourceRepo,
		Reservations: reservationRepo,
		Users:        userRepo,
		Clock:        booking.SystemClock{},
		Config: booking.EngineConfig{
			AvailabilityGraceMinutes: config.AppConfig.AvailabilityGraceMinutes,
			CheckInEarlyMinutes:      config.AppConfig.CheckInEarlyMinutes,
			CheckInLateMinutes:       config.AppConfig.CheckInLateMinutes,
			Building:                 building,
			ProximityThresholdKm:     config.AppConfig.ProximityThresholdMeters / 1000,
			CancelPolicy:             config.AppConfig.CancelPolicy,
		},
	}

	sessionStore := booking.NewRedisSessionStore(utils.GetSessionCacheClient(), 30*time.Minute)
	wizard := &booking.DefaultBookingWizard{
		Resources:    resourceRepo,
		Reservations: reservationRepo,
		Engine:       engine,
		Sessions:     sessionStore,
		Clock:        booking.SystemClock{},
		Config: booking.WizardConfig{
			BookingWindowDays:        config.AppConfig.BookingWindowDays,
			AvailabilityGraceMinutes: config.AppConfig.AvailabilityGraceMinutes,
			CheckInLateMinutes:       config.AppConfig.CheckInLateMinutes,
		},
	}

	// handlers.
	authHandler := handlers.NewAuthHandler(userRepo)
	resourceHandler := handlers.NewResourceHandler(resourceRepo, utils.GetCacheClient())
	reservationHandler := handlers.NewReservationHandler(engine, logger)
	bookingHandler := handlers.NewBookingHandler(wizard, logger)

	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		RegisterHandler: authHandler.RegisterHandler,
		LoginHandler:    authHandler.LoginHandler,

		ListResourcesHandler: resourceHandler.ListResourcesHandler,
		GetResourceHandler:   resourceHandler.GetResourceHandler,

		ListUpcomingHandler:  reservationHandler.ListUpcomingHandler,
		CheckInHandler:       reservationHandler.CheckInHandler,
		CancelHandler:        reservationHandler.CancelHandler,
		ExpireOverdueHandler: reservationHandler.ExpireOverdueHandler,
		RebuildIndexHandler:  reservationHandler.RebuildIndexHandler,

		StartSessionHandler:   bookingHandler.StartSessionHandler,
		SelectDateHandler:     bookingHandler.SelectDateHandler,
		ToggleTimeslotHandler: bookingHandler.ToggleTimeslotHandler,
		SelectRoomHandler:     bookingHandler.SelectRoomHandler,
		SelectDeskHandler:     bookingHandler.SelectDeskHandler,
		ConfirmHandler:        bookingHandler.ConfirmHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background expiry sweep.
	cron.InitSweepWorker(engine)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
