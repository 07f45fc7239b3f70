// File: courtbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courtbook/config"
	"courtbook/cron"
	"courtbook/database"
	facilityRepo "courtbook/database/repository/facility"
	reservationRepo "courtbook/database/repository/reservation"
	timeslotRepo "courtbook/database/repository/timeslot"
	"courtbook/handlers"
	"courtbook/middleware"
	"courtbook/routes"
	"courtbook/services/booking"
	"courtbook/services/facility"
	"courtbook/services/notification"
	"courtbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitCache()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	meterProvider, err := utils.InitMetrics(rootCtx, utils.MetricsConfig{
		ServiceName:    "courtbook",
		Environment:    config.AppConfig.Env,
		CollectorAddr:  config.AppConfig.OtelCollectorAddr,
		ExportInterval: time.Duration(config.AppConfig.OtelExportIntervalSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("main: failed to initialize metrics", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	facilities := facilityRepo.NewMongoFacilityRepo()
	slots := timeslotRepo.NewMongoTimeSlotRepo()
	reservations := reservationRepo.NewMongoReservationRepo()

	indexCtx, cancelIndexes := context.WithTimeout(rootCtx, 30*time.Second)
	for name, repo := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{"facilities": facilities, "timeslots": slots, "reservations": reservations} {
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			logger.Fatal("main: failed to create indexes", zap.String("repo", name), zap.Error(err))
		}
	}
	cancelIndexes()

	// live updates.
	var hubOpts []notification.Option
	if config.AppConfig.RedisPubSubEnabled {
		hubOpts = append(hubOpts, notification.WithBroadcaster(notification.NewRedisBroadcaster(utils.GetCacheClient())))
	}
	hub := notification.NewHub(logger.Named("notification"), hubOpts...)
	go hub.Run(rootCtx)
	if config.AppConfig.RedisPubSubEnabled {
		relay := notification.NewRedisRelay(utils.GetCacheClient(), hub, logger.Named("relay"))
		go func() {
			if err := relay.Run(rootCtx); err != nil {
				logger.Error("main: slot update relay stopped", zap.Error(err))
			}
		}()
	}

	// services.
	clock := utils.NewSystemClock(config.Location())
	stack := booking.NewStack(booking.Stores{
		Facilities:   facilities,
		Slots:        slots,
		Reservations: reservations,
		Tx:           database.NewMongoTxRunner(),
	}, hub, clock, booking.DefaultRetryPolicy(), config.AppConfig.MaxActiveReservations, logger.Named("booking"))

	facilityService := &facility.DefaultFacilityService{
		Repo:   facilities,
		Cache:  &facility.RedisListingCache{Client: utils.GetCacheClient(), Logger: logger.Named("cache")},
		Clock:  clock,
		Logger: logger.Named("facility"),
	}

	// maintenance.
	var worker *cron.Worker
	if config.AppConfig.MaintenanceEnabled {
		worker = cron.NewWorker(&cron.Jobs{
			Facilities: facilities,
			Slots:      slots,
			Generator:  stack.Generator,
			Engine:     stack.Engine,
			Clock:      clock,
			Logger:     logger.Named("maintenance"),
		}, logger.Named("maintenance"))
		if err := worker.Start(); err != nil {
			logger.Fatal("main: failed to start maintenance worker", zap.Error(err))
		}
	}

	utils.StartHealthMonitor(rootCtx, utils.GetCacheClient(), database.MongoClient, 30*time.Second)

	handlerBundle := handlers.NewHandlerBundle(stack.Service, facilityService, hub)
	routes.RegisterRoutes(router, handlerBundle)

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

	// Ending the hub first closes open event streams so Shutdown can drain.
	stop()
	if worker != nil {
		worker.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Warnf("main: failed to close database: %v", err)
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		logger.Sugar().Warnf("main: failed to flush metrics: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
