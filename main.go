package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/config"
	"salonbook/cron"
	"salonbook/database"
	bookingRepo "salonbook/database/repository/booking"
	holdRepo "salonbook/database/repository/hold"
	salonRepo "salonbook/database/repository/salon"
	"salonbook/handlers"
	"salonbook/routes"
	"salonbook/services/booking"
	"salonbook/services/notification"
	"salonbook/services/tenant"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	locks := bookingRepo.NewMongoBookingLockRepo()
	holds := holdRepo.NewRedisHoldRepo(utils.GetHoldCacheClient())
	salons := salonRepo.NewMongoSalonRepo()

	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	if err := locks.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure lock indexes: %v", err)
	}

	// async queue client shared by the hold reaper and notification dispatch.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// services.
	tenantService := tenant.NewCachedTenantService(salons, utils.GetTenantCacheClient(), 0)

	fcmService, err := notification.NewFCMNotificationService(notification.NewMongoTokenResolver())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}
	queuedNotifications := notification.NewQueueNotificationService(queueClient)

	bookingService := &booking.DefaultBookingWorkflowService{
		Repo:            bookings,
		LockRepo:        locks,
		Holds:           holds,
		TenantSvc:       tenantService,
		NotificationSvc: queuedNotifications,
		CodePrefix:      config.AppConfig.BookingCodePrefix,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService),
		Hold:    handlers.NewHoldHandler(holds, bookingService, queueClient),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background workers: notification dispatch (via FCM) and hold reaping.
	cron.InitQueueWorker(fcmService, holds)

	queueRedis := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetHoldCacheClient(), utils.GetTenantCacheClient(), queueRedis},
		database.MongoClient,
	)

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
