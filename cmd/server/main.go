// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lebem/lebem-backend/internal/config"
	"github.com/lebem/lebem-backend/internal/database"
	"github.com/lebem/lebem-backend/internal/i18n"
	"github.com/lebem/lebem-backend/internal/middleware"
	"github.com/lebem/lebem-backend/internal/queue"
	"github.com/lebem/lebem-backend/internal/router"
	"github.com/lebem/lebem-backend/internal/services"
	"github.com/lebem/lebem-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	setupLogging(cfg)

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		logrus.WithError(err).Fatal("Failed to seed admin user")
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Notifications run on their own workers so submissions never wait on Telegram
	notifyQueue, redisClient, err := openQueue(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open notification queue")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if !cfg.Telegram.Enabled() {
		logrus.Warn("Telegram bot token or chat id missing; notifications will be dropped")
	}
	notifier := services.NewNotificationService(notifyQueue, services.NewTelegramSender(cfg.Telegram))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	pool := queue.NewPool(notifyQueue, cfg.Notify.Workers, notifier.Deliver)
	pool.Start(workerCtx)

	stopCleanup := make(chan struct{})
	middleware.StartRateLimitCleanup(stopCleanup)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, err := router.Initialize(db, cfg, notifier)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	close(stopCleanup)

	// Queued notifications get the rest of the deadline
	if err := pool.Stop(ctx); err != nil {
		logrus.WithError(err).Warn("Notification workers did not drain in time")
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.Log.Format == "json" || (cfg.Log.Format == "" && cfg.Environment == "production") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logrus.WithField("level", cfg.Log.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func openQueue(cfg *config.Config) (queue.Queue, *redis.Client, error) {
	if cfg.Notify.Broker != "redis" {
		return queue.NewMemoryQueue(cfg.Notify.BufferSize), nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := queue.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	logrus.WithField("key", cfg.Notify.QueueKey).Info("Using Redis notification queue")
	return queue.NewRedisQueue(client, cfg.Notify.QueueKey), client, nil
}
