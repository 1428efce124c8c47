package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"theaterbook/api/routes"
	"theaterbook/internal/auth"
	"theaterbook/internal/bookings"
	"theaterbook/internal/jobs"
	"theaterbook/internal/notifications"
	"theaterbook/internal/payments"
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/database"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"
	"theaterbook/internal/unsaved"
	"theaterbook/pkg/cache"
	"theaterbook/pkg/logger"
	"theaterbook/pkg/ratelimit"
	"theaterbook/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title                      Theaterbook API
// @version                    1.0
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	window := timewindow.New(cfg.Booking.Timezone, cfg.Booking.MinRemaining)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	gateway, err := payments.NewGateway(cfg.Payment)
	if err != nil {
		appLogger.Error("failed to configure payment gateway", slog.Any("error", err))
		os.Exit(1)
	}

	deps := routes.Deps{Window: window, Gateway: gateway}

	// Slot holds need Redis. Without them checkout relies on the unique
	// booking index alone.
	if cfg.Booking.HoldEnabled && db.GetRedis() != nil {
		holds := bookings.NewSlotHolds(db.GetRedis(), cfg.Redis.SlotHoldTTL, window)
		ctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
		if err := holds.PreloadScripts(ctx); err != nil {
			appLogger.Error("Failed to preload Redis Lua scripts", slog.Any("error", err))
		} else {
			appLogger.Info("✅ Redis Lua scripts preloaded for slot holds")
		}
		cancel()
		deps.Holds = holds
	}

	if cfg.AWS.S3Bucket != "" {
		store, err := storage.NewS3Store(rootCtx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Bucket:          cfg.AWS.S3Bucket,
		})
		if err != nil {
			appLogger.Error("S3 image storage disabled", slog.Any("error", err))
		} else {
			deps.Images = store
		}
	}

	if cfg.Firebase.Enabled {
		verifier, err := auth.NewFirebaseVerifier(rootCtx, cfg.Firebase.CredentialsFile, cfg.Firebase.ProjectID)
		if err != nil {
			appLogger.Error("Firebase login disabled", slog.Any("error", err))
		} else {
			deps.Firebase = verifier
		}
	}

	// Notifications: mail sender, producer and, for brokers, the consumer.
	var sender notifications.Sender = notifications.NewLogSender()
	if cfg.Email.SMTPHost != "" {
		mailer, err := notifications.NewMailSender(cfg.Email)
		if err != nil {
			appLogger.Error("SMTP unavailable, logging notifications instead", slog.Any("error", err))
		} else {
			sender = mailer
		}
	}
	producer, err := notifications.NewProducer(cfg, sender)
	if err != nil {
		appLogger.Error("Notification broker unavailable, sending inline", slog.Any("error", err))
		producer = notifications.NewDirectProducer(sender)
	}
	defer producer.Close()

	switch {
	case cfg.Kafka.Enabled:
		consumer, err := notifications.NewKafkaConsumer(
			notifications.DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.NotificationTopic), sender)
		if err != nil {
			appLogger.Error("Failed to start notification consumer", slog.Any("error", err))
		} else {
			consumer.Start(rootCtx, cfg.Kafka.Workers)
			defer func() {
				appLogger.Info("Stopping notification consumer...")
				if err := consumer.Stop(); err != nil {
					appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
				}
			}()
		}
	case cfg.AMQP.Enabled:
		consumer := notifications.NewAMQPConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, sender, notifications.DefaultRetryPolicy())
		go consumer.Run(rootCtx)
	}

	pg := db.GetPostgreSQL()
	theaterRepo := theaters.NewRepository(pg)
	notifier := notifications.NewService(producer, theaterRepo, window)
	deps.Notifier = notifier
	deps.Codes = notifier

	if cfg.Jobs.Enabled {
		theaterCache := theaters.NewService(theaterRepo, nil, cache.NewService(db.GetRedis()), nil, window)
		runner := jobs.NewRunner(jobs.Deps{
			Reconciler: bookings.NewReconciler(bookings.NewRepository(pg), theaterCache, window),
			Pruner:     theaterRepo,
			Unsaved:    unsaved.NewRepository(pg),
			Reminder:   notifier,
			Window:     window,
		}, cfg.Jobs)
		if err := runner.Start(rootCtx); err != nil {
			appLogger.Error("Failed to start background jobs", slog.Any("error", err))
		} else {
			defer runner.Stop()
		}
	}

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), &ratelimit.Config{
			Enabled:                 cfg.RateLimit.Enabled,
			WindowDuration:          cfg.RateLimit.WindowDuration,
			DefaultRequests:         cfg.RateLimit.DefaultRequests,
			PublicRequests:          cfg.RateLimit.PublicRequests,
			AuthRequests:            cfg.RateLimit.AuthRequests,
			BookingRequests:         cfg.RateLimit.BookingRequests,
			BookingCriticalRequests: cfg.RateLimit.BookingCriticalRequests,
			AdminRequests:           cfg.RateLimit.AdminRequests,
			HealthRequests:          cfg.RateLimit.HealthRequests,
			WhitelistedIPs:          cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	router := setupRouter(cfg, db, deps, rateLimiter)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.String("timezone", window.Location().String()),
			slog.String("payment_provider", cfg.Payment.Provider),
			slog.Bool("redis", db.GetRedis() != nil),
			slog.Bool("slot_holds", deps.Holds != nil),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}
	rootCancel()

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, deps routes.Deps, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter := routes.NewRouter(cfg, db, deps)
	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if err := c.Errors.Last(); err != nil {
			l.LogHTTPError(c, err.Err, c.Writer.Status())
		}
		l.LogHTTPRequest(c, time.Since(start))
	}
}
