package main

import (
	"context"
	cryptorand "crypto/rand"
	"database/sql"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	datasetcmd "github.com/eaglebank/dataseed/dataset-service/internal/command"
	"github.com/eaglebank/dataseed/dataset-service/internal/config"
	"github.com/eaglebank/dataseed/dataset-service/internal/handler"
	"github.com/eaglebank/dataseed/dataset-service/internal/lifecycle"
	datasetqry "github.com/eaglebank/dataseed/dataset-service/internal/query"
	"github.com/eaglebank/dataseed/dataset-service/internal/repository"
	"github.com/eaglebank/dataseed/dataset-service/internal/simulator"
	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/events"
	"github.com/eaglebank/dataseed/shared/logging"
	"github.com/eaglebank/dataseed/shared/metrics"
	"github.com/eaglebank/dataseed/shared/middleware"
	redisClient "github.com/eaglebank/dataseed/shared/redis"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is configured from cfg, so fall back to a default one.
		zap.Must(zap.NewProduction()).Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "dataset-service"})
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Database connection (write store)
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Fatal("failed to prepare schema", zap.Error(err))
	}

	// Redis connection (read model store + event streaming)
	redis, err := redisClient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client, events.DefaultStreamMaxLen)
	datasetMetrics := metrics.NewDatasetMetrics("dataset", prometheus.DefaultRegisterer)

	datasetRepo := repository.NewDatasetRepository(db)
	profileRepo := repository.NewProfileWriteRepository(db)
	readRepo := repository.NewDatasetReadRepository(db, datasetRepo, redis.Client, cfg.CacheTTL, logger)

	controller := lifecycle.NewController(newRand(cfg.Seed), datasetRepo, lifecycle.Options{
		Profiles:       cfg.ProfileCount,
		Transactions:   cfg.TransactionCount,
		PasswordLength: cfg.PasswordLength,
		Simulator:      simulator.Options{RecordNotional: cfg.RecordNotional},
		LogCredentials: cfg.LogCredentials,
	}, logger)

	datasetCommands := datasetcmd.NewDatasetCommandService(controller, readRepo, publisher, datasetRepo, datasetMetrics, logger)
	profileCommands := datasetcmd.NewProfileCommandService(profileRepo, readRepo, publisher, logger)
	authQueries := datasetqry.NewAuthQueryService(profileRepo, []byte(cfg.JWTSecret))
	datasetQueries := datasetqry.NewDatasetQueryService(readRepo)

	if cfg.RegenerateOnStart {
		summary, err := datasetCommands.Regenerate(ctx, cqrs.RegenerateDatasetCommand{RequestedBy: "startup"})
		if err != nil {
			logger.Fatal("initial regeneration failed", zap.Error(err))
		}
		logger.Info("initial dataset ready", zap.String("runId", summary.RunID))
	} else if p, a, t, err := datasetRepo.Counts(ctx); err == nil {
		datasetMetrics.SetDatasetRows(p, a, t)
	}

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logger))

	handler.RegisterRoutes(router,
		handler.NewAuthHandler(profileCommands, authQueries),
		handler.NewDatasetHandler(datasetCommands, datasetQueries),
		middleware.AuthMiddleware([]byte(cfg.JWTSecret)),
	)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Every replica gets its own group so each one sees every event.
	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "dataset-service-" + cfg.ConsumerName,
			Consumer: cfg.ConsumerName,
			Stream:   events.DatasetEventsStream,
			Handler:  datasetCommands.HandleDatasetEvent,
			Logger:   logger,
		})
		if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("subscriber stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("dataset service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

// newRand seeds the generator from seed, or from the OS when seed is nil.
func newRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	var buf [16]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(buf[:8]), binary.LittleEndian.Uint64(buf[8:])))
}
