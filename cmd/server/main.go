package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/config"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/database"
	grpcServer "github.com/wekeepgrowing/semo-fleet/internal/infrastructure/grpc"
	httpServer "github.com/wekeepgrowing/semo-fleet/internal/infrastructure/http"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/lock"
	"github.com/wekeepgrowing/semo-fleet/internal/infrastructure/metrics"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase"
	"github.com/wekeepgrowing/semo-fleet/pkg/logger"
	"github.com/wekeepgrowing/semo-fleet/pkg/messaging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger = zapLogger.With(zap.String("service", cfg.Service.Name))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
	}

	repos := database.NewRepositories(db, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis carries audit events and, when configured, the distributed owner lock
	deps := usecase.Dependencies{}
	var rawRedis *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err := messaging.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		deps.Publisher = redisClient
		rawRedis = redisClient.Raw()
	} else {
		zapLogger.Warn("Redis not configured; audit events will not be published")
	}

	deps.Locker, err = lock.New(cfg.Compliance, rawRedis, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize owner lock", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheusRecorder(registry)
	deps.Recorder = recorder

	useCases := usecase.SetupUseCases(zapLogger, cfg, repos, deps)

	// Initialize servers
	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, useCases, recorder.Handler())

	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
