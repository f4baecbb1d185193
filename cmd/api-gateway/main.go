package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-performance-api/api/swagger"
	"github.com/noah-isme/class-performance-api/internal/handler"
	"github.com/noah-isme/class-performance-api/internal/performance"
	"github.com/noah-isme/class-performance-api/internal/repository"
	"github.com/noah-isme/class-performance-api/internal/service"
	"github.com/noah-isme/class-performance-api/pkg/cache"
	"github.com/noah-isme/class-performance-api/pkg/config"
	"github.com/noah-isme/class-performance-api/pkg/database"
	"github.com/noah-isme/class-performance-api/pkg/jobs"
	"github.com/noah-isme/class-performance-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title Class Performance API
// @version 1.0.0
// @description Rankings, status classification, activity summaries and recommendations for class performance dashboards
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if cfg.Performance.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, performance cache disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Performance.CacheTTL, logr, cfg.Performance.CacheEnabled && redisClient != nil)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	perfSvc := service.NewPerformanceService(
		repository.NewPerformanceRepository(db),
		cacheSvc,
		metricsSvc,
		validator.New(),
		logr,
		service.PerformanceConfig{
			CacheTTL:    cfg.Performance.CacheTTL,
			DefaultTopN: cfg.Performance.DefaultTopN,
			Rules: performance.RecommendationRules{
				AbsenceLimit:    cfg.Recommendation.AbsenceLimit,
				MissedLimit:     cfg.Recommendation.MissedLimit,
				AttendanceFloor: cfg.Recommendation.AttendanceFloor,
				MentorAverage:   cfg.Recommendation.MentorAverage,
			},
		},
	)

	warmupSvc := service.NewWarmupService(perfSvc, metricsSvc, logr, jobs.QueueConfig{
		Workers:    cfg.Warmup.Workers,
		MaxRetries: cfg.Warmup.Retries,
		RetryDelay: cfg.Warmup.RetryDelay,
	})
	warmupSvc.Start(ctx)
	defer warmupSvc.Stop()
	perfSvc.SetWarmupScheduler(warmupSvc)

	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router := newRouter(cfg, logr, routerDeps{
		auth:        authSvc,
		metrics:     metricsSvc,
		performance: handler.NewPerformanceHandler(perfSvc),
		ops:         handler.NewMetricsHandler(metricsSvc, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
