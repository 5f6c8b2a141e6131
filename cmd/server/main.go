package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go-gin-event-manager/config"
	_ "go-gin-event-manager/docs"
	"go-gin-event-manager/internal/cache"
	"go-gin-event-manager/internal/database"
	"go-gin-event-manager/internal/handler"
	"go-gin-event-manager/internal/middleware"
	"go-gin-event-manager/internal/queue"
	"go-gin-event-manager/internal/repository"
	"go-gin-event-manager/internal/service"
	"go-gin-event-manager/internal/worker"
	"go-gin-event-manager/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		logger.L.Error("server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 目前沒有 exporter，span 只用於 trace_id 關聯 log
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer rdb.Close()

	activityQueue, err := newActivityQueue(cfg, rdb)
	if err != nil {
		return err
	}

	txManager := repository.NewTxManager(pool)
	eventRepo := repository.NewEventRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	badges := cache.NewNotificationBadgeCache(rdb, cfg.Activity.BadgeCacheTTL)

	notificationService := service.NewNotificationService(notificationRepo, badges)
	eventService := service.NewEventService(txManager, eventRepo, notificationService, activityQueue)
	dispatcher := service.NewQuickActionDispatcher(eventService)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Tracing(), middleware.RequestLogger())

	handler.NewEventHandler(eventService, dispatcher).RegisterRoutes(router)
	handler.NewNotificationHandler(notificationService).RegisterRoutes(router)
	handler.NewHealthHandler(map[string]handler.HealthCheck{
		"postgres": pool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}).RegisterRoutes(router)
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.WrapHandler))

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.NewActivityWorker(notificationService, activityQueue).Start(gctx)
	})

	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newActivityQueue(cfg *config.Config, rdb *redis.Client) (queue.ActivityQueue, error) {
	switch cfg.Activity.Queue {
	case "memory":
		return queue.NewMemoryActivityQueue(cfg.Activity.MemoryBufferSize, &queue.MemoryActivityQueueConfig{
			MaxRetryCount: cfg.Activity.MaxRetryCount,
			RetryDelay:    cfg.Activity.RetryDelay,
		}), nil
	case "redis":
		q, err := queue.NewRedisStreamActivityQueue(rdb, cfg.Activity.ConsumerID, &queue.RedisStreamActivityQueueConfig{
			ClaimMinIdleTime:   cfg.Activity.ClaimMinIdleTime,
			MaxRetryCount:      cfg.Activity.MaxRetryCount,
			ReadGroupBlockTime: cfg.Activity.ReadGroupBlockTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize activity queue: %w", err)
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unknown activity queue %q", cfg.Activity.Queue)
	}
}
