package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecomm-platform/ecomm/internal/catalog/application"
	"github.com/ecomm-platform/ecomm/internal/catalog/domain"
	"github.com/ecomm-platform/ecomm/internal/catalog/infrastructure/client"
	"github.com/ecomm-platform/ecomm/internal/catalog/infrastructure/messaging"
	"github.com/ecomm-platform/ecomm/internal/catalog/infrastructure/persistence/mysql"
	httpserver "github.com/ecomm-platform/ecomm/internal/catalog/interfaces/http"
	"github.com/ecomm-platform/ecomm/pkg/config"
	"github.com/ecomm-platform/ecomm/pkg/db"
	"github.com/ecomm-platform/ecomm/pkg/logger"
	"github.com/ecomm-platform/ecomm/pkg/metrics"
	"github.com/ecomm-platform/ecomm/pkg/middleware"
	"github.com/ecomm-platform/ecomm/pkg/mq"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/admin/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	ctx := context.Background()

	// 3. 指标
	var metricsImpl *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsImpl = metrics.New(cfg.ServiceName)
		if err := metricsImpl.Register(); err != nil {
			logger.Fatal(ctx, "failed to register metrics", "error", err)
		}
		metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()
	if metricsImpl != nil {
		if err := database.RegisterMetricsCallbacks(metricsImpl.RecordDBQuery); err != nil {
			logger.Fatal(ctx, "failed to register database metrics callbacks", "error", err)
		}
	}
	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(&domain.Product{}); err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
		}
	}

	// 5. Kafka
	var publisher domain.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to create kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer)
	}

	// 6. 仓储、下游客户端与应用服务
	productRepo := mysql.NewProductRepository(database.DB)
	authClient := client.NewAuthClient(cfg.Clients)

	commandSvc := application.NewCatalogCommandService(productRepo, authClient, publisher, metricsImpl)
	querySvc := application.NewCatalogQueryService(productRepo, authClient)

	// 7. 接口层
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.GinRecoveryMiddleware())
	r.Use(middleware.GinLoggingMiddleware())
	r.Use(middleware.GinCORSMiddleware())
	if metricsImpl != nil {
		r.Use(middleware.GinMetricsMiddleware(metricsImpl))
	}

	handler := httpserver.NewHandler(commandSvc, querySvc)
	handler.RegisterRoutes(r.Group("/api"))

	// 8. 启动
	g, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info(gctx, "shutting down server...")
		case <-gctx.Done():
			logger.Info(gctx, "context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
	}
}
