package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/idempotency"
	"storefront/internal/infrastructure/kafka"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/infrastructure/redis"
	"storefront/internal/infrastructure/tracing"
	"storefront/internal/order"
	"storefront/internal/order/service"
	"storefront/internal/outbox"
	"storefront/internal/product"
	"storefront/internal/server"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Tracing.ServiceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.Endpoint, cfg.Tracing.ServiceName)
	if err != nil {
		zapLogger.Fatal("initialising tracing", zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer mysql.Close(db)
	zapLogger.Info("database connected")

	if cfg.Database.AutoMigrate {
		if err := mysql.Migrate(db); err != nil {
			zapLogger.Fatal("migrating database", zap.Error(err))
		}
	}

	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	var idempotencyMiddleware func(http.Handler) http.Handler
	if rdb != nil {
		defer rdb.Close()
		idempotencyMiddleware = idempotency.Middleware(idempotency.NewRedisStore(rdb, cfg.Redis.IdempotencyTTL), zapLogger)
		zapLogger.Info("idempotency keys enabled", zap.String("redis", cfg.Redis.Addr))
	}

	var events service.EventRecorder = outbox.NopRecorder{}
	relayDone := make(chan struct{})
	relayCtx, cancelRelay := context.WithCancel(context.Background())
	defer cancelRelay()
	if cfg.Outbox.Enabled {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()

		events = outbox.NewGormRecorder()
		relay := outbox.NewRelay(outbox.NewGormStore(db), publisher, zapLogger, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize)
		go func() {
			defer close(relayDone)
			relay.Run(relayCtx)
		}()
	} else {
		close(relayDone)
	}

	router := server.NewRouter(server.RouterDeps{
		Catalog:     product.NewModule(db, zapLogger),
		Cart:        cart.NewModule(db, zapLogger),
		Orders:      order.NewModule(db, cfg, events, zapLogger),
		Idempotency: idempotencyMiddleware,
		Logger:      zapLogger,
		Ready: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return sqlDB.PingContext(pingCtx)
		},
	})

	srv := server.New(cfg.Server, router, zapLogger)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}

	cancelRelay()
	select {
	case <-relayDone:
	case <-shutdownCtx.Done():
		zapLogger.Warn("outbox relay did not stop in time")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		zapLogger.Error("tracing shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
