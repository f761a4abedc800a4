package main

import (
	"context"
	"time"

	"eventbook/internal/api"
	"eventbook/internal/registry"
	"eventbook/pkg/app"
	"eventbook/pkg/config"
	kafka_middleware "eventbook/pkg/kafka/middleware"
	"eventbook/pkg/middleware"
)

const startupTimeout = 30 * time.Second

func main() {
	cfg := config.Load(config.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	metrics := &kafka_middleware.Metrics{}
	reg, err := registry.Open(ctx, cfg, metrics)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize registry", "error", err)
	}

	// Warm the connection; a failure here is not fatal, the first request
	// retries it.
	if _, err := reg.Database(ctx); err != nil {
		cfg.Log.Warn("Database not reachable at startup", "error", err)
	}

	var store middleware.IdempotencyStore
	if rdb := reg.Redis(); rdb != nil {
		store = middleware.NewRedisIdempotencyStore(rdb, cfg.IdempotencyTTL, cfg.Log.Component("idempotency"))
	} else {
		store = middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	}

	application := app.NewApplication(cfg)
	application.SetApp(
		api.NewHealthHandler(reg, metrics, cfg.Log.Component("health")),
		api.NewRoutes(reg, cfg.Log),
		store,
	)
	application.OnShutdown(reg.Close)
	application.Run()
}
