package main

import (
	"context"
	"time"

	mongomigrations "eventbook/internal/migrations/mongo"
	"eventbook/pkg/config"
	mongodb "eventbook/pkg/db/mongo"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName)

	manager := mongodb.NewManager(cfg.MongoURI,
		mongodb.WithLogger(cfg.Log),
		mongodb.WithConnectTimeout(cfg.MongoConnTimeout),
	)
	defer func() {
		if err := manager.Disconnect(context.Background()); err != nil {
			cfg.Log.Error("Failed to disconnect", "error", err)
		}
	}()

	client, err := manager.Connect(ctx)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := mongomigrations.RunMigration(ctx, client.Database(cfg.MongoDatabaseName), cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
