package registry

import (
	"context"
	"fmt"

	"eventbook/internal/events/cache"
	"eventbook/pkg/config"
	mongodb "eventbook/pkg/db/mongo"
	redisdb "eventbook/pkg/db/redis"
	"eventbook/pkg/kafka"
	kafka_config "eventbook/pkg/kafka/config"
	kafka_middleware "eventbook/pkg/kafka/middleware"
)

// Open builds a registry from cfg. The event cache is enabled when
// REDIS_ADDR is set and reachable; publishing is enabled when KAFKA_BROKERS
// is set. Neither is required for the core to work.
func Open(ctx context.Context, cfg *config.Config, metrics *kafka_middleware.Metrics) (*Registry, error) {
	manager := mongodb.Default(cfg.MongoURI,
		mongodb.WithLogger(cfg.Log.Component("mongo")),
		mongodb.WithConnectTimeout(cfg.MongoConnTimeout),
	)

	var opts []Option

	if cfg.RedisAddr != "" {
		rdb, err := redisdb.NewClient(ctx, cfg)
		if err != nil {
			cfg.Log.Warn("Event cache disabled", "redis_addr", cfg.RedisAddr, "error", err)
		} else {
			opts = append(opts,
				WithEventCache(cache.NewRedisEventCache(rdb, cfg.EventCacheTTL, cfg.Log.Component("cache"))),
				withRedis(rdb),
			)
			cfg.Log.Info("Event cache enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.EventCacheTTL)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load kafka config: %w", err)
		}
		events, err := newPublisher(cfg, kafkaCfg, cfg.KafkaEventsTopic, metrics)
		if err != nil {
			return nil, err
		}
		bookings, err := newPublisher(cfg, kafkaCfg, cfg.KafkaBookingsTopic, metrics)
		if err != nil {
			_ = events.Close()
			return nil, err
		}
		opts = append(opts, WithPublishers(events, bookings))
		cfg.Log.Info("Domain event publishing enabled",
			"brokers", cfg.KafkaBrokers,
			"events_topic", cfg.KafkaEventsTopic,
			"bookings_topic", cfg.KafkaBookingsTopic,
		)
	}

	return New(cfg, manager, opts...), nil
}

func newPublisher(cfg *config.Config, kafkaCfg *kafka_config.Config, topic string, metrics *kafka_middleware.Metrics) (kafka.Publisher, error) {
	log := cfg.Log.Component("kafka")
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, topic, kafkaCfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer for %s: %w", topic, err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
	if metrics != nil {
		producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics))
	}
	return kafka.NewPublisher(producer, config.ServiceName, kafkaCfg.PublishTimeout, log), nil
}
