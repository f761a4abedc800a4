package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds producer tuning. Brokers and topics live in the service config.
type Config struct {
	ProducerMaxAttempts    int
	ProducerBatchTimeout   time.Duration
	ProducerRequireAcks    int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression    string // "none", "gzip", "snappy", "lz4", "zstd"
	ProducerAsync          bool
	AllowAutoTopicCreation bool

	// PublishTimeout bounds one best-effort publish after a committed write.
	PublishTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		ProducerMaxAttempts:    getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout:   getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:    getEnvInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:    getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression),
		ProducerAsync:          getEnvBool(EnvKafkaProducerAsync, DefaultProducerAsync),
		AllowAutoTopicCreation: getEnvBool(EnvKafkaAutoCreateTopics, DefaultAllowAutoTopicCreate),
		PublishTimeout:         getEnvDuration(EnvKafkaPublishTimeout, DefaultPublishTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		ProducerMaxAttempts:    DefaultProducerMaxAttempts,
		ProducerBatchTimeout:   DefaultProducerBatchTimeout,
		ProducerRequireAcks:    DefaultProducerRequireAcks,
		ProducerCompression:    DefaultProducerCompression,
		ProducerAsync:          DefaultProducerAsync,
		AllowAutoTopicCreation: DefaultAllowAutoTopicCreate,
		PublishTimeout:         DefaultPublishTimeout,
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if cfg.ProducerMaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts))
	}

	if cfg.ProducerBatchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout))
	}

	validCompressions := map[string]bool{
		"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
	}
	if !validCompressions[cfg.ProducerCompression] {
		errors = append(errors, fmt.Sprintf("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.ProducerCompression))
	}

	validAcks := map[int]bool{-1: true, 0: true, 1: true}
	if !validAcks[cfg.ProducerRequireAcks] {
		errors = append(errors, fmt.Sprintf("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks))
	}

	if cfg.PublishTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("PublishTimeout must be positive, got: %s", cfg.PublishTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Kafka configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
