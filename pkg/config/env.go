package config

const (
	EnvMongoURI          = "MONGODB_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvEventCacheTTL = "EVENT_CACHE_TTL"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaEventsTopic   = "KAFKA_TOPIC_EVENTS"
	EnvKafkaBookingsTopic = "KAFKA_TOPIC_BOOKINGS"
)
