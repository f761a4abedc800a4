package config

import "time"

const (
	ServiceName = "eventbook"

	// Local development only. Production must set MONGODB_URI.
	DefaultMongoURI          = "mongodb://localhost:27017/eventbook"
	DefaultMongoDatabaseName = "eventbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	MongoMaxPoolSize            = 10
	MongoServerSelectionTimeout = 5 * time.Second
	MongoSocketTimeout          = 45 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB
	DefaultIdempotencyTTL = 24 * time.Hour

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultEventCacheTTL = 5 * time.Minute

	DefaultKafkaEventsTopic   = "eventbook.events"
	DefaultKafkaBookingsTopic = "eventbook.bookings"

	DefaultPaginationLimit = 100
)

// Event modes accepted by the events collection.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

var EventModes = []string{ModeOnline, ModeOffline, ModeHybrid}
