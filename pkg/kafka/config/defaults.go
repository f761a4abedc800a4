package kafka_config

import "time"

const (
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all in-sync replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
	DefaultAllowAutoTopicCreate = false
	DefaultPublishTimeout       = 5 * time.Second
)
