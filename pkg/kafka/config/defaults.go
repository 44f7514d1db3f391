package kafka_config

import "time"

const (
	DefaultTopic = "site.ui-events"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 50 * time.Millisecond
	DefaultProducerRequireAcks  = 1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = true
)
