package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the producer settings for telemetry export.
type Config struct {
	Brokers []string
	Topic   string

	MaxAttempts  int
	BatchTimeout time.Duration
	RequireAcks  int    // -1 = all, 0 = none, 1 = leader only
	Compression  string // "none", "gzip", "snappy", "lz4", "zstd"
	Async        bool
}

// Load reads the Kafka settings from the environment. Telemetry export is
// off when KAFKA_BROKERS is unset.
func Load() *Config {
	return &Config{
		Brokers:      splitBrokers(getEnvStr(EnvKafkaBrokers, "")),
		Topic:        getEnvStr(EnvKafkaTopic, DefaultTopic),
		MaxAttempts:  getEnvInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		BatchTimeout: getEnvDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		RequireAcks:  getEnvInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		Compression:  getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression),
		Async:        getEnvBool(EnvKafkaProducerAsync, DefaultProducerAsync),
	}
}

func (cfg *Config) Enabled() bool {
	return len(cfg.Brokers) > 0
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (cfg *Config) Validate() error {
	var errors []string

	if len(cfg.Brokers) == 0 {
		errors = append(errors, "At least one Kafka broker is required")
	}
	if cfg.Topic == "" {
		errors = append(errors, "Topic cannot be empty")
	}
	if cfg.MaxAttempts <= 0 {
		errors = append(errors, fmt.Sprintf("MaxAttempts must be positive, got: %d", cfg.MaxAttempts))
	}
	if cfg.BatchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("BatchTimeout must be positive, got: %s", cfg.BatchTimeout))
	}

	validCompressions := map[string]bool{
		"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true,
	}
	if !validCompressions[cfg.Compression] {
		errors = append(errors, fmt.Sprintf("Compression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.Compression))
	}

	validAcks := map[int]bool{-1: true, 0: true, 1: true}
	if !validAcks[cfg.RequireAcks] {
		errors = append(errors, fmt.Sprintf("RequireAcks must be -1, 0, or 1, got: %d", cfg.RequireAcks))
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

func (cfg *Config) LogConfiguration(logFunc func(msg string, keysAndValues ...any)) {
	if logFunc == nil {
		return
	}

	logFunc("Kafka configuration loaded successfully",
		"brokers", cfg.Brokers,
		"topic", cfg.Topic,
		"max_attempts", cfg.MaxAttempts,
		"batch_timeout", cfg.BatchTimeout,
		"require_acks", cfg.RequireAcks,
		"compression", cfg.Compression,
		"async", cfg.Async,
	)
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
