package kafka_config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")
	t.Setenv(EnvKafkaTopic, "")

	cfg := Load()
	if cfg.Enabled() {
		t.Error("expected telemetry export to be disabled without brokers")
	}
	if cfg.Topic != DefaultTopic {
		t.Errorf("expected default topic, got %q", cfg.Topic)
	}
}

func TestLoad_Brokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " broker1:9092, ,broker2:9092 ")

	cfg := Load()
	if len(cfg.Brokers) != 2 || cfg.Brokers[0] != "broker1:9092" || cfg.Brokers[1] != "broker2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Brokers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := &Config{
		Topic:        "",
		MaxAttempts:  0,
		BatchTimeout: time.Millisecond,
		RequireAcks:  5,
		Compression:  "brotli",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"broker", "Topic", "MaxAttempts", "Compression", "RequireAcks"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got: %s", want, err)
		}
	}
}
