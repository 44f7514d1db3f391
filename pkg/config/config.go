package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	kafka_config "sitekit/pkg/kafka/config"
	"sitekit/pkg/logger"
)

// Getter returns the raw value for key, or "" when it is unset.
type Getter func(key string) string

type Config struct {
	SiteBaseURL       string
	HTTPClientTimeout time.Duration
	BindingsFile      string

	Port string

	RateLimitRPS   float64
	RateLimitBurst int

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Kafka *kafka_config.Config

	Log *logger.Logger
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored; variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load(serviceName string) (*Config, error) {
	return LoadFrom(serviceName, os.Getenv)
}

// LoadFrom reads the configuration through get, falling back to defaults for
// unset or unparsable values, and validates the result.
func LoadFrom(serviceName string, get Getter) (*Config, error) {
	cfg := &Config{
		SiteBaseURL:       getStr(get, EnvSiteBaseURL, DefaultSiteBaseURL),
		HTTPClientTimeout: getDuration(get, EnvHTTPClientTimeout, DefaultHTTPClientTimeout),
		BindingsFile:      getStr(get, EnvBindingsFile, ""),

		Port: getStr(get, EnvPort, DefaultPort),

		RateLimitRPS:   getFloat(get, EnvRateLimitRPS, DefaultRateLimitRPS),
		RateLimitBurst: getNum(get, EnvRateLimitBurst, DefaultRateLimitBurst),

		RequestTimeout: getDuration(get, EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getNum(get, EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getDuration(get, EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getDuration(get, EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getDuration(get, EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getDuration(get, EnvShutdownTimeout, DefaultShutdownTimeout),

		Kafka: kafka_config.Load(),

		Log: logger.New(logger.Config{
			Level:     getStr(get, EnvLogLevel, DefaultLogLevel),
			Format:    getStr(get, EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if u, err := url.Parse(cfg.SiteBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("SiteBaseURL must be an absolute http(s) URL, got: %s", cfg.SiteBaseURL))
	}

	if cfg.HTTPClientTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("HTTPClientTimeout must be positive, got: %s", cfg.HTTPClientTimeout))
	}
	if cfg.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRPS must be positive, got: %v", cfg.RateLimitRPS))
	}
	if cfg.RateLimitBurst <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.Kafka != nil && cfg.Kafka.Enabled() {
		if err := cfg.Kafka.Validate(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"site_base_url", cfg.SiteBaseURL,
		"http_client_timeout", cfg.HTTPClientTimeout,
		"bindings_file", cfg.BindingsFile,
		"port", cfg.Port,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"telemetry_export", cfg.Kafka != nil && cfg.Kafka.Enabled(),
	)
	if cfg.Kafka != nil && cfg.Kafka.Enabled() {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}

func getStr(get Getter, key, fallback string) string {
	if value := get(key); value != "" {
		return value
	}
	return fallback
}

func getNum(get Getter, key string, fallback int) int {
	if value := get(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(get Getter, key string, fallback float64) float64 {
	if value := get(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(get Getter, key string, fallback time.Duration) time.Duration {
	if value := get(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
