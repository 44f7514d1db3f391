package config

const (
	EnvSiteBaseURL       = "SITE_BASE_URL"
	EnvHTTPClientTimeout = "HTTP_CLIENT_TIMEOUT"
	EnvBindingsFile      = "BINDINGS_FILE"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

// Keys lists every key Load reads, for binding flags and env in the CLI.
var Keys = []string{
	EnvSiteBaseURL, EnvHTTPClientTimeout, EnvBindingsFile,
	EnvPort, EnvLogLevel, EnvLogFormat,
	EnvRateLimitRPS, EnvRateLimitBurst,
	EnvRequestTimeout, EnvMaxRequestSize,
	EnvReadTimeout, EnvWriteTimeout, EnvIdleTimeout, EnvShutdownTimeout,
}
