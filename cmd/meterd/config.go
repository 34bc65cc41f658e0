package main

import "time"

// AppConfig holds process-level settings. Backend connection settings live in
// each infrastructure package's own Config.
type AppConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"meterd"`
	LogLevel string `env:"LOG_LEVEL"`

	StoreDriver      string        `env:"STORE_DRIVER" envDefault:"memory"`
	LimitsFile       string        `env:"LIMITS_FILE"`
	StrictLimits     bool          `env:"USAGE_STRICT_LIMITS" envDefault:"false"`
	StoreTimeout     time.Duration `env:"USAGE_STORE_TIMEOUT" envDefault:"3s"`
	MetricsNamespace string        `env:"METRICS_NAMESPACE" envDefault:"protocol_zero"`

	InsightCache     string        `env:"INSIGHT_CACHE" envDefault:"memory"`
	InsightCacheTTL  time.Duration `env:"INSIGHT_CACHE_TTL" envDefault:"24h"`
	InsightCacheSize int           `env:"INSIGHT_CACHE_SIZE" envDefault:"1024"`
	InsightTimeout   time.Duration `env:"INSIGHT_GENERATE_TIMEOUT" envDefault:"30s"`

	AdminToken string `env:"ADMIN_TOKEN"`

	// TrustedIPHeaders lists proxy headers consulted for the client IP, in order.
	TrustedIPHeaders []string `env:"TRUSTED_IP_HEADERS" envSeparator:","`
}

const (
	driverMemory   = "memory"
	driverMongo    = "mongo"
	driverRedis    = "redis"
	driverPostgres = "postgres"
)
