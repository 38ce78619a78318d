package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	LogLevel     string
	Port         uint16
	BaseURL      string
	CookieSecure bool
	DatabaseUrl  string
	CORSOrigins  []string
	Session      SessionConfig
	Catalog      CatalogConfig
	Storage      StorageConfig
	Postal       PostalConfig
	Events       EventsConfig
	Metrics      MetricsConfig
}

// CatalogConfig selects where the product catalog is loaded from.
type CatalogConfig struct {
	Source string // "static" or "postgres"
}

// SessionConfig controls how long idle shopper sessions stay in memory.
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// StorageConfig configures the key-value store that holds cart and wishlist snapshots.
type StorageConfig struct {
	Provider  string // "memory", "local", "redis", "postgres" or "noop"
	LocalPath string
	RedisAddr string
	RedisTTL  time.Duration // 0 keeps snapshots forever
	KeyPrefix string
	Timeout   time.Duration // per-call budget for a read or write
}

// PostalConfig configures the CEP lookup service.
type PostalConfig struct {
	BaseURL string
	Timeout time.Duration
}

// EventsConfig configures order event publishing.
type EventsConfig struct {
	Driver       string // "none", "nats" or "kafka"
	NATSURL      string
	KafkaBrokers string // comma-separated host:port list
	Subject      string // NATS subject or Kafka topic
}

type MetricsConfig struct {
	Namespace string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:          getEnv("ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvInt("PORT", 3000),
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		DatabaseUrl:  getEnv("DATABASE_URL", ""),
		CORSOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		Session: SessionConfig{
			IdleTimeout:   getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Catalog: CatalogConfig{
			Source: getEnv("CATALOG_SOURCE", "static"),
		},
		Storage: StorageConfig{
			Provider:  getEnv("STORAGE_PROVIDER", "memory"),
			LocalPath: getEnv("LOCAL_STORAGE_PATH", "./data/snapshots"),
			RedisAddr: getEnv("REDIS_ADDR", ""),
			RedisTTL:  getEnvDuration("REDIS_TTL", 30*24*time.Hour),
			KeyPrefix: getEnv("STORAGE_KEY_PREFIX", ""),
			Timeout:   getEnvDuration("STORAGE_TIMEOUT", 2*time.Second),
		},
		Postal: PostalConfig{
			BaseURL: getEnv("POSTAL_BASE_URL", "https://viacep.com.br/ws"),
			Timeout: getEnvDuration("POSTAL_TIMEOUT", 5*time.Second),
		},
		Events: EventsConfig{
			Driver:       getEnv("EVENTS_DRIVER", "none"),
			NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Subject:      getEnv("EVENTS_SUBJECT", "orders.placed"),
		},
		Metrics: MetricsConfig{
			Namespace: getEnv("METRICS_NAMESPACE", "wagsales"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Catalog.Source != "static" && cfg.Catalog.Source != "postgres" {
		return nil, fmt.Errorf("CATALOG_SOURCE must be static or postgres, got %q", cfg.Catalog.Source)
	}

	if cfg.NeedsDatabase() && cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL required when catalog or storage uses postgres")
	}

	switch cfg.Events.Driver {
	case "none", "nats", "kafka":
	default:
		return nil, fmt.Errorf("EVENTS_DRIVER must be none, nats or kafka, got %q", cfg.Events.Driver)
	}

	if cfg.Storage.Provider == "redis" && cfg.Storage.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR required when using redis storage")
	}

	return cfg, nil
}

// NeedsDatabase reports whether any component is backed by Postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Catalog.Source == "postgres" || c.Storage.Provider == "postgres"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
