// Package config centralises configuration parsing for the workout log service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

// MinSecretBytes is the shortest JWT signing secret accepted at startup.
const MinSecretBytes = 32

// Config captures runtime configuration values for the service.
type Config struct {
	HTTPAddress       string
	MetricsAddress    string // Empty serves /metrics on the API listener.
	CORSAllowedOrigin string
	PostgresURL       string // Empty selects the in-memory store.
	AutoMigrate       bool

	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	BcryptCost    int
	CatalogAdmins []string

	KafkaBrokers       []string
	SchemaRegistryURL  string
	OutboxEnabled      bool
	OutboxTopic        string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	DLQPollInterval    time.Duration // Interval between DLQ polling iterations.
	DLQMaxRetries      int           // Maximum number of DLQ retry attempts before quarantine.
	DLQBaseDelay       time.Duration // Base delay used for exponential backoff.
	ConsumerGroupID    string

	LogLevel  string
	LogFormat string
}

// LoadEnvFile merges variables from a dotenv file into the process
// environment. Variables already set are left untouched; a missing file is
// not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return oops.Code("config_env_file").With("path", path).Wrap(err)
	}
	return nil
}

// Load reads environment variables into Config, applying defaults for local
// dev. JWT_SECRET has no default and must be set.
func Load() (Config, error) {
	cfg := LoadWorker()
	if cfg.JWTSecret == "" {
		return Config{}, oops.Code("config_invalid").With("key", "JWT_SECRET").Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < MinSecretBytes {
		return Config{}, oops.Code("config_invalid").With("key", "JWT_SECRET").
			Errorf("JWT_SECRET must be at least %d bytes", MinSecretBytes)
	}
	return cfg, nil
}

// LoadWorker reads the same variables as Load without requiring the token
// secret. Background workers and migrations never sign or verify tokens.
func LoadWorker() Config {
	cfg := Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8080"),
		MetricsAddress:     getEnv("METRICS_ADDRESS", ""),
		CORSAllowedOrigin:  getEnv("CORS_ALLOWED_ORIGIN", "*"),
		PostgresURL:        getEnv("POSTGRES_URL", ""),
		AutoMigrate:        getBoolEnv("AUTO_MIGRATE", false),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "workoutlog"),
		JWTTTL:             getDurationEnv("JWT_TTL", time.Hour),
		BcryptCost:         getIntEnv("BCRYPT_COST", 10),
		CatalogAdmins:      splitAndTrim(getEnv("CATALOG_ADMINS", "")),
		KafkaBrokers:       splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
		SchemaRegistryURL:  getEnv("SCHEMA_REGISTRY_URL", ""),
		OutboxEnabled:      getBoolEnv("OUTBOX_ENABLED", false),
		OutboxTopic:        getEnv("OUTBOX_TOPIC", "workout_events"),
		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getIntEnv("OUTBOX_BATCH_SIZE", 25),
		DLQPollInterval:    getDurationEnv("DLQ_POLL_INTERVAL", 30*time.Second),
		DLQMaxRetries:      getIntEnv("DLQ_MAX_RETRIES", 5),
		DLQBaseDelay:       getDurationEnv("DLQ_BASE_DELAY", time.Minute),
		ConsumerGroupID:    getEnv("CONSUMER_GROUP_ID", "workoutlog-event-log"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = time.Hour
	}
	if cfg.DLQPollInterval <= 0 {
		cfg.DLQPollInterval = 30 * time.Second
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
