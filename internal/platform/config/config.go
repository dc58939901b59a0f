package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Event drivers.
const (
	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsRedis = "redis"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	RunMigrations  bool
	MigrationsPath string

	JWTSecret   string
	AuthEnabled bool

	// Requests per minute per client IP, in ulule/limiter format (e.g. "100-M").
	RateLimit          string
	CORSAllowedOrigins []string
	PosthogAPIKey      string

	EventsDriver string
	KafkaBrokers []string
	KafkaTopic   string
	RedisURL     string
	RedisChannel string

	// Posting engine
	BalanceRule                 string
	PostingMaxAttempts          int
	PostingRetryInitialInterval time.Duration
	PostingRetryMaxInterval     time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Actual environment variables override .env values, which override defaults.
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("STORE_DRIVER", StorePostgres)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("EVENTS_DRIVER", EventsNone)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "ledger.journals")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_CHANNEL", "ledger.journals")
	v.SetDefault("LEDGER_BALANCE_RULE", "additive")
	v.SetDefault("POSTING_MAX_ATTEMPTS", 5)
	v.SetDefault("POSTING_RETRY_INITIAL_INTERVAL", "10ms")
	v.SetDefault("POSTING_RETRY_MAX_INTERVAL", "250ms")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	cfg.StoreDriver = strings.ToLower(v.GetString("STORE_DRIVER"))
	if cfg.StoreDriver != StoreMemory && cfg.StoreDriver != StorePostgres {
		log.Printf("Warning: Invalid value for STORE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StoreDriver, StorePostgres)
		cfg.StoreDriver = StorePostgres
	}
	if cfg.StoreDriver == StorePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = v.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")

	cfg.AuthEnabled = v.GetBool("AUTH_ENABLED")
	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RateLimit = v.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.PosthogAPIKey = v.GetString("POSTHOG_API_KEY")

	cfg.EventsDriver = strings.ToLower(v.GetString("EVENTS_DRIVER"))
	switch cfg.EventsDriver {
	case EventsNone, EventsKafka, EventsRedis:
	default:
		log.Printf("Warning: Invalid value for EVENTS_DRIVER ('%s'). Defaulting to %s.\n", cfg.EventsDriver, EventsNone)
		cfg.EventsDriver = EventsNone
	}
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = v.GetString("KAFKA_TOPIC")
	cfg.RedisURL = v.GetString("REDIS_URL")
	cfg.RedisChannel = v.GetString("REDIS_CHANNEL")

	cfg.BalanceRule = v.GetString("LEDGER_BALANCE_RULE")
	cfg.PostingMaxAttempts = v.GetInt("POSTING_MAX_ATTEMPTS")
	if cfg.PostingMaxAttempts < 1 {
		log.Printf("Warning: Invalid value for POSTING_MAX_ATTEMPTS (%d). Defaulting to 5.\n", cfg.PostingMaxAttempts)
		cfg.PostingMaxAttempts = 5
	}
	cfg.PostingRetryInitialInterval = durationOr(v, "POSTING_RETRY_INITIAL_INTERVAL", 10*time.Millisecond)
	cfg.PostingRetryMaxInterval = durationOr(v, "POSTING_RETRY_MAX_INTERVAL", 250*time.Millisecond)

	return cfg
}

// durationOr parses a duration setting (e.g., "60m", "1h"), falling back on bad input.
func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
