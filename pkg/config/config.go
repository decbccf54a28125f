package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	StoreDriver   string
	DatabaseURL   string
	DBMaxConns    int
	RunMigrations bool
	RedisURL      string

	JWTSecret string
	JWTIssuer string

	SchedulerEnabled         bool
	SchedulerIntervalMinutes int
	NotificationDedupeWindow time.Duration

	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PGSQL_MAX_CONNS", 10)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "finance-tracker")
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_INTERVAL_MINUTES", 15)
	v.SetDefault("NOTIFICATION_DEDUPE_WINDOW", "24h")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		LogLevel:                 strings.ToLower(v.GetString("LOG_LEVEL")),
		StoreDriver:              strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:              v.GetString("PGSQL_URL"),
		DBMaxConns:               v.GetInt("PGSQL_MAX_CONNS"),
		RunMigrations:            v.GetBool("RUN_MIGRATIONS"),
		RedisURL:                 v.GetString("REDIS_URL"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		JWTIssuer:                v.GetString("JWT_ISSUER"),
		SchedulerEnabled:         v.GetBool("SCHEDULER_ENABLED"),
		SchedulerIntervalMinutes: v.GetInt("SCHEDULER_INTERVAL_MINUTES"),
		RateLimit:                v.GetString("RATE_LIMIT"),
	}

	window, err := time.ParseDuration(v.GetString("NOTIFICATION_DEDUPE_WINDOW"))
	if err != nil || window <= 0 {
		window = 24 * time.Hour
		log.Printf("Warning: invalid NOTIFICATION_DEDUPE_WINDOW. Defaulting to %s.\n", window)
	}
	cfg.NotificationDedupeWindow = window

	if cfg.SchedulerIntervalMinutes <= 0 {
		cfg.SchedulerIntervalMinutes = 15
		log.Printf("Warning: invalid SCHEDULER_INTERVAL_MINUTES. Defaulting to %d.\n", cfg.SchedulerIntervalMinutes)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}
