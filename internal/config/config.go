package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// service configuration, read from the environment
type Config struct {
	Port     string
	Postgres PostgresConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret       string
	SessionIdleTimeout  time.Duration
	SessionCookieSecure bool

	CORSAllowedOrigins []string

	LevelSeedFile         string
	StatsSnapshotSchedule string
	DBConnectTimeout      time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

// DSN renders the keyword/value connection string understood by pgx.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.DB, p.Port, p.SSLMode)
}

// loads configuration from environment variables
func Load() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	idle, err := getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	secure, err := getEnvBool("SESSION_COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	connectTimeout, err := getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		Postgres: PostgresConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		RedisAddr:             getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		SessionSecret:         getEnvOrDefault("SESSION_SECRET", "dev"),
		SessionIdleTimeout:    idle,
		SessionCookieSecure:   secure,
		CORSAllowedOrigins:    splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LevelSeedFile:         os.Getenv("LEVEL_SEED_FILE"),
		StatsSnapshotSchedule: getEnvOrDefault("STATS_SNAPSHOT_SCHEDULE", "@every 1m"),
		DBConnectTimeout:      connectTimeout,
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	var missing []string
	if config.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if config.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if config.Postgres.DB == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if config.SessionIdleTimeout <= 0 {
		return errors.New("SESSION_IDLE_TIMEOUT must be positive")
	}
	if _, err := cron.ParseStandard(config.StatsSnapshotSchedule); err != nil {
		return fmt.Errorf("invalid STATS_SNAPSHOT_SCHEDULE %q: %w", config.StatsSnapshotSchedule, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
