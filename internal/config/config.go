package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string

	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Reservation hold defaults.
	HoldDurationMinutes int
	HoldSweepInterval   time.Duration

	// Availability retention horizon in days for non-booked slots.
	AvailabilityRetentionDays int

	// AMQP broker URL for the notification bus. Empty falls back to the log
	// publisher.
	AMQPURL string

	// SMTP settings for outbound mail. Empty SMTPAddr falls back to the log
	// sender.
	SMTPAddr string
	SMTPFrom string

	// Directory for uploaded DJ photos.
	UploadDir string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origins (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Default hold duration in minutes (default: 30)
	cfg.HoldDurationMinutes, err = getEnvAsInt("HOLD_DURATION_MINUTES", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid HOLD_DURATION_MINUTES: %w", err)
	}

	// How often the sweeper expires stale holds (default: 1m)
	cfg.HoldSweepInterval, err = getEnvAsDuration("HOLD_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid HOLD_SWEEP_INTERVAL: %w", err)
	}

	// Retention horizon for old availability slots (default: 90 days)
	cfg.AvailabilityRetentionDays, err = getEnvAsInt("AVAILABILITY_RETENTION_DAYS", 90)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_RETENTION_DAYS: %w", err)
	}

	cfg.AMQPURL = getEnv("AMQP_URL", "")
	cfg.SMTPAddr = getEnv("SMTP_ADDR", "")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "bookings@localhost")
	cfg.UploadDir = getEnv("UPLOAD_DIR", "./uploads")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}
	return val, nil
}

// getEnvAsDuration retrieves an environment variable as a time.Duration.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}
	return val, nil
}
