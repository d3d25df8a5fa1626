package config

import (
	"os"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Classifier
	ClassifierURL    string // AI classification endpoint
	ClassifierAPIKey string

	// Intake
	IntakeURL    string        // out-of-band submission queue; empty disables polling
	PollInterval time.Duration // env: POLL_INTERVAL, default: 5s

	// Notifications
	NotifyWebhookURL string // notification center endpoint; empty logs instead

	// Auth
	APIToken string // static bearer token for /api; empty disables the gate

	// Redis (rate limiter storage); empty uses in-memory
	RedisAddr string

	// CORS
	CORSOrigins string // Comma-separated allowed origins
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		ClassifierURL:    getEnv("CLASSIFIER_URL", ""),
		ClassifierAPIKey: getEnv("CLASSIFIER_API_KEY", ""),
		IntakeURL:        getEnv("INTAKE_URL", ""),
		PollInterval:     getEnvDuration("POLL_INTERVAL", 5*time.Second),
		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		APIToken:         getEnv("MOD_API_TOKEN", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
