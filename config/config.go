package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Env               string
	DBPath            string
	DefaultBaseURL    string
	RetentionDuration time.Duration
	PruneInterval     time.Duration
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:              GetEnv("PORT", "2586"),
		Env:               GetEnv("ENV", "development"),
		DBPath:            GetEnv("DB_PATH", "./data/push-tray.db"),
		DefaultBaseURL:    GetEnv("DEFAULT_BASE_URL", "https://ntfy.sh"),
		RetentionDuration: GetDurationEnv("NOTIFICATION_RETENTION", 90*24*time.Hour),
		PruneInterval:     GetDurationEnv("PRUNE_INTERVAL", 12*time.Hour),
	}

	if AppConfig.DefaultBaseURL == "" {
		log.Fatal("DEFAULT_BASE_URL is required")
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDurationEnv reads a duration from the environment, accepting either a
// Go duration string ("72h") or a plain number of hours ("72").
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if hours, err := strconv.Atoi(value); err == nil {
		return time.Duration(hours) * time.Hour
	}
	log.Printf("invalid duration for %s: %q, using default %v", key, value, defaultValue)
	return defaultValue
}
