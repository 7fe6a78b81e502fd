package config

import (
	"os"
	"time"
)

// Config holds everything the API reads from the environment. A .env file
// is loaded by main before this runs, so plain os.Getenv is enough here.
type Config struct {
	Env        string // "development" or "production"
	Port       string
	DSN        string // MySQL DSN, must include parseTime=true
	RedisAddr  string
	JWTSecret  string
	SessionTTL time.Duration
	DataDir    string // legacy JSON collections, used by cmd/seed
}

func Load() *Config {
	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		Port:       getEnv("PORT", "8080"),
		DSN:        getEnv("DB_DSN", "root:root@tcp(127.0.0.1:3306)/techshop?parseTime=true"),
		RedisAddr:  getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-only-secret-change-me"),
		SessionTTL: 7 * 24 * time.Hour,
		DataDir:    getEnv("DATA_DIR", "data"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
