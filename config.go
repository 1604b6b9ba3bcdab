package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the price tracker service.
type Config struct {
	Port string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TikiBaseURL     string
	RefreshInterval time.Duration
}

// LoadConfig reads configuration from environment variables. Database
// settings are read by the database package itself.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		TikiBaseURL:   os.Getenv("TIKI_BASE_URL"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	interval, err := time.ParseDuration(getEnv("REFRESH_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	if interval < time.Minute {
		return nil, fmt.Errorf("REFRESH_INTERVAL must be at least 1m, got %s", interval)
	}
	cfg.RefreshInterval = interval

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
