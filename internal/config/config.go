// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration of the wager engine.
type Config struct {
	ListenAddr string
	DBPath     string

	// Redis backs the session cache when set; otherwise the cache is
	// in-process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// HouseEdge applies to dice, limbo and mines multipliers.
	HouseEdge float64
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: envString("WAGERD_ADDR", ":8080"),
		DBPath:     envString("WAGERD_DB_PATH", "wagerd.db"),
		RedisAddr:  envString("WAGERD_REDIS_ADDR", ""),
		HouseEdge:  0.01,
	}
	cfg.RedisPassword = envString("WAGERD_REDIS_PASSWORD", "")

	var err error
	if cfg.RedisDB, err = envInt("WAGERD_REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.HouseEdge, err = envFloat("WAGERD_HOUSE_EDGE", cfg.HouseEdge); err != nil {
		return nil, err
	}
	if cfg.HouseEdge < 0 || cfg.HouseEdge >= 1 {
		return nil, fmt.Errorf("WAGERD_HOUSE_EDGE must be in [0, 1), got %v", cfg.HouseEdge)
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, v)
	}
	return f, nil
}
