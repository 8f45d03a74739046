package config

import (
	"os"
	"strconv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Personality     string
	PersonalityFile string
	TimeLimit       int
	MinIterations   int
	LookupURL       string
	Seed            int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Personality:     envOrDefault("AI_PERSONALITY", "simple"),
		PersonalityFile: os.Getenv("AI_PERSONALITY_FILE"),
		TimeLimit:       envIntOrDefault("AI_TIME_LIMIT", 30),
		MinIterations:   envIntOrDefault("AI_MIN_ITERATIONS", 50),
		LookupURL:       envOrDefault("AI_LOOKUP_URL", "memory://"),
		Seed:            int64(envIntOrDefault("AI_SEED", 0)),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
