package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	StatsWorkerCount int
	StatsQueueSize   int
	HeatmapMonths    int
	DueLimit         int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:caseflash.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		StatsWorkerCount: envIntOr("STATS_WORKER_COUNT", 1),
		StatsQueueSize:   envIntOr("STATS_QUEUE_SIZE", 16),
		HeatmapMonths:    envIntOr("HEATMAP_MONTHS", 3),
		DueLimit:         envIntOr("DUE_LIMIT", 20),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
