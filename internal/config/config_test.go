package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ksen/caseflash/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:caseflash.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 1, cfg.StatsWorkerCount)
	assert.Equal(t, 16, cfg.StatsQueueSize)
	assert.Equal(t, 3, cfg.HeatmapMonths)
	assert.Equal(t, 20, cfg.DueLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("DB_PATH", "file:test.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STATS_WORKER_COUNT", "4")
	t.Setenv("HEATMAP_MONTHS", "6")

	cfg := config.Load()

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "file:test.db", cfg.DBPath)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 4, cfg.StatsWorkerCount)
	assert.Equal(t, 6, cfg.HeatmapMonths)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("STATS_QUEUE_SIZE", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, 16, cfg.StatsQueueSize)
}
