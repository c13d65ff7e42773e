package jobs

import (
	"context"
	"encoding/json"

	"github.com/ksen/caseflash/internal/analytics"
	"github.com/ksen/caseflash/internal/history"
	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/repository"
)

// LifetimeStatsKey is the app_state key holding the cached lifetime stats.
const LifetimeStatsKey = "lifetime_stats"

// LifetimeStatsJob recomputes the lifetime summary from the history store
// and persists it as a cache. The cache is replaced wholesale; the history
// log stays the source of truth.
type LifetimeStatsJob struct {
	Store *history.Store
	State repository.StateRepository
}

func (j *LifetimeStatsJob) Name() string { return "lifetime-stats-refresh" }

func (j *LifetimeStatsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("jobs")

	version := j.Store.Version()
	stats := analytics.DeriveLifetimeStats(j.Store.Snapshot())

	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := j.State.Set(ctx, LifetimeStatsKey, string(payload)); err != nil {
		return err
	}
	log.Debug("lifetime stats cache refreshed: version=%d, total=%d", version, stats.TotalQuestions)
	return nil
}
