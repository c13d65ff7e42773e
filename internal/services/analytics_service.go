package services

import (
	"context"
	"time"

	"github.com/ksen/caseflash/internal/analytics"
	"github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/history"
	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
)

// AnalyticsService exposes the derived views over the session history. Every
// call recomputes from a fresh snapshot; nothing is incrementally cached, so
// resorting and refiltering always see consistent data.
type AnalyticsService interface {
	RankedTopics(ctx context.Context, mode, filter string) ([]models.TopicStat, error)
	Rollups(ctx context.Context) (*models.Rollups, error)
	Timeline(ctx context.Context) ([]models.TimelinePoint, error)
	Heatmap(ctx context.Context) (*models.Heatmap, error)
	Summary(ctx context.Context) (*models.LifetimeSummary, error)
}

type analyticsService struct {
	store         *history.Store
	questions     repository.QuestionRepository
	heatmapMonths int
	now           func() time.Time
}

// NewAnalyticsService creates an AnalyticsService over the given history
// store and question library.
func NewAnalyticsService(store *history.Store, questions repository.QuestionRepository, heatmapMonths int) AnalyticsService {
	return &analyticsService{
		store:         store,
		questions:     questions,
		heatmapMonths: heatmapMonths,
		now:           time.Now,
	}
}

func (s *analyticsService) questionIndex(ctx context.Context) (map[string]models.Question, error) {
	questions, err := s.questions.All(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		index[q.ID] = q
	}
	return index, nil
}

func (s *analyticsService) RankedTopics(ctx context.Context, mode, filter string) ([]models.TopicStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("ranking topics: mode=%s, filter=%q", mode, filter)

	index, err := s.questionIndex(ctx)
	if err != nil {
		log.Error("failed to load question index: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return analytics.RankedTopics(s.store.Snapshot(), index, analytics.ParseSortMode(mode), filter), nil
}

func (s *analyticsService) Rollups(ctx context.Context) (*models.Rollups, error) {
	log := logger.FromContext(ctx)
	log.Debug("building categorical rollups")

	index, err := s.questionIndex(ctx)
	if err != nil {
		log.Error("failed to load question index: %v", err)
		return nil, errors.NewInternalError(err)
	}
	rollups := analytics.BuildRollups(s.store.Snapshot(), index)
	return &rollups, nil
}

func (s *analyticsService) Timeline(ctx context.Context) ([]models.TimelinePoint, error) {
	return analytics.Timeline(s.store.Snapshot()), nil
}

func (s *analyticsService) Heatmap(ctx context.Context) (*models.Heatmap, error) {
	heatmap := analytics.BuildHeatmap(s.store.Snapshot(), s.now(), s.heatmapMonths)
	return &heatmap, nil
}

func (s *analyticsService) Summary(ctx context.Context) (*models.LifetimeSummary, error) {
	summary := analytics.Summarize(s.store.Snapshot(), s.now())
	return &summary, nil
}
