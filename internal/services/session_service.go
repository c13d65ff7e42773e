package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/history"
	"github.com/ksen/caseflash/internal/jobs"
	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
	"github.com/ksen/caseflash/internal/worker"
)

// SessionService records completed study sessions and answers history
// queries.
type SessionService interface {
	RecordSession(ctx context.Context, rec models.SessionRecord) (*models.SessionRecord, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.SessionRecord, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	state    repository.StateRepository
	store    *history.Store
	pool     *worker.Pool
	now      func() time.Time
}

// NewSessionService creates a SessionService. The pool is optional; without
// it the lifetime-stats cache refresh runs inline.
func NewSessionService(sessions repository.SessionRepository, state repository.StateRepository, store *history.Store, pool *worker.Pool) SessionService {
	return &sessionService{
		sessions: sessions,
		state:    state,
		store:    store,
		pool:     pool,
		now:      time.Now,
	}
}

func (s *sessionService) RecordSession(ctx context.Context, rec models.SessionRecord) (*models.SessionRecord, error) {
	log := logger.FromContext(ctx)

	if rec.TotalQuestions <= 0 {
		return nil, errors.NewValidationError("total_questions", "must be positive")
	}
	if rec.CorrectAnswers < 0 || rec.CorrectAnswers > rec.TotalQuestions {
		return nil, errors.NewValidationError("correct_answers", "must be between 0 and total_questions")
	}
	if rec.TimeTakenMs < 0 {
		return nil, errors.NewValidationError("time_taken_ms", "must be non-negative")
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}

	log.Debug("recording session: id=%s, total=%d, correct=%d", rec.ID, rec.TotalQuestions, rec.CorrectAnswers)

	if err := s.sessions.Insert(ctx, rec); err != nil {
		log.Error("failed to persist session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.store.Append(rec)

	s.refreshLifetimeStats(ctx)
	return &rec, nil
}

// refreshLifetimeStats schedules a cache rebuild after a history change,
// falling back to an inline run when the queue is full or no pool exists.
func (s *sessionService) refreshLifetimeStats(ctx context.Context) {
	job := &jobs.LifetimeStatsJob{Store: s.store, State: s.state}
	if s.pool != nil && s.pool.Submit(job) {
		return
	}
	if err := job.Run(ctx); err != nil {
		logger.FromContext(ctx).Warn("lifetime stats refresh failed: %v", err)
	}
}

func (s *sessionService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sessions")

	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}
