package services

import (
	"context"

	"github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
)

// LibraryService manages the question library fed by the generation
// collaborator.
type LibraryService interface {
	ImportQuestions(ctx context.Context, qs []models.Question) (int, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
}

type libraryService struct {
	questions repository.QuestionRepository
}

// NewLibraryService creates a LibraryService.
func NewLibraryService(questions repository.QuestionRepository) LibraryService {
	return &libraryService{questions: questions}
}

func (s *libraryService) ImportQuestions(ctx context.Context, qs []models.Question) (int, error) {
	log := logger.FromContext(ctx)

	for _, q := range qs {
		if q.ID == "" {
			return 0, errors.NewValidationError("id", "every question needs an id")
		}
	}

	if err := s.questions.UpsertBatch(ctx, qs); err != nil {
		log.Error("failed to import questions: %v", err)
		return 0, errors.NewInternalError(err)
	}

	log.Info("imported %d questions", len(qs))
	return len(qs), nil
}

func (s *libraryService) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	q, err := s.questions.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if q == nil {
		return nil, errors.NewNotFoundError("question", id)
	}
	return q, nil
}
