package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
	"github.com/ksen/caseflash/internal/srs"
)

// MasterySource is the question-generation collaborator contract: it
// produces mastery cards for a question. Prompting, retries and backoff are
// its concern, not this service's.
type MasterySource interface {
	MasteryCards(ctx context.Context, q models.Question) ([]models.MasteryCard, error)
}

// ReviewService manages the spaced-repetition queue: card creation on
// bookmark or mastery generation, rating transitions and due-item selection.
type ReviewService interface {
	Bookmark(ctx context.Context, questionID string) error
	Unbookmark(ctx context.Context, questionID string) error
	GenerateMastery(ctx context.Context, questionID string, provided []models.MasteryCard) ([]models.MasteryCard, error)
	DueItems(ctx context.Context, limit int) ([]srs.DueItem, error)
	Rate(ctx context.Context, cardID, rating string) (*models.ReviewCard, error)
}

type reviewService struct {
	questions repository.QuestionRepository
	bookmarks repository.BookmarkRepository
	mastery   repository.MasteryRepository
	cards     repository.CardRepository
	source    MasterySource
	now       func() time.Time
}

// NewReviewService creates a ReviewService. The mastery source is optional;
// without one, mastery generation requires caller-provided cards.
func NewReviewService(questions repository.QuestionRepository, bookmarks repository.BookmarkRepository, mastery repository.MasteryRepository, cards repository.CardRepository, source MasterySource) ReviewService {
	return &reviewService{
		questions: questions,
		bookmarks: bookmarks,
		mastery:   mastery,
		cards:     cards,
		source:    source,
		now:       time.Now,
	}
}

// Bookmark marks a question for review and creates its card at baseline
// state if one does not exist yet.
func (s *reviewService) Bookmark(ctx context.Context, questionID string) error {
	log := logger.FromContext(ctx)

	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if q == nil {
		return errors.NewNotFoundError("question", questionID)
	}

	if err := s.bookmarks.Add(ctx, questionID); err != nil {
		return errors.NewInternalError(err)
	}

	existing, err := s.cards.Get(ctx, questionID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if existing == nil {
		log.Debug("creating baseline card for bookmark: question_id=%s", questionID)
		if err := s.cards.Upsert(ctx, srs.NewCard(questionID, s.now())); err != nil {
			return errors.NewInternalError(err)
		}
	}
	return nil
}

// Unbookmark removes the bookmark only. The card and its review history are
// preserved.
func (s *reviewService) Unbookmark(ctx context.Context, questionID string) error {
	if err := s.bookmarks.Remove(ctx, questionID); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// GenerateMastery persists mastery cards for a question and seeds one review
// card per artifact. Each seeded card is immediately rated "again" so new
// material enters the queue at zero interval instead of waiting for a manual
// first pass. Caller-provided cards take precedence over the generation
// collaborator.
func (s *reviewService) GenerateMastery(ctx context.Context, questionID string, provided []models.MasteryCard) ([]models.MasteryCard, error) {
	log := logger.FromContext(ctx)

	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if q == nil {
		return nil, errors.NewNotFoundError("question", questionID)
	}

	cards := provided
	if len(cards) == 0 {
		if s.source == nil {
			return nil, errors.NewBadRequestError("no mastery cards provided and no generation source configured")
		}
		cards, err = s.source.MasteryCards(ctx, *q)
		if err != nil {
			log.Error("mastery generation failed: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}
	if len(cards) == 0 {
		return nil, errors.NewBadRequestError("mastery generation produced no cards")
	}

	now := s.now()
	for i := range cards {
		if cards[i].ID == "" {
			cards[i].ID = uuid.NewString()
		}
		cards[i].QuestionID = questionID
		if cards[i].CreatedAt.IsZero() {
			cards[i].CreatedAt = now
		}
	}

	if err := s.mastery.InsertBatch(ctx, cards); err != nil {
		return nil, errors.NewInternalError(err)
	}

	for _, c := range cards {
		seeded := srs.ApplyRating(srs.NewCard(c.ID, now), srs.Again, now)
		if err := s.cards.Upsert(ctx, seeded); err != nil {
			return nil, errors.NewInternalError(err)
		}
	}

	log.Info("generated %d mastery cards for question %s", len(cards), questionID)
	return cards, nil
}

// DueItems returns due cards resolved to their renderable artifacts, oldest
// due first. Orphaned cards are excluded, not reported as errors.
func (s *reviewService) DueItems(ctx context.Context, limit int) ([]srs.DueItem, error) {
	cards, err := s.cards.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	bookmarkIDs, err := s.bookmarks.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	questions, err := s.questions.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	bookmarked := make(map[string]models.Question, len(bookmarkIDs))
	for _, id := range bookmarkIDs {
		if q, ok := byID[id]; ok {
			bookmarked[id] = q
		}
	}

	masteryCards, err := s.mastery.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	masteryByID := make(map[string]models.MasteryCard, len(masteryCards))
	for _, m := range masteryCards {
		masteryByID[m.ID] = m
	}

	due := srs.DueItems(cards, s.now(), bookmarked, masteryByID)
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// Rate applies a rating transition to one card and persists the new state.
func (s *reviewService) Rate(ctx context.Context, cardID, rating string) (*models.ReviewCard, error) {
	log := logger.FromContext(ctx)

	r, ok := srs.ParseRating(rating)
	if !ok {
		return nil, errors.NewValidationError("rating", "must be one of again, hard, good, easy")
	}

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	updated := srs.ApplyRating(*card, r, s.now())
	if err := s.cards.Upsert(ctx, updated); err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Debug("rated card %s as %s: interval=%d, ease=%.2f", cardID, r, updated.IntervalDays, updated.EaseFactor)
	return &updated, nil
}
