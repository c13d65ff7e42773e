package repository

import (
	"context"

	"github.com/ksen/caseflash/internal/models"
)

// SessionRepository persists the append-only session history.
type SessionRepository interface {
	Insert(ctx context.Context, rec models.SessionRecord) error
	List(ctx context.Context, filter models.SessionFilter) ([]models.SessionRecord, error)
	All(ctx context.Context) ([]models.SessionRecord, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// QuestionRepository persists the question library.
type QuestionRepository interface {
	Upsert(ctx context.Context, q models.Question) error
	UpsertBatch(ctx context.Context, qs []models.Question) error
	Get(ctx context.Context, id string) (*models.Question, error)
	All(ctx context.Context) ([]models.Question, error)
	DeleteAll(ctx context.Context) error
}

// BookmarkRepository tracks which library questions are bookmarked.
type BookmarkRepository interface {
	Add(ctx context.Context, questionID string) error
	Remove(ctx context.Context, questionID string) error
	All(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) error
}

// MasteryRepository persists generated mastery cards.
type MasteryRepository interface {
	InsertBatch(ctx context.Context, cards []models.MasteryCard) error
	ForQuestion(ctx context.Context, questionID string) ([]models.MasteryCard, error)
	All(ctx context.Context) ([]models.MasteryCard, error)
	DeleteAll(ctx context.Context) error
}

// CardRepository persists spaced-repetition card state.
type CardRepository interface {
	Upsert(ctx context.Context, card models.ReviewCard) error
	Get(ctx context.Context, cardID string) (*models.ReviewCard, error)
	All(ctx context.Context) ([]models.ReviewCard, error)
	DeleteAll(ctx context.Context) error
}

// StateRepository is the key-value persistence contract used for derived
// caches (lifetime stats) and opaque blobs (study plan).
type StateRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
