package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ksen/caseflash/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, rec models.SessionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockSessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) All(ctx context.Context) ([]models.SessionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockQuestionRepository is a mock implementation of repository.QuestionRepository.
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Upsert(ctx context.Context, q models.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) UpsertBatch(ctx context.Context, qs []models.Question) error {
	args := m.Called(ctx, qs)
	return args.Error(0)
}

func (m *MockQuestionRepository) Get(ctx context.Context, id string) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) All(ctx context.Context) ([]models.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBookmarkRepository is a mock implementation of repository.BookmarkRepository.
type MockBookmarkRepository struct {
	mock.Mock
}

func (m *MockBookmarkRepository) Add(ctx context.Context, questionID string) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockBookmarkRepository) Remove(ctx context.Context, questionID string) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockBookmarkRepository) All(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookmarkRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMasteryRepository is a mock implementation of repository.MasteryRepository.
type MockMasteryRepository struct {
	mock.Mock
}

func (m *MockMasteryRepository) InsertBatch(ctx context.Context, cards []models.MasteryCard) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

func (m *MockMasteryRepository) ForQuestion(ctx context.Context, questionID string) ([]models.MasteryCard, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryCard), args.Error(1)
}

func (m *MockMasteryRepository) All(ctx context.Context) ([]models.MasteryCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryCard), args.Error(1)
}

func (m *MockMasteryRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Upsert(ctx context.Context, card models.ReviewCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Get(ctx context.Context, cardID string) (*models.ReviewCard, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewCard), args.Error(1)
}

func (m *MockCardRepository) All(ctx context.Context) ([]models.ReviewCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewCard), args.Error(1)
}

func (m *MockCardRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStateRepository is a mock implementation of repository.StateRepository.
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStateRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStateRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStateRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
