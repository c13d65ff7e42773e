package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ksen/caseflash/internal/models"
)

// MockMasterySource is a mock implementation of services.MasterySource.
type MockMasterySource struct {
	mock.Mock
}

func (m *MockMasterySource) MasteryCards(ctx context.Context, q models.Question) ([]models.MasteryCard, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryCard), args.Error(1)
}
