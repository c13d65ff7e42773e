package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/history"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/services"
	"github.com/ksen/caseflash/internal/testutil/mocks"
)

type stateMocks struct {
	sessions  *mocks.MockSessionRepository
	questions *mocks.MockQuestionRepository
	bookmarks *mocks.MockBookmarkRepository
	mastery   *mocks.MockMasteryRepository
	cards     *mocks.MockCardRepository
	state     *mocks.MockStateRepository
	store     *history.Store
}

func newStateMocks() stateMocks {
	return stateMocks{
		sessions:  new(mocks.MockSessionRepository),
		questions: new(mocks.MockQuestionRepository),
		bookmarks: new(mocks.MockBookmarkRepository),
		mastery:   new(mocks.MockMasteryRepository),
		cards:     new(mocks.MockCardRepository),
		state:     new(mocks.MockStateRepository),
		store:     history.NewStore(nil),
	}
}

func (m stateMocks) service() services.StateService {
	return services.NewStateService(m.sessions, m.questions, m.bookmarks, m.mastery, m.cards, m.state, m.store)
}

func (m stateMocks) expectWipe() {
	m.sessions.On("DeleteAll", mock.Anything).Return(nil)
	m.questions.On("DeleteAll", mock.Anything).Return(nil)
	m.bookmarks.On("DeleteAll", mock.Anything).Return(nil)
	m.mastery.On("DeleteAll", mock.Anything).Return(nil)
	m.cards.On("DeleteAll", mock.Anything).Return(nil)
	m.state.On("Clear", mock.Anything).Return(nil)
}

func TestExport_BuildsSnapshot(t *testing.T) {
	m := newStateMocks()
	ts := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	m.store.Append(models.SessionRecord{
		ID: "s1", Timestamp: ts, TotalQuestions: 10, CorrectAnswers: 7, TimeTakenMs: 600_000,
	})

	m.bookmarks.On("All", mock.Anything).Return([]string{"q1"}, nil)
	m.mastery.On("All", mock.Anything).Return([]models.MasteryCard{
		{ID: "m1", QuestionID: "q1", CardType: models.MasteryDiagnosis},
	}, nil)
	m.cards.On("All", mock.Anything).Return([]models.ReviewCard{
		{CardID: "q1", EaseFactor: 2.3},
	}, nil)
	m.questions.On("All", mock.Anything).Return([]models.Question{{ID: "q1"}}, nil)
	m.state.On("Get", mock.Anything, services.StudyPlanKey).Return(`{"focus":"renal"}`, true, nil)

	data, err := m.service().Export(context.Background())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	var exported struct {
		History   []models.SessionRecord           `json:"history"`
		Bookmarks []string                         `json:"bookmarks"`
		Mastery   map[string][]models.MasteryCard  `json:"masteryCards"`
		SRS       map[string]models.ReviewCard     `json:"srsStates"`
		Library   map[string]models.Question       `json:"questionLibrary"`
		Lifetime  *models.LifetimeStats            `json:"lifetimeStats"`
	}
	require.NoError(t, json.Unmarshal(data, &exported))

	require.Len(t, exported.History, 1)
	assert.Equal(t, []string{"q1"}, exported.Bookmarks)
	assert.Len(t, exported.Mastery["q1"], 1)
	assert.Contains(t, exported.SRS, "q1")
	assert.Contains(t, exported.Library, "q1")
	assert.JSONEq(t, `{"focus":"renal"}`, string(raw["studyPlan"]))

	// The export embeds freshly derived lifetime stats.
	require.NotNil(t, exported.Lifetime)
	assert.Equal(t, 10, exported.Lifetime.TotalQuestions)
	assert.Equal(t, 70, exported.Lifetime.AvgAccuracy)
}

func TestImport_RejectsBadPayloadBeforeWiping(t *testing.T) {
	m := newStateMocks()
	m.store.Append(models.SessionRecord{ID: "keep"})

	err := m.service().Import(context.Background(), []byte(`[1,2,3]`))

	assertAppError(t, err, apperrors.ErrCodeBadRequest)
	assert.Equal(t, 1, m.store.Len(), "existing history survives a rejected import")
	m.sessions.AssertNotCalled(t, "DeleteAll", mock.Anything)
}

func TestImport_ReplacesAllState(t *testing.T) {
	m := newStateMocks()
	m.store.Append(models.SessionRecord{ID: "old"})
	m.expectWipe()

	older := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 0, 5)

	// History arrives most recent first; reinsertion must run oldest first so
	// a later warm load reproduces the same order.
	var inserted []string
	m.sessions.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).(models.SessionRecord).ID)
	}).Return(nil)
	m.questions.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
	m.bookmarks.On("Add", mock.Anything, "q1").Return(nil)
	m.mastery.On("InsertBatch", mock.Anything, mock.Anything).Return(nil)
	m.cards.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	m.state.On("Set", mock.Anything, services.StudyPlanKey, mock.Anything).Return(nil)
	m.state.On("Set", mock.Anything, "lifetime_stats", mock.Anything).Return(nil)

	payload, err := json.Marshal(map[string]any{
		"history": []models.SessionRecord{
			{ID: "new2", Timestamp: newer, TotalQuestions: 5, CorrectAnswers: 5},
			{ID: "new1", Timestamp: older, TotalQuestions: 5, CorrectAnswers: 3},
		},
		"bookmarks":       []string{"q1"},
		"masteryCards":    map[string][]models.MasteryCard{"q1": {{ID: "m1", QuestionID: "q1"}}},
		"srsStates":       map[string]models.ReviewCard{"q1": {CardID: "q1", EaseFactor: 2.3}},
		"questionLibrary": map[string]models.Question{"q1": {ID: "q1"}},
		"studyPlan":       map[string]string{"focus": "cardio"},
		"lifetimeStats":   map[string]int{"totalQuestions": 999},
	})
	require.NoError(t, err)

	require.NoError(t, m.service().Import(context.Background(), payload))

	assert.Equal(t, []string{"new1", "new2"}, inserted)
	assert.Equal(t, 2, m.store.Len())
	assert.Equal(t, "new2", m.store.Snapshot()[0].ID, "store keeps recency order after import")
	m.sessions.AssertExpectations(t)
	m.state.AssertExpectations(t)
}

func TestImport_EmptySnapshotClearsEverything(t *testing.T) {
	m := newStateMocks()
	m.store.Append(models.SessionRecord{ID: "old"})
	m.expectWipe()
	m.questions.On("UpsertBatch", mock.Anything, mock.Anything).Return(nil)
	m.state.On("Set", mock.Anything, "lifetime_stats", mock.Anything).Return(nil)

	require.NoError(t, m.service().Import(context.Background(), []byte(`{}`)))

	assert.Equal(t, 0, m.store.Len())
	// A null study plan is never written back.
	m.state.AssertNotCalled(t, "Set", mock.Anything, services.StudyPlanKey, mock.Anything)
}

func TestReset(t *testing.T) {
	m := newStateMocks()
	m.store.Append(models.SessionRecord{ID: "s1"})
	m.expectWipe()

	require.NoError(t, m.service().Reset(context.Background()))

	assert.Equal(t, 0, m.store.Len())
	m.cards.AssertCalled(t, "DeleteAll", mock.Anything)
	m.state.AssertCalled(t, "Clear", mock.Anything)
}
