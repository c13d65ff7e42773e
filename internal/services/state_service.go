package services

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/ksen/caseflash/internal/analytics"
	"github.com/ksen/caseflash/internal/errors"
	"github.com/ksen/caseflash/internal/history"
	"github.com/ksen/caseflash/internal/jobs"
	"github.com/ksen/caseflash/internal/logger"
	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
	"github.com/ksen/caseflash/internal/snapshot"
)

// StudyPlanKey is the app_state key holding the opaque study plan blob.
const StudyPlanKey = "study_plan"

// StateService handles the full-state export/import boundary and the bulk
// reset.
type StateService interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) error
	Reset(ctx context.Context) error
}

type stateService struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	bookmarks repository.BookmarkRepository
	mastery   repository.MasteryRepository
	cards     repository.CardRepository
	state     repository.StateRepository
	store     *history.Store
}

// NewStateService creates a StateService over all persisted collections.
func NewStateService(
	sessions repository.SessionRepository,
	questions repository.QuestionRepository,
	bookmarks repository.BookmarkRepository,
	mastery repository.MasteryRepository,
	cards repository.CardRepository,
	state repository.StateRepository,
	store *history.Store,
) StateService {
	return &stateService{
		sessions:  sessions,
		questions: questions,
		bookmarks: bookmarks,
		mastery:   mastery,
		cards:     cards,
		state:     state,
		store:     store,
	}
}

func (s *stateService) Export(ctx context.Context) ([]byte, error) {
	log := logger.FromContext(ctx)
	log.Info("exporting full state snapshot")

	historySnapshot := s.store.Snapshot()

	bookmarkIDs, err := s.bookmarks.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	masteryCards, err := s.mastery.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	masteryByQuestion := map[string][]models.MasteryCard{}
	for _, c := range masteryCards {
		masteryByQuestion[c.QuestionID] = append(masteryByQuestion[c.QuestionID], c)
	}

	cards, err := s.cards.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	srsStates := make(map[string]models.ReviewCard, len(cards))
	for _, c := range cards {
		srsStates[c.CardID] = c
	}

	questions, err := s.questions.All(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	library := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		library[q.ID] = q
	}

	studyPlan := json.RawMessage("null")
	if plan, ok, err := s.state.Get(ctx, StudyPlanKey); err != nil {
		return nil, errors.NewInternalError(err)
	} else if ok {
		studyPlan = json.RawMessage(plan)
	}

	lifetime := analytics.DeriveLifetimeStats(historySnapshot)

	data, err := snapshot.Marshal(snapshot.State{
		History:         historySnapshot,
		Bookmarks:       bookmarkIDs,
		MasteryCards:    masteryByQuestion,
		SRSStates:       srsStates,
		QuestionLibrary: library,
		StudyPlan:       studyPlan,
		LifetimeStats:   &lifetime,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return data, nil
}

// Import validates the snapshot before touching any state; a bad payload
// leaves everything untouched. Lifetime stats are recomputed from the
// imported history, never taken from the snapshot.
func (s *stateService) Import(ctx context.Context, data []byte) error {
	log := logger.FromContext(ctx)

	state, err := snapshot.Parse(data)
	if err != nil {
		log.Warn("rejecting import: %v", err)
		return errors.NewBadRequestError("invalid snapshot: " + err.Error())
	}

	log.Info("importing snapshot: %d sessions, %d bookmarks, %d questions",
		len(state.History), len(state.Bookmarks), len(state.QuestionLibrary))

	if err := s.wipe(ctx); err != nil {
		return err
	}

	for i := len(state.History) - 1; i >= 0; i-- {
		// Oldest first so reinsertion preserves recency ordering on reload.
		if err := s.sessions.Insert(ctx, state.History[i]); err != nil {
			return errors.NewInternalError(err)
		}
	}

	questions := make([]models.Question, 0, len(state.QuestionLibrary))
	for _, q := range state.QuestionLibrary {
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	if err := s.questions.UpsertBatch(ctx, questions); err != nil {
		return errors.NewInternalError(err)
	}

	for _, id := range state.Bookmarks {
		if err := s.bookmarks.Add(ctx, id); err != nil {
			return errors.NewInternalError(err)
		}
	}

	var flattened []models.MasteryCard
	for _, cards := range state.MasteryCards {
		flattened = append(flattened, cards...)
	}
	if len(flattened) > 0 {
		if err := s.mastery.InsertBatch(ctx, flattened); err != nil {
			return errors.NewInternalError(err)
		}
	}

	for _, card := range state.SRSStates {
		if err := s.cards.Upsert(ctx, card); err != nil {
			return errors.NewInternalError(err)
		}
	}

	if string(state.StudyPlan) != "null" {
		if err := s.state.Set(ctx, StudyPlanKey, string(state.StudyPlan)); err != nil {
			return errors.NewInternalError(err)
		}
	}

	s.store.Replace(state.History)

	job := &jobs.LifetimeStatsJob{Store: s.store, State: s.state}
	if err := job.Run(ctx); err != nil {
		log.Warn("lifetime stats refresh after import failed: %v", err)
	}

	log.Info("import complete")
	return nil
}

// Reset is the explicit bulk wipe, the only path that deletes review cards.
func (s *stateService) Reset(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Warn("resetting all state")

	if err := s.wipe(ctx); err != nil {
		return err
	}
	s.store.Replace(nil)
	return nil
}

func (s *stateService) wipe(ctx context.Context) error {
	for _, fn := range []func(context.Context) error{
		s.sessions.DeleteAll,
		s.questions.DeleteAll,
		s.bookmarks.DeleteAll,
		s.mastery.DeleteAll,
		s.cards.DeleteAll,
		s.state.Clear,
	} {
		if err := fn(ctx); err != nil {
			return errors.NewInternalError(err)
		}
	}
	return nil
}
