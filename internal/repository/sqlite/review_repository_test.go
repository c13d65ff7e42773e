package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/repository"
	"github.com/ksen/caseflash/internal/repository/sqlite"
	"github.com/ksen/caseflash/internal/testutil"
)

type ReviewRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	bookmarks repository.BookmarkRepository
	mastery   repository.MasteryRepository
	cards     repository.CardRepository
	ctx       context.Context
	now       time.Time
}

func TestReviewRepositorySuite(t *testing.T) {
	suite.Run(t, new(ReviewRepositorySuite))
}

func (s *ReviewRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.bookmarks = sqlite.NewBookmarkRepository(s.db)
	s.mastery = sqlite.NewMasteryRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
	s.ctx = context.Background()
	s.now = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
}

func (s *ReviewRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ReviewRepositorySuite) TestBookmarkAddIsIdempotent() {
	s.Require().NoError(s.bookmarks.Add(s.ctx, "q1"))
	s.Require().NoError(s.bookmarks.Add(s.ctx, "q1"))

	ids, err := s.bookmarks.All(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"q1"}, ids)
}

func (s *ReviewRepositorySuite) TestBookmarkRemove() {
	s.Require().NoError(s.bookmarks.Add(s.ctx, "q1"))
	s.Require().NoError(s.bookmarks.Add(s.ctx, "q2"))

	s.Require().NoError(s.bookmarks.Remove(s.ctx, "q1"))
	// Removing an absent bookmark is a no-op, not an error.
	s.Require().NoError(s.bookmarks.Remove(s.ctx, "ghost"))

	ids, err := s.bookmarks.All(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"q2"}, ids)
}

func (s *ReviewRepositorySuite) TestMasteryInsertBatchAndQuery() {
	cards := []models.MasteryCard{
		{ID: "m2", QuestionID: "q1", CardType: models.MasteryManagement, Front: "f2", Back: "b2", CreatedAt: s.now},
		{ID: "m1", QuestionID: "q1", CardType: models.MasteryDiagnosis, Front: "f1", Back: "b1", CreatedAt: s.now},
		{ID: "m3", QuestionID: "q2", CardType: models.MasteryPathophysiology, Front: "f3", Back: "b3", CreatedAt: s.now},
	}
	s.Require().NoError(s.mastery.InsertBatch(s.ctx, cards))

	forQ1, err := s.mastery.ForQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.Require().Len(forQ1, 2)
	s.Equal("m1", forQ1[0].ID, "cards order by type within a question")
	s.Equal("f1", forQ1[0].Front)
	s.Equal("b1", forQ1[0].Back)

	all, err := s.mastery.All(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *ReviewRepositorySuite) TestMasteryInsertBatchIsAtomic() {
	s.Require().NoError(s.mastery.InsertBatch(s.ctx, []models.MasteryCard{
		{ID: "m1", QuestionID: "q1", CardType: models.MasteryDiagnosis, CreatedAt: s.now},
	}))

	// Second batch collides on m1; nothing from it may land.
	err := s.mastery.InsertBatch(s.ctx, []models.MasteryCard{
		{ID: "m9", QuestionID: "q1", CardType: models.MasteryManagement, CreatedAt: s.now},
		{ID: "m1", QuestionID: "q1", CardType: models.MasteryDiagnosis, CreatedAt: s.now},
	})
	s.Require().Error(err)

	all, err := s.mastery.All(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *ReviewRepositorySuite) TestCardUpsertAndGet() {
	card := models.ReviewCard{
		CardID:          "q1",
		NextReviewAt:    s.now,
		IntervalDays:    0,
		EaseFactor:      2.3,
		RepetitionCount: 0,
		CreatedAt:       s.now,
	}
	s.Require().NoError(s.cards.Upsert(s.ctx, card))

	got, err := s.cards.Get(s.ctx, "q1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(2.3, got.EaseFactor)
	s.True(got.NextReviewAt.Equal(s.now))
}

func (s *ReviewRepositorySuite) TestCardGetMissingReturnsNil() {
	got, err := s.cards.Get(s.ctx, "ghost")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *ReviewRepositorySuite) TestCardUpsertUpdatesScheduleKeepsCreatedAt() {
	created := s.now.Add(-30 * 24 * time.Hour)
	s.Require().NoError(s.cards.Upsert(s.ctx, models.ReviewCard{
		CardID: "q1", NextReviewAt: s.now, EaseFactor: 2.3, CreatedAt: created,
	}))

	s.Require().NoError(s.cards.Upsert(s.ctx, models.ReviewCard{
		CardID:          "q1",
		NextReviewAt:    s.now.Add(6 * 24 * time.Hour),
		IntervalDays:    6,
		EaseFactor:      2.3,
		RepetitionCount: 2,
		CreatedAt:       s.now,
	}))

	got, err := s.cards.Get(s.ctx, "q1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(6, got.IntervalDays)
	s.Equal(2, got.RepetitionCount)
	s.True(got.CreatedAt.Equal(created), "upsert never rewrites created_at")
}

func (s *ReviewRepositorySuite) TestCardAllOrdersByNextReview() {
	s.Require().NoError(s.cards.Upsert(s.ctx, models.ReviewCard{CardID: "later", NextReviewAt: s.now.Add(time.Hour), EaseFactor: 2.3, CreatedAt: s.now}))
	s.Require().NoError(s.cards.Upsert(s.ctx, models.ReviewCard{CardID: "sooner", NextReviewAt: s.now.Add(-time.Hour), EaseFactor: 2.3, CreatedAt: s.now}))

	all, err := s.cards.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("sooner", all[0].CardID)
	s.Equal("later", all[1].CardID)
}

func (s *ReviewRepositorySuite) TestDeleteAll() {
	s.Require().NoError(s.bookmarks.Add(s.ctx, "q1"))
	s.Require().NoError(s.mastery.InsertBatch(s.ctx, []models.MasteryCard{{ID: "m1", QuestionID: "q1", CardType: models.MasteryDiagnosis, CreatedAt: s.now}}))
	s.Require().NoError(s.cards.Upsert(s.ctx, models.ReviewCard{CardID: "q1", NextReviewAt: s.now, EaseFactor: 2.3, CreatedAt: s.now}))

	s.Require().NoError(s.bookmarks.DeleteAll(s.ctx))
	s.Require().NoError(s.mastery.DeleteAll(s.ctx))
	s.Require().NoError(s.cards.DeleteAll(s.ctx))

	ids, err := s.bookmarks.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(ids)
	masteryCards, err := s.mastery.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(masteryCards)
	reviewCards, err := s.cards.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(reviewCards)
}
