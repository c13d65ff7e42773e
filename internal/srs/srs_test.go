package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/srs"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestNewCard_Baseline(t *testing.T) {
	card := srs.NewCard("q1", testNow)

	assert.Equal(t, "q1", card.CardID)
	assert.Equal(t, 0, card.IntervalDays)
	assert.Equal(t, 0, card.RepetitionCount)
	assert.Equal(t, 2.3, card.EaseFactor)
	assert.True(t, card.NextReviewAt.Equal(testNow), "new card should be due immediately")
}

func TestApplyRating_Again(t *testing.T) {
	card := models.ReviewCard{
		CardID:          "q1",
		IntervalDays:    30,
		EaseFactor:      2.5,
		RepetitionCount: 5,
	}

	updated := srs.ApplyRating(card, srs.Again, testNow)

	assert.Equal(t, 0, updated.RepetitionCount, "again should reset repetitions")
	assert.Equal(t, 0, updated.IntervalDays, "again should zero the interval")
	assert.InDelta(t, 2.3, updated.EaseFactor, 1e-9, "again should subtract 0.2 ease")
	assert.True(t, updated.NextReviewAt.Equal(testNow), "again should make the card due now")
}

func TestApplyRating_FirstTwoSuccesses(t *testing.T) {
	card := srs.NewCard("q1", testNow)

	card = srs.ApplyRating(card, srs.Good, testNow)
	assert.Equal(t, 1, card.IntervalDays, "first success should set interval to 1")
	assert.Equal(t, 1, card.RepetitionCount)

	card = srs.ApplyRating(card, srs.Good, testNow)
	assert.Equal(t, 6, card.IntervalDays, "second success should set interval to 6")
	assert.Equal(t, 2, card.RepetitionCount)
}

func TestApplyRating_IntervalMultipliers(t *testing.T) {
	tests := []struct {
		name     string
		rating   srs.Rating
		expected int
	}{
		{name: "hard multiplies by 1.2", rating: srs.Hard, expected: 12},
		{name: "good multiplies by ease", rating: srs.Good, expected: 25},
		{name: "easy multiplies by ease*1.5", rating: srs.Easy, expected: 38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := models.ReviewCard{
				CardID:          "q1",
				IntervalDays:    10,
				EaseFactor:      2.5,
				RepetitionCount: 2,
			}

			updated := srs.ApplyRating(card, tt.rating, testNow)

			assert.Equal(t, tt.expected, updated.IntervalDays)
			assert.Equal(t, 3, updated.RepetitionCount)
		})
	}
}

func TestApplyRating_EaseAdjustments(t *testing.T) {
	card := models.ReviewCard{CardID: "q1", EaseFactor: 2.5, RepetitionCount: 2, IntervalDays: 10}

	hard := srs.ApplyRating(card, srs.Hard, testNow)
	assert.InDelta(t, 2.35, hard.EaseFactor, 1e-9)

	good := srs.ApplyRating(card, srs.Good, testNow)
	assert.InDelta(t, 2.5, good.EaseFactor, 1e-9, "good leaves ease unchanged")

	easy := srs.ApplyRating(card, srs.Easy, testNow)
	assert.InDelta(t, 2.65, easy.EaseFactor, 1e-9)
}

func TestApplyRating_EaseFloor(t *testing.T) {
	card := srs.NewCard("q1", testNow)

	// No rating sequence may push ease below 1.3.
	ratings := []srs.Rating{srs.Again, srs.Again, srs.Hard, srs.Again, srs.Hard, srs.Again, srs.Again, srs.Again, srs.Hard, srs.Again}
	for _, r := range ratings {
		card = srs.ApplyRating(card, r, testNow)
		assert.GreaterOrEqual(t, card.EaseFactor, 1.3)
	}
}

func TestApplyRating_GoodStreakGrowsMonotonically(t *testing.T) {
	card := srs.NewCard("q1", testNow)

	prev := 0
	for i := 0; i < 8; i++ {
		card = srs.ApplyRating(card, srs.Good, testNow)
		assert.GreaterOrEqual(t, card.IntervalDays, prev, "intervals must never shrink on a success streak")
		prev = card.IntervalDays
	}
	// 0 -> 1 -> 6 -> ceil(6*2.3)=14
	assert.GreaterOrEqual(t, prev, 14)
}

func TestApplyRating_SchedulesNextReview(t *testing.T) {
	card := models.ReviewCard{CardID: "q1", EaseFactor: 2.3, RepetitionCount: 1, IntervalDays: 1}

	updated := srs.ApplyRating(card, srs.Good, testNow)

	require.Equal(t, 6, updated.IntervalDays)
	assert.True(t, updated.NextReviewAt.Equal(testNow.Add(6*24*time.Hour)))
}

func TestParseRating(t *testing.T) {
	for label, want := range map[string]srs.Rating{
		"again": srs.Again,
		"hard":  srs.Hard,
		"good":  srs.Good,
		"easy":  srs.Easy,
	} {
		got, ok := srs.ParseRating(label)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := srs.ParseRating("perfect")
	assert.False(t, ok)
}

func TestDueItems_ResolutionAndOrdering(t *testing.T) {
	bookmarked := map[string]models.Question{
		"q1": {ID: "q1", Vignette: "chest pain"},
	}
	mastery := map[string]models.MasteryCard{
		"m1": {ID: "m1", QuestionID: "q1", CardType: models.MasteryDiagnosis},
	}
	cards := []models.ReviewCard{
		{CardID: "m1", NextReviewAt: testNow.Add(-time.Hour)},
		{CardID: "q1", NextReviewAt: testNow.Add(-2 * time.Hour)},
		{CardID: "ghost", NextReviewAt: testNow.Add(-3 * time.Hour)},
		{CardID: "future", NextReviewAt: testNow.Add(time.Hour)},
	}

	due := srs.DueItems(cards, testNow, bookmarked, mastery)

	require.Len(t, due, 2, "orphaned and future cards are excluded")
	assert.Equal(t, "q1", due[0].Card.CardID, "oldest due first")
	require.NotNil(t, due[0].Question)
	assert.Nil(t, due[0].Mastery)
	assert.Equal(t, "m1", due[1].Card.CardID)
	require.NotNil(t, due[1].Mastery)
	assert.Nil(t, due[1].Question)
}

func TestDueItems_BookmarkWinsOverMastery(t *testing.T) {
	// Shared id resolves against the bookmarked questions first.
	bookmarked := map[string]models.Question{"x": {ID: "x"}}
	mastery := map[string]models.MasteryCard{"x": {ID: "x"}}
	cards := []models.ReviewCard{{CardID: "x", NextReviewAt: testNow}}

	due := srs.DueItems(cards, testNow, bookmarked, mastery)

	require.Len(t, due, 1)
	assert.NotNil(t, due[0].Question)
	assert.Nil(t, due[0].Mastery)
}
