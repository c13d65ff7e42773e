package srs

import (
	"math"
	"time"

	"github.com/ksen/caseflash/internal/models"
)

// Rating is the learner's self-assessment after reviewing a card.
type Rating int

const (
	Again Rating = iota
	Hard
	Good
	Easy
)

func (r Rating) String() string {
	switch r {
	case Again:
		return "again"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	default:
		return "unknown"
	}
}

// ParseRating parses a rating label. The bool reports whether the label was
// recognized.
func ParseRating(s string) (Rating, bool) {
	switch s {
	case "again":
		return Again, true
	case "hard":
		return Hard, true
	case "good":
		return Good, true
	case "easy":
		return Easy, true
	default:
		return Again, false
	}
}

const (
	minEase     = 1.3
	initialEase = 2.3
)

// NewCard returns a card at baseline state, due immediately.
func NewCard(cardID string, now time.Time) models.ReviewCard {
	return models.ReviewCard{
		CardID:       cardID,
		NextReviewAt: now,
		IntervalDays: 0,
		EaseFactor:   initialEase,
		CreatedAt:    now,
	}
}

// ApplyRating advances a card's scheduling state using an SM-2 variant.
// It is a pure function of the current state, the rating and the clock:
// "again" resets the repetition streak and zeroes the interval, successful
// ratings walk the 1 -> 6 -> ceil(interval*multiplier) ladder. The ease
// factor never drops below 1.3.
func ApplyRating(card models.ReviewCard, rating Rating, now time.Time) models.ReviewCard {
	if rating == Again {
		card.RepetitionCount = 0
		card.IntervalDays = 0
		card.EaseFactor = math.Max(minEase, card.EaseFactor-0.2)
		card.NextReviewAt = now
		return card
	}

	switch card.RepetitionCount {
	case 0:
		card.IntervalDays = 1
	case 1:
		card.IntervalDays = 6
	default:
		var multiplier float64
		switch rating {
		case Hard:
			multiplier = 1.2
		case Easy:
			multiplier = card.EaseFactor * 1.5
		default:
			multiplier = card.EaseFactor
		}
		card.IntervalDays = int(math.Ceil(float64(card.IntervalDays) * multiplier))
	}
	card.RepetitionCount++

	switch rating {
	case Hard:
		card.EaseFactor = math.Max(minEase, card.EaseFactor-0.15)
	case Easy:
		card.EaseFactor += 0.15
	}

	card.NextReviewAt = now.Add(time.Duration(card.IntervalDays) * 24 * time.Hour)
	return card
}
