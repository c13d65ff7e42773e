package srs

import (
	"sort"
	"time"

	"github.com/ksen/caseflash/internal/models"
)

// DueItem is a due card resolved to exactly one renderable artifact. Exactly
// one of Question and Mastery is set.
type DueItem struct {
	Card     models.ReviewCard   `json:"card"`
	Question *models.Question    `json:"question,omitempty"`
	Mastery  *models.MasteryCard `json:"mastery,omitempty"`
}

// DueItems selects cards whose next review instant has passed and resolves
// each id against the bookmarked-question collection first, then the mastery
// card collection. Cards matching neither source are orphans from
// data-integrity drift and are silently excluded. Results are ordered by
// next review time, ties by card id, so the queue is deterministic.
func DueItems(cards []models.ReviewCard, now time.Time, bookmarked map[string]models.Question, mastery map[string]models.MasteryCard) []DueItem {
	var due []DueItem
	for _, card := range cards {
		if card.NextReviewAt.After(now) {
			continue
		}
		if q, ok := bookmarked[card.CardID]; ok {
			qCopy := q
			due = append(due, DueItem{Card: card, Question: &qCopy})
			continue
		}
		if m, ok := mastery[card.CardID]; ok {
			mCopy := m
			due = append(due, DueItem{Card: card, Mastery: &mCopy})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].Card.NextReviewAt.Equal(due[j].Card.NextReviewAt) {
			return due[i].Card.NextReviewAt.Before(due[j].Card.NextReviewAt)
		}
		return due[i].Card.CardID < due[j].Card.CardID
	})
	return due
}
