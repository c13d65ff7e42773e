package analytics

import (
	"sort"

	"github.com/ksen/caseflash/internal/models"
)

type tally struct {
	correct int
	total   int
}

// BuildRollups computes the categorical accuracy views: specialty, exam type
// and complexity from session-level counts, cognitive level and clinical
// concepts from per-answer details joined against the question index.
func BuildRollups(history []models.SessionRecord, index map[string]models.Question) models.Rollups {
	specialties := map[string]*tally{}
	examTypes := map[string]*tally{}
	complexity := map[string]*tally{}
	cognitive := map[string]*tally{}
	concepts := map[string]*tally{}

	add := func(m map[string]*tally, key string, correct, total int) {
		if key == "" {
			return
		}
		t, ok := m[key]
		if !ok {
			t = &tally{}
			m[key] = t
		}
		t.correct += correct
		t.total += total
	}

	for _, rec := range history {
		for _, s := range rec.Specialties {
			add(specialties, s, rec.CorrectAnswers, rec.TotalQuestions)
		}
		for _, e := range rec.ExamTypes {
			add(examTypes, e, rec.CorrectAnswers, rec.TotalQuestions)
		}
		add(complexity, rec.Complexity, rec.CorrectAnswers, rec.TotalQuestions)

		for _, detail := range rec.Details {
			q, ok := index[detail.QuestionID]
			if !ok {
				continue
			}
			correct := 0
			if detail.IsCorrect {
				correct = 1
			}
			add(cognitive, q.CognitiveLevel, correct, 1)
			for _, concept := range q.ClinicalConcepts {
				add(concepts, concept, correct, 1)
			}
		}
	}

	return models.Rollups{
		Specialties:     byVolume(specialties),
		ExamTypes:       byVolume(examTypes),
		Complexity:      fixedOrder(complexity, []string{models.ComplexityBasic, models.ComplexityIntermediate, models.ComplexityAdvanced}),
		CognitiveLevels: fixedOrder(cognitive, []string{models.CognitiveRecall, models.CognitiveApplication, models.CognitiveIntegration}),
		Concepts:        byVolume(concepts),
	}
}

// byVolume materializes category stats sorted by descending total, ties by
// name. Volume-first surfaces the categories most encountered.
func byVolume(m map[string]*tally) []models.CategoryStat {
	out := make([]models.CategoryStat, 0, len(m))
	for key, t := range m {
		out = append(out, models.CategoryStat{
			Category: key,
			Correct:  t.correct,
			Total:    t.total,
			Accuracy: roundPct(t.correct, t.total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// fixedOrder reports the named categories in the given order, omitting any
// with zero observations.
func fixedOrder(m map[string]*tally, order []string) []models.CategoryStat {
	out := make([]models.CategoryStat, 0, len(order))
	for _, key := range order {
		t, ok := m[key]
		if !ok || t.total == 0 {
			continue
		}
		out = append(out, models.CategoryStat{
			Category: key,
			Correct:  t.correct,
			Total:    t.total,
			Accuracy: roundPct(t.correct, t.total),
		})
	}
	return out
}
