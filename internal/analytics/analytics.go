// Package analytics derives weakness/strength signals, trends and lifetime
// summaries from the append-only session history. Every view is recomputed
// in full from a history snapshot plus the question index; nothing here
// performs I/O or keeps state between calls.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/ksen/caseflash/internal/models"
	"github.com/ksen/caseflash/internal/topics"
)

// SortMode selects the ranking order for topic stats.
type SortMode string

const (
	SortWeakness SortMode = "weakness"
	SortStrength SortMode = "strength"
	SortAlpha    SortMode = "alpha"
	SortUrgency  SortMode = "urgency"
)

// ParseSortMode maps a query value to a SortMode, defaulting to weakness.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortStrength, SortAlpha, SortUrgency:
		return SortMode(s)
	default:
		return SortWeakness
	}
}

// lowSampleThreshold separates established buckets from low-volume noise in
// the weakness/strength sorts. Low-sample buckets are demoted, never hidden.
const lowSampleThreshold = 3

// momentumMargin is the gap between recent and overall accuracy needed to
// flag a bucket as improving or declining.
const momentumMargin = 10

func roundPct(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// chronological returns history oldest-first. The store keeps sessions
// most-recent-first, but recency buffers and trend lines are built forward
// in time.
func chronological(history []models.SessionRecord) []models.SessionRecord {
	out := make([]models.SessionRecord, len(history))
	for i, rec := range history {
		out[len(history)-1-i] = rec
	}
	return out
}

// RankedTopics builds per-topic stats across all answered questions in the
// history and orders them per the sort mode. Answers whose question id is
// missing from the index are excluded; one malformed session never aborts
// the pass. An optional filter keeps only buckets whose key contains the
// text, case-insensitively.
func RankedTopics(history []models.SessionRecord, index map[string]models.Question, mode SortMode, filter string) []models.TopicStat {
	acc := topics.NewAccumulator()
	for _, rec := range chronological(history) {
		for _, detail := range rec.Details {
			q, ok := index[detail.QuestionID]
			if !ok {
				continue
			}
			acc.Record(q.Tags, q.ClinicalConcepts, detail.IsCorrect)
		}
	}

	stats := finalize(acc.Buckets())
	if filter != "" {
		needle := strings.ToLower(filter)
		kept := stats[:0]
		for _, stat := range stats {
			if strings.Contains(strings.ToLower(stat.Key), needle) {
				kept = append(kept, stat)
			}
		}
		stats = kept
	}

	sortTopics(stats, mode)
	return stats
}

// finalize computes the derived fields on each bucket: accuracy, recent
// accuracy (falling back to overall when the buffer is empty), urgency and
// the momentum flag.
func finalize(stats []models.TopicStat) []models.TopicStat {
	for i := range stats {
		stat := &stats[i]
		stat.Accuracy = roundPct(stat.CorrectCount, stat.TotalCount)

		recentCorrect := 0
		for _, ok := range stat.Recent {
			if ok {
				recentCorrect++
			}
		}
		if len(stat.Recent) > 0 {
			stat.RecentAccuracy = roundPct(recentCorrect, len(stat.Recent))
		} else {
			stat.RecentAccuracy = stat.Accuracy
		}

		stat.Urgency = float64(stat.TotalCount) * (1 - float64(stat.Accuracy)/100)
		stat.LowSample = stat.TotalCount < lowSampleThreshold

		switch {
		case stat.RecentAccuracy > stat.Accuracy+momentumMargin:
			stat.Momentum = models.MomentumImproving
		case stat.RecentAccuracy < stat.Accuracy-momentumMargin:
			stat.Momentum = models.MomentumDeclining
		default:
			stat.Momentum = models.MomentumNeutral
		}
	}
	return stats
}

func sortTopics(stats []models.TopicStat, mode SortMode) {
	switch mode {
	case SortAlpha:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Key < stats[j].Key
		})
	case SortUrgency:
		// Urgency already embeds volume, so no low-sample grouping here.
		sort.SliceStable(stats, func(i, j int) bool {
			if stats[i].Urgency != stats[j].Urgency {
				return stats[i].Urgency > stats[j].Urgency
			}
			if stats[i].Accuracy != stats[j].Accuracy {
				return stats[i].Accuracy < stats[j].Accuracy
			}
			return stats[i].Key < stats[j].Key
		})
	case SortStrength:
		sort.SliceStable(stats, func(i, j int) bool {
			if stats[i].LowSample != stats[j].LowSample {
				return !stats[i].LowSample
			}
			if stats[i].Accuracy != stats[j].Accuracy {
				return stats[i].Accuracy > stats[j].Accuracy
			}
			if stats[i].TotalCount != stats[j].TotalCount {
				return stats[i].TotalCount > stats[j].TotalCount
			}
			return stats[i].Key < stats[j].Key
		})
	default: // weakness
		sort.SliceStable(stats, func(i, j int) bool {
			if stats[i].LowSample != stats[j].LowSample {
				return !stats[i].LowSample
			}
			if stats[i].Accuracy != stats[j].Accuracy {
				return stats[i].Accuracy < stats[j].Accuracy
			}
			if stats[i].TotalCount != stats[j].TotalCount {
				return stats[i].TotalCount > stats[j].TotalCount
			}
			return stats[i].Key < stats[j].Key
		})
	}
}
