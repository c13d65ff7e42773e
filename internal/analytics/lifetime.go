package analytics

import (
	"math"
	"time"

	"github.com/ksen/caseflash/internal/models"
)

const msPerHour = 3_600_000

// DeriveLifetimeStats recomputes the lifetime summary from the full history.
// The result replaces any cached value wholesale; an empty history yields an
// all-zero struct with no first session date.
func DeriveLifetimeStats(history []models.SessionRecord) models.LifetimeStats {
	var stats models.LifetimeStats
	var totalMs int64
	for _, rec := range history {
		stats.TotalQuestions += rec.TotalQuestions
		stats.TotalCorrect += rec.CorrectAnswers
		totalMs += rec.TimeTakenMs
		if stats.FirstSessionDate == nil || rec.Timestamp.Before(*stats.FirstSessionDate) {
			ts := rec.Timestamp
			stats.FirstSessionDate = &ts
		}
	}
	stats.TotalHours = round1(float64(totalMs) / msPerHour)
	stats.AvgAccuracy = roundPct(stats.TotalCorrect, stats.TotalQuestions)
	return stats
}

// SessionsPerWeek is the consistency score: session count over elapsed weeks
// since the first session, at least one week, rounded to one decimal.
func SessionsPerWeek(history []models.SessionRecord, now time.Time) float64 {
	if len(history) == 0 {
		return 0
	}
	first := history[0].Timestamp
	for _, rec := range history[1:] {
		if rec.Timestamp.Before(first) {
			first = rec.Timestamp
		}
	}
	weeks := math.Ceil(now.Sub(first).Hours() / (24 * 7))
	if weeks < 1 {
		weeks = 1
	}
	return round1(float64(len(history)) / weeks)
}

// Summarize bundles lifetime aggregates with the consistency score.
func Summarize(history []models.SessionRecord, now time.Time) models.LifetimeSummary {
	return models.LifetimeSummary{
		LifetimeStats:   DeriveLifetimeStats(history),
		SessionCount:    len(history),
		SessionsPerWeek: SessionsPerWeek(history, now),
	}
}

// Timeline produces one trend point per session, chronological ascending,
// carrying the session accuracy percent and the integer-rounded average
// seconds per question.
func Timeline(history []models.SessionRecord) []models.TimelinePoint {
	ordered := chronological(history)
	points := make([]models.TimelinePoint, 0, len(ordered))
	for _, rec := range ordered {
		avgSec := 0
		if rec.TotalQuestions > 0 {
			avgSec = int(math.Round(float64(rec.TimeTakenMs) / 1000 / float64(rec.TotalQuestions)))
		}
		points = append(points, models.TimelinePoint{
			Timestamp:             rec.Timestamp,
			Accuracy:              roundPct(rec.CorrectAnswers, rec.TotalQuestions),
			AvgSecondsPerQuestion: avgSec,
		})
	}
	return points
}

const heatmapDateFormat = "2006-01-02"

// BuildHeatmap buckets total questions answered per day over the trailing
// window, pre-filling every day with zero so sparse activity renders as
// explicit zeros rather than gaps. Intensity is scaled against the observed
// maximum daily count, with a minimum denominator of 1 so an all-zero window
// never divides by zero.
func BuildHeatmap(history []models.SessionRecord, now time.Time, months int) models.Heatmap {
	if months <= 0 {
		months = 3
	}
	end := dateOf(now)
	start := dateOf(now.AddDate(0, -months, 0))

	counts := map[string]int{}
	for _, rec := range history {
		day := dateOf(rec.Timestamp)
		if day.Before(start) || day.After(end) {
			continue
		}
		counts[day.Format(heatmapDateFormat)] += rec.TotalQuestions
	}

	maxDaily := 0
	for _, c := range counts {
		if c > maxDaily {
			maxDaily = c
		}
	}
	denom := maxDaily
	if denom < 1 {
		denom = 1
	}

	var days []models.HeatmapDay
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(heatmapDateFormat)
		count := counts[key]
		days = append(days, models.HeatmapDay{
			Date:      key,
			Count:     count,
			Intensity: float64(count) / float64(denom),
		})
	}
	return models.Heatmap{Days: days, MaxDailyCount: maxDaily}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
