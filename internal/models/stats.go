package models

import "time"

// Momentum flags on a topic bucket, derived from recent vs overall accuracy.
const (
	MomentumImproving = "improving"
	MomentumDeclining = "declining"
	MomentumNeutral   = "neutral"
)

// TopicStat is a per-topic rollup produced by one analytics pass. It is
// derived data, rebuilt from history on every request.
type TopicStat struct {
	Key            string  `json:"key"`
	CorrectCount   int     `json:"correct_count"`
	TotalCount     int     `json:"total_count"`
	Recent         []bool  `json:"recent"`
	Accuracy       int     `json:"accuracy"`
	RecentAccuracy int     `json:"recent_accuracy"`
	Urgency        float64 `json:"urgency"`
	Momentum       string  `json:"momentum"`
	LowSample      bool    `json:"low_sample"`
}

// CategoryStat is a generic labelled accuracy rollup (specialty, exam type,
// complexity, cognitive level, clinical concept).
type CategoryStat struct {
	Category string `json:"category"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Accuracy int    `json:"accuracy"`
}

// Rollups bundles the categorical views computed in one analytics pass.
type Rollups struct {
	Specialties     []CategoryStat `json:"specialties"`
	ExamTypes       []CategoryStat `json:"exam_types"`
	Complexity      []CategoryStat `json:"complexity"`
	CognitiveLevels []CategoryStat `json:"cognitive_levels"`
	Concepts        []CategoryStat `json:"concepts"`
}

// TimelinePoint is one session on the trend line, chronological ascending.
type TimelinePoint struct {
	Timestamp             time.Time `json:"timestamp"`
	Accuracy              int       `json:"accuracy"`
	AvgSecondsPerQuestion int       `json:"avg_seconds_per_question"`
}

// HeatmapDay is one day in the activity heatmap. Days with no activity are
// present with a zero count so sparse history renders as explicit zeros.
type HeatmapDay struct {
	Date      string  `json:"date"`
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"`
}

// Heatmap is the trailing daily activity view.
type Heatmap struct {
	Days          []HeatmapDay `json:"days"`
	MaxDailyCount int          `json:"max_daily_count"`
}

// LifetimeStats is the derived lifetime summary. Persisted only as a cache;
// the session history remains the source of truth.
type LifetimeStats struct {
	TotalQuestions   int        `json:"total_questions"`
	TotalCorrect     int        `json:"total_correct"`
	TotalHours       float64    `json:"total_hours"`
	AvgAccuracy      int        `json:"avg_accuracy"`
	FirstSessionDate *time.Time `json:"first_session_date"`
}

// LifetimeSummary pairs lifetime aggregates with the consistency score.
type LifetimeSummary struct {
	LifetimeStats
	SessionCount    int     `json:"session_count"`
	SessionsPerWeek float64 `json:"sessions_per_week"`
}
