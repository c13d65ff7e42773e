package models

import "time"

// Complexity levels for a study session.
const (
	ComplexityBasic        = "basic"
	ComplexityIntermediate = "intermediate"
	ComplexityAdvanced     = "advanced"
)

// Cognitive levels assigned to questions by the generation collaborator.
const (
	CognitiveRecall      = "Recall"
	CognitiveApplication = "Application"
	CognitiveIntegration = "Integration"
)

// Mastery card types. Each generated question yields one card per type.
const (
	MasteryPathophysiology = "pathophysiology"
	MasteryDiagnosis       = "diagnosis"
	MasteryManagement      = "management"
	MasteryDifferentiator  = "differentiator"
)

// Question is a clinical vignette owned by the question library. Analytics
// and review only read its metadata; generation mechanics live with the
// external collaborator.
type Question struct {
	ID               string   `json:"id"`
	Vignette         string   `json:"vignette"`
	Options          []string `json:"options"`
	CorrectIndex     int      `json:"correct_index"`
	Tags             []string `json:"tags"`
	ClinicalConcepts []string `json:"clinical_concepts"`
	CognitiveLevel   string   `json:"cognitive_level"`
	Explanation      string   `json:"explanation"`
}

// AnswerDetail is a single answered question inside a session.
type AnswerDetail struct {
	QuestionID string `json:"question_id"`
	IsCorrect  bool   `json:"is_correct"`
}

// SessionRecord is one completed (or early-terminated) study block.
// Immutable once appended to the history store.
type SessionRecord struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	TimeTakenMs    int64          `json:"time_taken_ms"`
	Specialties    []string       `json:"specialties"`
	ExamTypes      []string       `json:"exam_types"`
	Complexity     string         `json:"complexity"`
	Details        []AnswerDetail `json:"details"`
}

// SessionFilter narrows session history queries.
type SessionFilter struct {
	Specialty  string
	ExamType   string
	Complexity string
	Since      *time.Time
	Limit      int
	Offset     int
}

// ReviewCard holds the spaced-repetition state for one reviewable unit,
// either a bookmarked question or a generated mastery card. Card ids share
// an identity space with both collections; resolution tries the bookmarked
// questions first, then mastery cards.
type ReviewCard struct {
	CardID          string    `json:"card_id"`
	NextReviewAt    time.Time `json:"next_review_at"`
	IntervalDays    int       `json:"interval_days"`
	EaseFactor      float64   `json:"ease_factor"`
	RepetitionCount int       `json:"repetition_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// MasteryCard is a generated micro-study card attached to a source question.
type MasteryCard struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	CardType   string    `json:"card_type"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	CreatedAt  time.Time `json:"created_at"`
}
