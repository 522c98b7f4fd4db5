package models

import "time"

// Grading sources recorded on an attempt
const (
	SourceGuard    = "guard"
	SourceExternal = "external"
	SourceFallback = "fallback"
)

// ErrorEntry describes one mistake found in a submission
type ErrorEntry struct {
	Word        string `json:"word"`
	Correction  string `json:"correction"`
	Description string `json:"description"`
}

// PedagogicalAdvice is optional coaching returned by the external grader
type PedagogicalAdvice struct {
	Summary   string   `json:"summary"`
	Tips      []string `json:"tips"`
	Exercises []string `json:"exercises"`
}

// GradingResult is the outcome of scoring one submission
type GradingResult struct {
	Score             float64            `json:"score"`
	Errors            []ErrorEntry       `json:"errors"`
	Correction        string             `json:"correction"`
	TotalWords        int                `json:"total_words"`
	ErrorCount        int                `json:"error_count"`
	PedagogicalAdvice *PedagogicalAdvice `json:"pedagogical_advice,omitempty"`
}

// Attempt is a recorded, graded submission for a dictation
type Attempt struct {
	ID            int64        `json:"id"`
	DictationID   int64        `json:"dictation_id"`
	UserID        *int64       `json:"user_id,omitempty"`
	UserText      string       `json:"user_text"`
	Score         *float64     `json:"score"`
	Feedback      string       `json:"feedback"`
	Mistakes      []ErrorEntry `json:"mistakes"`
	GradingSource string       `json:"grading_source"`
	TimeTakenSec  *int         `json:"time_taken,omitempty"`
	IsCompleted   bool         `json:"is_completed"`
	CreatedAt     time.Time    `json:"created_at"`
}
