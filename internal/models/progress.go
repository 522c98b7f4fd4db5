package models

import "time"

// MasteryThreshold is the best score at which a dictation counts as mastered
const MasteryThreshold = 90.0

// UserProgress aggregates a user's attempts on one dictation
type UserProgress struct {
	UserID        int64     `json:"user_id"`
	DictationID   int64     `json:"dictation_id"`
	BestScore     float64   `json:"best_score"`
	AttemptsCount int       `json:"attempts_count"`
	LastAttempt   time.Time `json:"last_attempt"`
	IsMastered    bool      `json:"is_mastered"`
}
