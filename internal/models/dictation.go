package models

import (
	"strings"
	"time"
)

// Difficulty levels accepted for a dictation
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Dictation is a reference text the learner writes down from narration
type Dictation struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Difficulty string    `json:"difficulty"`
	AudioURL   *string   `json:"audio_url,omitempty"`
	IsPublic   bool      `json:"is_public"`
	OwnerID    *int64    `json:"owner_id,omitempty"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidDifficulty reports whether d is one of the known difficulty levels
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// NormalizeDifficulty maps the French labels used by the generator onto
// the stored levels. Unknown values become medium.
func NormalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy", "facile":
		return DifficultyEasy
	case "hard", "difficile":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}
