package service

import "errors"

var (
	ErrDictationNotFound  = errors.New("dictation not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrInvalidInput       = errors.New("invalid input")

	// Generation has no local fallback, so these reach the caller.
	ErrGenerationFailed     = errors.New("dictation generation failed")
	ErrGenerationIncomplete = errors.New("generated dictation is incomplete")
)
