package handlers

const (
	ErrInvalidJSON           = "Invalid JSON body"
	ErrInvalidID             = "Invalid id"
	ErrMissingSubmission     = "submission_text is required"
	ErrUnauthorized          = "Unauthorized"
	ErrTooManyRequests       = "Too many requests"
	ErrInternalServerError   = "Internal server error"
	ErrGenerationUnavailable = "Dictation generation failed"
	ErrNarrationUnavailable  = "Narration is not configured"

	maxBodyBytes = 1 << 20
)
