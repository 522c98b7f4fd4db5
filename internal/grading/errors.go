package grading

import "errors"

var (
	// ErrEmptySubmission is the guard reason for a blank submission
	ErrEmptySubmission = errors.New("empty submission")
	// ErrSubmissionTooShort is the guard reason for a submission under 10% of the reference length
	ErrSubmissionTooShort = errors.New("submission too short")
	// ErrGradingServiceUnavailable covers network, timeout and provider errors
	ErrGradingServiceUnavailable = errors.New("grading service unavailable")
	// ErrGradingResponseInvalid means no JSON object could be parsed from the grader output
	ErrGradingResponseInvalid = errors.New("grading response invalid")
	// ErrGradingResponseIncomplete means the JSON object lacks a required key
	ErrGradingResponseIncomplete = errors.New("grading response incomplete")
)
