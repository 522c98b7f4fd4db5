package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/grading"
	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

// DictationReader looks dictations up by ID. A nil dictation with a nil
// error means it does not exist.
type DictationReader interface {
	GetByID(ctx context.Context, id int64) (*models.Dictation, error)
}

// AttemptStore persists and reads graded attempts.
type AttemptStore interface {
	Create(ctx context.Context, a *models.Attempt) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Attempt, error)
	ListByDictation(ctx context.Context, dictationID int64, limit int) ([]models.Attempt, error)
}

// ProgressStore maintains the per-user rollup.
type ProgressStore interface {
	Record(ctx context.Context, userID, dictationID int64, score float64, at time.Time) error
	ListForUser(ctx context.Context, userID int64) ([]models.UserProgress, error)
}

// GradeRequest is one submission against a stored dictation.
type GradeRequest struct {
	DictationID  int64
	Submission   string
	UserID       *int64
	TimeTakenSec *int
}

// GradeResponse is the grading result plus the recorded attempt's ID.
type GradeResponse struct {
	models.GradingResult
	AttemptID int64  `json:"attempt_id"`
	Source    string `json:"-"`
}

// GradingService runs the scoring pipeline for stored dictations and
// records every attempt.
type GradingService struct {
	pipeline   *grading.Pipeline
	dictations DictationReader
	attempts   AttemptStore
	progress   ProgressStore
	now        func() time.Time
}

// NewGradingService creates a grading service. progress may be nil, in which
// case no rollup is maintained.
func NewGradingService(pipeline *grading.Pipeline, dictations DictationReader, attempts AttemptStore, progress ProgressStore) *GradingService {
	return &GradingService{
		pipeline:   pipeline,
		dictations: dictations,
		attempts:   attempts,
		progress:   progress,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GradeSubmission scores a submission and records it. Grading itself never
// fails; only an unknown dictation or a storage error is returned.
func (s *GradingService) GradeSubmission(ctx context.Context, req GradeRequest) (*GradeResponse, error) {
	log := logging.NewLogger(ctx).WithField("dictation_id", req.DictationID)

	dictation, err := s.dictations.GetByID(ctx, req.DictationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if dictation == nil {
		return nil, ErrDictationNotFound
	}

	outcome := s.pipeline.Grade(ctx, dictation.Text, req.Submission)

	feedback, err := json.Marshal(outcome.Result)
	if err != nil {
		return nil, fmt.Errorf("%w: encode feedback: %v", ErrPersistenceFailure, err)
	}

	score := outcome.Result.Score
	attempt := &models.Attempt{
		DictationID:   dictation.ID,
		UserID:        req.UserID,
		UserText:      req.Submission,
		Score:         &score,
		Feedback:      string(feedback),
		Mistakes:      outcome.Result.Errors,
		GradingSource: outcome.Source,
		TimeTakenSec:  req.TimeTakenSec,
		IsCompleted:   true,
		CreatedAt:     s.now(),
	}
	attemptID, err := s.attempts.Create(ctx, attempt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	if req.UserID != nil && s.progress != nil {
		if err := s.progress.Record(ctx, *req.UserID, dictation.ID, score, attempt.CreatedAt); err != nil {
			log.WithField("attempt_id", attemptID).Errorf("Failed to update progress: %v", err)
		}
	}

	log.WithField("attempt_id", attemptID).
		WithField("source", outcome.Source).
		Infof("Recorded attempt with score %.1f", score)

	return &GradeResponse{
		GradingResult: *outcome.Result,
		AttemptID:     attemptID,
		Source:        outcome.Source,
	}, nil
}

// ListAttempts returns a dictation's attempts, newest first
func (s *GradingService) ListAttempts(ctx context.Context, dictationID int64, limit int) ([]models.Attempt, error) {
	dictation, err := s.dictations.GetByID(ctx, dictationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if dictation == nil {
		return nil, ErrDictationNotFound
	}

	attempts, err := s.attempts.ListByDictation(ctx, dictationID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return attempts, nil
}

// GetAttempt returns one recorded attempt
func (s *GradingService) GetAttempt(ctx context.Context, id int64) (*models.Attempt, error) {
	attempt, err := s.attempts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// Progress returns the caller's rollup rows
func (s *GradingService) Progress(ctx context.Context, userID int64) ([]models.UserProgress, error) {
	if s.progress == nil {
		return []models.UserProgress{}, nil
	}
	rows, err := s.progress.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	return rows, nil
}
