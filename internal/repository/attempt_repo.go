package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/database"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

const attemptColumns = "id, dictation_id, user_id, user_text, score, feedback, mistakes, grading_source, time_taken, is_completed, created_at"

// AttemptRepository handles database operations for attempts. Attempts are
// written once and never updated.
type AttemptRepository struct {
	db database.DBTX
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db database.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create records an attempt and returns its ID
func (r *AttemptRepository) Create(ctx context.Context, a *models.Attempt) (int64, error) {
	mistakes, err := encodeMistakes(a.Mistakes)
	if err != nil {
		return 0, err
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO attempts (dictation_id, user_id, user_text, score, feedback, mistakes, grading_source, time_taken, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		a.DictationID, nullInt64(a.UserID), a.UserText, nullFloat64(a.Score), a.Feedback, mistakes,
		a.GradingSource, nullInt(a.TimeTakenSec), a.IsCompleted, a.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create attempt: %w", err)
	}

	a.ID = id
	return id, nil
}

// Restore inserts an attempt keeping its ID, for backups
func (r *AttemptRepository) Restore(ctx context.Context, a *models.Attempt) error {
	mistakes, err := encodeMistakes(a.Mistakes)
	if err != nil {
		return err
	}
	query := "INSERT INTO attempts (" + attemptColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.DictationID, nullInt64(a.UserID), a.UserText, nullFloat64(a.Score), a.Feedback, mistakes,
		a.GradingSource, nullInt(a.TimeTakenSec), a.IsCompleted, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to restore attempt %d: %w", a.ID, err)
	}
	return nil
}

// GetByID retrieves an attempt, or nil when it does not exist
func (r *AttemptRepository) GetByID(ctx context.Context, id int64) (*models.Attempt, error) {
	query := "SELECT " + attemptColumns + " FROM attempts WHERE id = ?"
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return a, nil
}

// ListByDictation returns a dictation's attempts newest first. A limit of
// zero returns all of them.
func (r *AttemptRepository) ListByDictation(ctx context.Context, dictationID int64, limit int) ([]models.Attempt, error) {
	query := "SELECT " + attemptColumns + " FROM attempts WHERE dictation_id = ? ORDER BY created_at DESC, id DESC"
	args := []any{dictationID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

// ListAll returns every attempt in insertion order
func (r *AttemptRepository) ListAll(ctx context.Context) ([]models.Attempt, error) {
	return r.list(ctx, "SELECT "+attemptColumns+" FROM attempts ORDER BY id")
}

func (r *AttemptRepository) list(ctx context.Context, query string, args ...any) ([]models.Attempt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

func scanAttempt(row rowScanner) (*models.Attempt, error) {
	var a models.Attempt
	var userID sql.NullInt64
	var score sql.NullFloat64
	var timeTaken sql.NullInt64
	var mistakes string

	err := row.Scan(&a.ID, &a.DictationID, &userID, &a.UserText, &score, &a.Feedback, &mistakes,
		&a.GradingSource, &timeTaken, &a.IsCompleted, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		a.UserID = &userID.Int64
	}
	if score.Valid {
		a.Score = &score.Float64
	}
	if timeTaken.Valid {
		t := int(timeTaken.Int64)
		a.TimeTakenSec = &t
	}
	a.Mistakes = []models.ErrorEntry{}
	if mistakes != "" {
		if err := json.Unmarshal([]byte(mistakes), &a.Mistakes); err != nil {
			return nil, fmt.Errorf("failed to decode mistakes: %w", err)
		}
	}
	return &a, nil
}

func encodeMistakes(mistakes []models.ErrorEntry) (string, error) {
	if mistakes == nil {
		mistakes = []models.ErrorEntry{}
	}
	b, err := json.Marshal(mistakes)
	if err != nil {
		return "", fmt.Errorf("failed to encode mistakes: %w", err)
	}
	return string(b), nil
}

func nullFloat64(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
