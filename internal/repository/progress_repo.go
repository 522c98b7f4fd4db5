package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/database"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
)

const progressColumns = "user_id, dictation_id, best_score, attempts_count, last_attempt, is_mastered"

// ProgressRepository maintains the per-user, per-dictation rollup
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Record folds one graded attempt into the rollup with a single upsert, so
// concurrent attempts by the same user never lose an update.
func (r *ProgressRepository) Record(ctx context.Context, userID, dictationID int64, score float64, at time.Time) error {
	query := r.db.GetDialect().UpsertProgressQuery()
	_, err := r.db.ExecContext(ctx, query,
		userID, dictationID, score, at.UTC(), score >= models.MasteryThreshold, models.MasteryThreshold)
	if err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	return nil
}

// Get returns the rollup for one pair, or nil if the user never tried it
func (r *ProgressRepository) Get(ctx context.Context, userID, dictationID int64) (*models.UserProgress, error) {
	query := "SELECT " + progressColumns + " FROM user_progress WHERE user_id = ? AND dictation_id = ?"
	p, err := scanProgress(r.db.QueryRowContext(ctx, query, userID, dictationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

// ListForUser returns a user's rollups, most recently practised first
func (r *ProgressRepository) ListForUser(ctx context.Context, userID int64) ([]models.UserProgress, error) {
	query := "SELECT " + progressColumns + " FROM user_progress WHERE user_id = ? ORDER BY last_attempt DESC, dictation_id"
	return r.list(ctx, query, userID)
}

// ListAll returns every rollup row
func (r *ProgressRepository) ListAll(ctx context.Context) ([]models.UserProgress, error) {
	return r.list(ctx, "SELECT "+progressColumns+" FROM user_progress ORDER BY user_id, dictation_id")
}

// Restore inserts a rollup row as-is, for backups
func (r *ProgressRepository) Restore(ctx context.Context, p *models.UserProgress) error {
	query := "INSERT INTO user_progress (" + progressColumns + ") VALUES (?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.DictationID, p.BestScore, p.AttemptsCount, p.LastAttempt, p.IsMastered)
	if err != nil {
		return fmt.Errorf("failed to restore progress %d/%d: %w", p.UserID, p.DictationID, err)
	}
	return nil
}

func (r *ProgressRepository) list(ctx context.Context, query string, args ...any) ([]models.UserProgress, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	progress := []models.UserProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		progress = append(progress, *p)
	}
	return progress, rows.Err()
}

func scanProgress(row rowScanner) (*models.UserProgress, error) {
	var p models.UserProgress
	err := row.Scan(&p.UserID, &p.DictationID, &p.BestScore, &p.AttemptsCount, &p.LastAttempt, &p.IsMastered)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
