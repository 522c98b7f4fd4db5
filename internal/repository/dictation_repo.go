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

const dictationColumns = "id, title, text, difficulty, audio_url, is_public, owner_id, category, tags, created_at, updated_at"

// DictationFilter narrows List results. Zero values match everything.
type DictationFilter struct {
	Difficulty string
	PublicOnly bool
	Limit      int
	Offset     int
}

// DictationRepository handles database operations for dictations
type DictationRepository struct {
	db database.DBTX
}

// NewDictationRepository creates a new dictation repository
func NewDictationRepository(db database.DBTX) *DictationRepository {
	return &DictationRepository{db: db}
}

// Create inserts a dictation and fills in its ID and timestamps
func (r *DictationRepository) Create(ctx context.Context, d *models.Dictation) (int64, error) {
	tags, err := encodeTags(d.Tags)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO dictations (title, text, difficulty, audio_url, is_public, owner_id, category, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		d.Title, d.Text, d.Difficulty, nullString(d.AudioURL), d.IsPublic, nullInt64(d.OwnerID),
		d.Category, tags, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create dictation: %w", err)
	}

	d.ID = id
	d.CreatedAt = now
	d.UpdatedAt = now
	return id, nil
}

// Restore inserts a dictation keeping its ID and timestamps, for backups
func (r *DictationRepository) Restore(ctx context.Context, d *models.Dictation) error {
	tags, err := encodeTags(d.Tags)
	if err != nil {
		return err
	}
	query := "INSERT INTO dictations (" + dictationColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.Title, d.Text, d.Difficulty, nullString(d.AudioURL), d.IsPublic, nullInt64(d.OwnerID),
		d.Category, tags, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to restore dictation %d: %w", d.ID, err)
	}
	return nil
}

// GetByID retrieves a dictation by ID, or nil when it does not exist
func (r *DictationRepository) GetByID(ctx context.Context, id int64) (*models.Dictation, error) {
	query := "SELECT " + dictationColumns + " FROM dictations WHERE id = ?"
	d, err := scanDictation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dictation: %w", err)
	}
	return d, nil
}

// List returns dictations newest first
func (r *DictationRepository) List(ctx context.Context, filter DictationFilter) ([]models.Dictation, error) {
	query := "SELECT " + dictationColumns + " FROM dictations WHERE 1 = 1"
	var args []any
	if filter.Difficulty != "" {
		query += " AND difficulty = ?"
		args = append(args, filter.Difficulty)
	}
	if filter.PublicOnly {
		query += " AND is_public = " + r.db.GetDialect().BoolValue(true)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dictations: %w", err)
	}
	defer rows.Close()

	dictations := []models.Dictation{}
	for rows.Next() {
		d, err := scanDictation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dictation: %w", err)
		}
		dictations = append(dictations, *d)
	}
	return dictations, rows.Err()
}

// UpdateAudioURL attaches a narration URL to a dictation
func (r *DictationRepository) UpdateAudioURL(ctx context.Context, id int64, url string) error {
	query := "UPDATE dictations SET audio_url = ?, updated_at = ? WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, url, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update audio url: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("dictation %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDictation(row rowScanner) (*models.Dictation, error) {
	var d models.Dictation
	var audioURL sql.NullString
	var ownerID sql.NullInt64
	var tags string

	err := row.Scan(&d.ID, &d.Title, &d.Text, &d.Difficulty, &audioURL, &d.IsPublic, &ownerID,
		&d.Category, &tags, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if audioURL.Valid {
		d.AudioURL = &audioURL.String
	}
	if ownerID.Valid {
		d.OwnerID = &ownerID.Int64
	}
	d.Tags = decodeTags(tags)
	return &d, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(raw string) []string {
	tags := []string{}
	if raw == "" {
		return tags
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return tags
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
