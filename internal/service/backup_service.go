package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Ebenezer-Bakouan/backend/internal/database"
	"github.com/Ebenezer-Bakouan/backend/internal/logging"
	"github.com/Ebenezer-Bakouan/backend/internal/models"
	"github.com/Ebenezer-Bakouan/backend/internal/repository"
)

const backupVersion = "1.0"

// BackupData represents the complete database export
type BackupData struct {
	Version      string                `json:"version"`
	ExportedAt   time.Time             `json:"exported_at"`
	DatabaseType string                `json:"database_type"`
	Dictations   []models.Dictation    `json:"dictations"`
	Attempts     []models.Attempt      `json:"attempts"`
	Progress     []models.UserProgress `json:"progress"`
}

// BackupService handles database export and import
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes the whole database to a JSON file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return err
	}

	logging.NewLogger(ctx).Infof("Exported %d dictations, %d attempts, %d progress rows to %s",
		len(backup.Dictations), len(backup.Attempts), len(backup.Progress), outputPath)
	return nil
}

// ExportToWriter writes the export to w and returns what was written
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	var err error
	if backup.Dictations, err = repository.NewDictationRepository(s.db).List(ctx, repository.DictationFilter{}); err != nil {
		return nil, fmt.Errorf("failed to export dictations: %w", err)
	}
	if backup.Attempts, err = repository.NewAttemptRepository(s.db).ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export attempts: %w", err)
	}
	if backup.Progress, err = repository.NewProgressRepository(s.db).ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to export progress: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// Import loads a JSON export from a file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	logging.NewLogger(ctx).Infof("Starting database import from %s", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader loads a JSON export in one transaction, keeping IDs
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	log := logging.NewLogger(ctx)

	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	log.Infof("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt.Format(time.RFC3339))

	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		dictations := repository.NewDictationRepository(tx)
		for i := range backup.Dictations {
			if err := dictations.Restore(ctx, &backup.Dictations[i]); err != nil {
				return err
			}
		}
		log.Infof("Imported %d dictations", len(backup.Dictations))

		attempts := repository.NewAttemptRepository(tx)
		for i := range backup.Attempts {
			if err := attempts.Restore(ctx, &backup.Attempts[i]); err != nil {
				return err
			}
		}
		log.Infof("Imported %d attempts", len(backup.Attempts))

		progress := repository.NewProgressRepository(tx)
		for i := range backup.Progress {
			if err := progress.Restore(ctx, &backup.Progress[i]); err != nil {
				return err
			}
		}
		log.Infof("Imported %d progress rows", len(backup.Progress))
		return resetSequences(ctx, tx)
	})
}

// resetSequences moves postgres id sequences past the imported IDs
func resetSequences(ctx context.Context, tx *database.Tx) error {
	switch tx.GetDialect().DriverName() {
	case "postgres", "pgx":
	default:
		return nil
	}
	for _, table := range []string{"dictations", "attempts", "user_progress"} {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s", table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

// Clear deletes all domain rows, children first
func (s *BackupService) Clear(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, table := range []string{"user_progress", "attempts", "dictations"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}
		return nil
	})
}
