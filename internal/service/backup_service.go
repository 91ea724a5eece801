package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"schoolfit/internal/repository"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData is the complete export of the user document
type BackupData struct {
	Version    string              `json:"version"`
	ExportedAt time.Time           `json:"exported_at"`
	Backend    string              `json:"backend"`
	Users      repository.Document `json:"users"`
}

// BackupService exports and imports the user document
type BackupService struct {
	users   *repository.UserRepository
	backend string
	now     func() time.Time
}

// NewBackupService creates a new backup service. backend is recorded in exports.
func NewBackupService(users *repository.UserRepository, backend string) *BackupService {
	return &BackupService{users: users, backend: backend, now: time.Now}
}

// Export writes the document to outputPath
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting user data export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := s.ExportToWriter(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	log.Printf("User data exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes the document as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	doc, err := s.users.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot users: %w", err)
	}

	backup := BackupData{
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		Backend:    s.backend,
		Users:      doc,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	log.Printf("Exported: %d users", len(doc))
	return nil
}

// Import replaces the whole document with the backup at inputPath
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	log.Printf("Starting user data import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader replaces the whole document with the backup read from r.
// The current document is kept if the backup is invalid or cannot be saved.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version == "" {
		return fmt.Errorf("backup has no version")
	}
	if backup.Users == nil {
		backup.Users = repository.Document{}
	}
	for username, record := range backup.Users {
		if record == nil {
			return fmt.Errorf("backup record %q is empty", username)
		}
	}

	log.Printf("Backup version: %s, exported at: %s, backend: %s",
		backup.Version, backup.ExportedAt.Format(time.RFC3339), backup.Backend)

	if err := s.users.Replace(ctx, backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	log.Printf("User data import completed successfully: %d users", len(backup.Users))
	return nil
}
