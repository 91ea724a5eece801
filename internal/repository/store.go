package repository

import (
	"context"
	"errors"

	"schoolfit/internal/models"
)

var (
	// ErrConflict is returned when another writer changed a record since it was loaded
	ErrConflict = errors.New("record was modified by another writer")
	// ErrNotFound is returned when a username has no record
	ErrNotFound = errors.New("user not found")
)

// Document is the whole persisted state: one record per username
type Document map[string]*models.UserRecord

// Clone returns a deep copy of the document
func (d Document) Clone() (Document, error) {
	out := make(Document, len(d))
	for username, record := range d {
		clone, err := record.Clone()
		if err != nil {
			return nil, err
		}
		out[username] = clone
	}
	return out, nil
}

// Store persists the user document. Load returns an empty document when nothing
// has been saved yet. Save replaces the persisted document with doc.
type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
	Close() error
}
