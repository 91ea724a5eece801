package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFileStore keeps the whole document in a single JSON file
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a store backed by the file at path
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the backing file path
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file is an empty store; a file that
// exists but cannot be parsed is an error.
func (s *JSONFileStore) Load(ctx context.Context) (Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user data file: %w", err)
	}
	return DecodeDocument(data)
}

// Save writes the document to a temporary file and renames it over the old one
func (s *JSONFileStore) Save(ctx context.Context, doc Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write user data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write user data: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace user data file: %w", err)
	}
	return nil
}

// Close is a no-op for file stores
func (s *JSONFileStore) Close() error {
	return nil
}

// EncodeDocument renders the document as indented JSON
func EncodeDocument(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode user data: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeDocument parses a JSON document. Whitespace-only input is an empty document.
func DecodeDocument(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}
	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("user data is corrupt: %w", err)
	}
	for username, record := range doc {
		if record == nil {
			return nil, fmt.Errorf("user data is corrupt: record %q is null", username)
		}
	}
	return doc, nil
}
