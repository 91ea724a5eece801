package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"schoolfit/internal/database"
	"schoolfit/internal/models"
)

// SQLStore keeps one row per username with an optimistic version counter.
// Save only writes rows whose JSON changed since the last Load or Save, and
// fails with ErrConflict when another process updated one of them first.
type SQLStore struct {
	db *database.DB

	mu   sync.Mutex
	rows map[string]rowState
}

type rowState struct {
	data    []byte
	version int64
}

// NewSQLStore creates a store over an initialized database
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db, rows: make(map[string]rowState)}
}

// Load reads every row into a document
func (s *SQLStore) Load(ctx context.Context) (Document, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT username, data, version FROM user_records")
	if err != nil {
		return nil, fmt.Errorf("failed to load user records: %w", err)
	}
	defer rows.Close()

	doc := Document{}
	seen := make(map[string]rowState)
	for rows.Next() {
		var username string
		var data []byte
		var version int64
		if err := rows.Scan(&username, &data, &version); err != nil {
			return nil, fmt.Errorf("failed to scan user record: %w", err)
		}
		record := &models.UserRecord{}
		if err := json.Unmarshal(data, record); err != nil {
			return nil, fmt.Errorf("user record %q is corrupt: %w", username, err)
		}
		doc[username] = record
		seen[username] = rowState{data: canonical(record, data), version: version}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load user records: %w", err)
	}

	s.mu.Lock()
	s.rows = seen
	s.mu.Unlock()
	return doc, nil
}

// Save writes changed, new and removed records in one transaction
func (s *SQLStore) Save(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]rowState, len(doc))
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		for username, record := range doc {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to encode user record %q: %w", username, err)
			}

			prev, known := s.rows[username]
			switch {
			case !known:
				if err := insertRow(ctx, tx, username, data); err != nil {
					return err
				}
				next[username] = rowState{data: data, version: 1}
			case bytes.Equal(prev.data, data):
				next[username] = prev
			default:
				if err := updateRow(ctx, tx, username, data, prev.version); err != nil {
					return err
				}
				next[username] = rowState{data: data, version: prev.version + 1}
			}
		}

		for username, prev := range s.rows {
			if _, ok := doc[username]; ok {
				continue
			}
			if err := deleteRow(ctx, tx, username, prev.version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.rows = next
	return nil
}

// Close closes the underlying database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func insertRow(ctx context.Context, tx database.DBTX, username string, data []byte) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO user_records (username, data, version, updated_at) VALUES (?, ?, 1, CURRENT_TIMESTAMP)",
		username, string(data))
	if err != nil {
		if tx.GetDialect().IsUniqueViolation(err) {
			return fmt.Errorf("insert %q: %w", username, ErrConflict)
		}
		return fmt.Errorf("failed to insert user record %q: %w", username, err)
	}
	return nil
}

func updateRow(ctx context.Context, tx database.DBTX, username string, data []byte, version int64) error {
	result, err := tx.ExecContext(ctx,
		"UPDATE user_records SET data = ?, version = ?, updated_at = CURRENT_TIMESTAMP WHERE username = ? AND version = ?",
		string(data), version+1, username, version)
	if err != nil {
		return fmt.Errorf("failed to update user record %q: %w", username, err)
	}
	return expectOneRow(result, username)
}

func deleteRow(ctx context.Context, tx database.DBTX, username string, version int64) error {
	result, err := tx.ExecContext(ctx,
		"DELETE FROM user_records WHERE username = ? AND version = ?", username, version)
	if err != nil {
		return fmt.Errorf("failed to delete user record %q: %w", username, err)
	}
	return expectOneRow(result, username)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(result rowsAffecter, username string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of %q: %w", username, err)
	}
	if n != 1 {
		return fmt.Errorf("update %q: %w", username, ErrConflict)
	}
	return nil
}

// canonical re-encodes a loaded record so later comparisons are not thrown off
// by formatting differences in what another writer stored
func canonical(record *models.UserRecord, raw []byte) []byte {
	data, err := json.Marshal(record)
	if err != nil {
		return raw
	}
	return data
}
