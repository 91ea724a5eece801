package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"schoolfit/internal/models"
)

// UserRepository holds the loaded user document in memory and persists it
// through a Store. All writers are serialized; readers see committed state only.
type UserRepository struct {
	store Store

	mu  sync.RWMutex
	doc Document
}

// NewUserRepository creates a repository over store. Call Load before use.
func NewUserRepository(store Store) *UserRepository {
	return &UserRepository{store: store, doc: Document{}}
}

// Load replaces the in-memory document with the stored one
func (r *UserRepository) Load(ctx context.Context) error {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	for _, record := range doc {
		record.Normalize()
	}

	r.mu.Lock()
	r.doc = doc
	r.mu.Unlock()
	return nil
}

// Get returns a copy of the record for username
func (r *UserRepository) Get(username string) (*models.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.doc[username]
	if !ok {
		return nil, ErrNotFound
	}
	return record.Clone()
}

// Exists reports whether username has a record
func (r *UserRepository) Exists(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.doc[username]
	return ok
}

// Put stores a copy of record in memory. It is not persisted until Save.
func (r *UserRepository) Put(username string, record *models.UserRecord) error {
	clone, err := record.Clone()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.doc[username] = clone
	r.mu.Unlock()
	return nil
}

// Save persists the whole in-memory document
func (r *UserRepository) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Save(ctx, r.doc)
}

// Len returns the number of records
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.doc)
}

// Each calls fn for every record in username order until fn returns false.
// Records passed to fn are shared and must not be modified.
func (r *UserRepository) Each(fn func(username string, record *models.UserRecord) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, username := range sortedUsernames(r.doc) {
		if !fn(username, r.doc[username]) {
			return
		}
	}
}

// Snapshot returns a deep copy of the whole document
func (r *UserRepository) Snapshot() (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc.Clone()
}

// Replace swaps in a new document and persists it. The previous document is
// kept when the save fails.
func (r *UserRepository) Replace(ctx context.Context, doc Document) error {
	next, err := doc.Clone()
	if err != nil {
		return err
	}
	for _, record := range next {
		record.Normalize()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Save(ctx, next); err != nil {
		return err
	}
	r.doc = next
	return nil
}

// Update applies fn to a copy of one record and saves the result
func (r *UserRepository) Update(ctx context.Context, username string, fn func(record *models.UserRecord) error) error {
	return r.Transact(ctx, func(tx *UserTx) error {
		record, err := tx.Get(username)
		if err != nil {
			return err
		}
		return fn(record)
	})
}

// Transact runs fn with exclusive access to the document. Records fetched
// through tx are copies; when fn succeeds they are written back and the
// document is saved. If fn or the save fails, nothing changes in memory,
// except on ErrConflict where the document is reloaded from the store so the
// next attempt starts from what the other writer saved.
func (r *UserRepository) Transact(ctx context.Context, fn func(tx *UserTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &UserTx{doc: r.doc, staged: make(map[string]*models.UserRecord)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.staged) == 0 {
		return nil
	}

	previous := make(map[string]*models.UserRecord, len(tx.staged))
	for username, record := range tx.staged {
		previous[username] = r.doc[username]
		r.doc[username] = record
	}

	if err := r.store.Save(ctx, r.doc); err != nil {
		for username, record := range previous {
			if record == nil {
				delete(r.doc, username)
			} else {
				r.doc[username] = record
			}
		}
		if errors.Is(err, ErrConflict) {
			r.reloadLocked(ctx)
		}
		return fmt.Errorf("failed to save user data: %w", err)
	}
	return nil
}

// reloadLocked refreshes the document and the store's row versions. The caller
// holds r.mu. A failed reload leaves the current document in place.
func (r *UserRepository) reloadLocked(ctx context.Context) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		log.Printf("Failed to reload user data after conflict: %v", err)
		return
	}
	for _, record := range doc {
		record.Normalize()
	}
	r.doc = doc
}

// UserTx is the view of the document inside Transact
type UserTx struct {
	doc    Document
	staged map[string]*models.UserRecord
}

// Get returns a mutable copy of the record; changes are kept on commit
func (tx *UserTx) Get(username string) (*models.UserRecord, error) {
	if record, ok := tx.staged[username]; ok {
		return record, nil
	}
	record, ok := tx.doc[username]
	if !ok {
		return nil, ErrNotFound
	}
	clone, err := record.Clone()
	if err != nil {
		return nil, err
	}
	tx.staged[username] = clone
	return clone, nil
}

// Put adds or replaces a record
func (tx *UserTx) Put(username string, record *models.UserRecord) {
	tx.staged[username] = record
}

// Exists reports whether username has a record, including ones added in this transaction
func (tx *UserTx) Exists(username string) bool {
	if _, ok := tx.staged[username]; ok {
		return true
	}
	_, ok := tx.doc[username]
	return ok
}

// Each visits committed records read-only, in username order, with staged
// changes taking precedence
func (tx *UserTx) Each(fn func(username string, record *models.UserRecord) bool) {
	merged := make(Document, len(tx.doc)+len(tx.staged))
	for username, record := range tx.doc {
		merged[username] = record
	}
	for username, record := range tx.staged {
		merged[username] = record
	}
	for _, username := range sortedUsernames(merged) {
		if !fn(username, merged[username]) {
			return
		}
	}
}

func sortedUsernames(doc Document) []string {
	usernames := make([]string, 0, len(doc))
	for username := range doc {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames
}
