package repository

import (
	"context"
	"time"
)

// StoreObserver receives the timing and outcome of each store operation
type StoreObserver interface {
	ObserveStore(operation string, start time.Time, err error)
}

// ObservedStore reports loads and saves of an underlying store
type ObservedStore struct {
	Store
	observer StoreObserver
}

// NewObservedStore wraps store so every Load and Save is reported to observer
func NewObservedStore(store Store, observer StoreObserver) *ObservedStore {
	return &ObservedStore{Store: store, observer: observer}
}

// Load reads the document from the wrapped store
func (s *ObservedStore) Load(ctx context.Context) (Document, error) {
	start := time.Now()
	doc, err := s.Store.Load(ctx)
	s.observer.ObserveStore("load", start, err)
	return doc, err
}

// Save writes the document to the wrapped store
func (s *ObservedStore) Save(ctx context.Context, doc Document) error {
	start := time.Now()
	err := s.Store.Save(ctx, doc)
	s.observer.ObserveStore("save", start, err)
	return err
}
