package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schoolfit/internal/models"
)

const mongoCollection = "user_records"

// mongoRecord is one user record as stored in MongoDB
type mongoRecord struct {
	Username  string             `bson:"_id"`
	Version   int64              `bson:"version"`
	Record    *models.UserRecord `bson:"record"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// MongoStore keeps one document per username with an optimistic version counter.
// Writes are per document; a failed Save may leave earlier records written.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection

	mu   sync.Mutex
	rows map[string]rowState
}

// NewMongoStore connects to MongoDB and returns a store over the user_records collection
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Using MongoDB database: %s", database)
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(mongoCollection),
		rows:       make(map[string]rowState),
	}, nil
}

// Load reads every stored record
func (s *MongoStore) Load(ctx context.Context) (Document, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load user records: %w", err)
	}
	defer cursor.Close(ctx)

	doc := Document{}
	seen := make(map[string]rowState)
	for cursor.Next(ctx) {
		var stored mongoRecord
		if err := cursor.Decode(&stored); err != nil {
			return nil, fmt.Errorf("failed to decode user record: %w", err)
		}
		if stored.Record == nil {
			return nil, fmt.Errorf("user record %q is corrupt: missing record", stored.Username)
		}
		data, err := json.Marshal(stored.Record)
		if err != nil {
			return nil, fmt.Errorf("failed to encode user record %q: %w", stored.Username, err)
		}
		doc[stored.Username] = stored.Record
		seen[stored.Username] = rowState{data: data, version: stored.Version}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to load user records: %w", err)
	}

	s.mu.Lock()
	s.rows = seen
	s.mu.Unlock()
	return doc, nil
}

// Save writes changed, new and removed records
func (s *MongoStore) Save(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for username, record := range doc {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode user record %q: %w", username, err)
		}

		prev, known := s.rows[username]
		switch {
		case !known:
			stored := mongoRecord{Username: username, Version: 1, Record: record, UpdatedAt: now}
			if _, err := s.collection.InsertOne(ctx, stored); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return fmt.Errorf("insert %q: %w", username, ErrConflict)
				}
				return fmt.Errorf("failed to insert user record %q: %w", username, err)
			}
			s.rows[username] = rowState{data: data, version: 1}
		case bytes.Equal(prev.data, data):
			continue
		default:
			stored := mongoRecord{Username: username, Version: prev.version + 1, Record: record, UpdatedAt: now}
			filter := bson.M{"_id": username, "version": prev.version}
			result, err := s.collection.ReplaceOne(ctx, filter, stored)
			if err != nil {
				return fmt.Errorf("failed to update user record %q: %w", username, err)
			}
			if result.MatchedCount != 1 {
				return fmt.Errorf("update %q: %w", username, ErrConflict)
			}
			s.rows[username] = rowState{data: data, version: prev.version + 1}
		}
	}

	for username, prev := range s.rows {
		if _, ok := doc[username]; ok {
			continue
		}
		result, err := s.collection.DeleteOne(ctx, bson.M{"_id": username, "version": prev.version})
		if err != nil {
			return fmt.Errorf("failed to delete user record %q: %w", username, err)
		}
		if result.DeletedCount != 1 {
			return fmt.Errorf("delete %q: %w", username, ErrConflict)
		}
		delete(s.rows, username)
	}
	return nil
}

// Close disconnects the client
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
