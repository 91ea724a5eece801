package repository

import (
	"context"
	"fmt"
	"log"

	"schoolfit/internal/config"
	"schoolfit/internal/database"
)

// OpenStore creates the store selected by cfg.StoreBackend
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "", "json":
		log.Printf("Using JSON file store: %s", cfg.DataFile)
		return NewJSONFileStore(cfg.DataFile), nil
	case "mongo", "mongodb":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required for the mongo store")
		}
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, err
		}
		log.Printf("Using %s store", db.Dialect.DriverName())
		return NewSQLStore(db), nil
	}
}
