package database

import (
	"context"
	"fmt"

	"courseapi/internal/config"
	"courseapi/internal/firebase"
	"courseapi/internal/repository"
)

// NewConnector returns the Connector for the store driver selected in cfg.
func NewConnector(cfg *config.ServerConfig) (Connector, error) {
	switch cfg.StoreDriver {
	case config.MongoDriver:
		return func(ctx context.Context) (repository.Repository, error) {
			return repository.NewMongoRepository(ctx, cfg.MongoURI, cfg.DatabaseName, cfg.CollectionName)
		}, nil
	case config.FirestoreDriver:
		return func(_ context.Context) (repository.Repository, error) {
			// The Firestore client keeps using the context it was created with for auth, so it must outlive
			// the request or startup context that triggered the connection.
			ctx := context.Background()
			app, err := firebase.NewApp(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
			if err != nil {
				return nil, err
			}
			return repository.NewFirestoreRepository(ctx, app, cfg.CollectionName)
		}, nil
	case config.MemoryDriver:
		return func(_ context.Context) (repository.Repository, error) {
			return repository.NewMemoryRepository(), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
