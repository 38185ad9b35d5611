package repositories

import (
	"context"
	"fmt"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/chrisdamba/couriermatch/internal/repositories/memory"
	"github.com/chrisdamba/couriermatch/internal/repositories/mongo"
	"github.com/chrisdamba/couriermatch/internal/repositories/postgres"
)

// Open returns the photo repository selected by cfg.Driver.
func Open(ctx context.Context, cfg models.StoreConfig) (DriverPhotoRepository, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.NewDriverPhotoRepository(), nil
	case "postgres":
		repo, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "mongo":
		repo, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", cfg.Driver)
	}
}
