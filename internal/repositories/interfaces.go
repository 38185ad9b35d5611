package repositories

import (
	"context"

	"github.com/chrisdamba/couriermatch/internal/models"
)

// DriverPhotoRepository stores the driver photo catalog. Implementations
// return models.ErrNotFound for unknown ids.
type DriverPhotoRepository interface {
	ListActive(ctx context.Context) ([]models.DriverPhoto, error)
	GetAll(ctx context.Context) ([]*models.DriverPhotoRecord, error)
	GetByID(ctx context.Context, id string) (*models.DriverPhotoRecord, error)
	Create(ctx context.Context, record *models.DriverPhotoRecord) error
	BulkCreate(ctx context.Context, records []*models.DriverPhotoRecord) error
	Update(ctx context.Context, record *models.DriverPhotoRecord) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
	Close(ctx context.Context) error
}
