package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
)

// DriverPhotoRepository keeps the catalog in process memory. It backs the
// default configuration and the tests.
type DriverPhotoRepository struct {
	mu      sync.RWMutex
	records map[string]models.DriverPhotoRecord
}

func NewDriverPhotoRepository() *DriverPhotoRepository {
	return &DriverPhotoRepository{records: make(map[string]models.DriverPhotoRecord)}
}

func (r *DriverPhotoRepository) ListActive(ctx context.Context) ([]models.DriverPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	photos := make([]models.DriverPhoto, 0, len(r.records))
	for _, rec := range r.records {
		if rec.IsActive {
			photos = append(photos, models.DriverPhoto{Name: rec.Name, PhotoURL: rec.PhotoURL})
		}
	}
	return photos, nil
}

func (r *DriverPhotoRepository) GetAll(ctx context.Context) ([]*models.DriverPhotoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*models.DriverPhotoRecord, 0, len(r.records))
	for _, rec := range r.records {
		rec := rec
		records = append(records, &rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (r *DriverPhotoRepository) GetByID(ctx context.Context, id string) (*models.DriverPhotoRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &rec, nil
}

func (r *DriverPhotoRepository) Create(ctx context.Context, record *models.DriverPhotoRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("driver photo %s already exists", record.ID)
	}
	r.records[record.ID] = *record
	return nil
}

func (r *DriverPhotoRepository) BulkCreate(ctx context.Context, records []*models.DriverPhotoRecord) error {
	for _, record := range records {
		if err := r.Create(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (r *DriverPhotoRepository) Update(ctx context.Context, record *models.DriverPhotoRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[record.ID]
	if !ok {
		return models.ErrNotFound
	}
	existing.Name = record.Name
	existing.PhotoURL = record.PhotoURL
	existing.IsActive = record.IsActive
	existing.UpdatedAt = time.Now().UTC()
	r.records[record.ID] = existing
	return nil
}

func (r *DriverPhotoRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *DriverPhotoRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *DriverPhotoRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]models.DriverPhotoRecord)
	return nil
}

func (r *DriverPhotoRepository) Close(ctx context.Context) error { return nil }
