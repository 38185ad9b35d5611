package factories

import (
	"fmt"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

// PhotoRecordFactory produces driver photo records for seeding a catalog.
type PhotoRecordFactory struct {
	fake faker.Faker
	now  func() time.Time
}

func NewPhotoRecordFactory(seed int64) *PhotoRecordFactory {
	return &PhotoRecordFactory{
		fake: faker.NewWithSeed(NewRand(seed)),
		now:  time.Now,
	}
}

// NewPhotoRecord builds a record for an explicit name and photo.
func NewPhotoRecord(name, photoURL string, active bool, now time.Time) *models.DriverPhotoRecord {
	return &models.DriverPhotoRecord{
		ID:        cuid.New(),
		Name:      name,
		PhotoURL:  photoURL,
		IsActive:  active,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// CreatePhotoRecord returns an active record with a fake person name. Photos
// cycle through the fallback catalog; roughly one in ten records is inactive.
func (pf *PhotoRecordFactory) CreatePhotoRecord() *models.DriverPhotoRecord {
	photo := models.FallbackDriverPhotos[pf.fake.IntBetween(0, len(models.FallbackDriverPhotos)-1)]
	active := pf.fake.IntBetween(1, 10) > 1
	return NewPhotoRecord(pf.fake.Person().Name(), photo, active, pf.now())
}

func (pf *PhotoRecordFactory) CreatePhotoRecords(n int) ([]*models.DriverPhotoRecord, error) {
	if n < 0 {
		return nil, fmt.Errorf("record count must not be negative, got %d", n)
	}
	records := make([]*models.DriverPhotoRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, pf.CreatePhotoRecord())
	}
	return records, nil
}
