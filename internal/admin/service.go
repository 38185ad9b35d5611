package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/chrisdamba/couriermatch/internal/factories"
	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/chrisdamba/couriermatch/internal/repositories"
)

// ErrInvalidInput wraps every validation failure returned by Service.
var ErrInvalidInput = errors.New("invalid input")

// CreateCommand carries the fields an admin submits for a new record.
type CreateCommand struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Service applies validation on top of the photo repository. Writes are
// last-write-wins.
type Service struct {
	repo   repositories.DriverPhotoRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo repositories.DriverPhotoRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]*models.DriverPhotoRecord, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.DriverPhotoRecord, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.DriverPhotoRecord, error) {
	name, photo, err := validateFields(cmd.Name, cmd.PhotoURL)
	if err != nil {
		return nil, err
	}
	active := true
	if cmd.IsActive != nil {
		active = *cmd.IsActive
	}

	record := factories.NewPhotoRecord(name, photo, active, s.now())
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create driver photo: %w", err)
	}
	s.logger.Info("driver photo created", "id", record.ID, "name", record.Name)
	return record, nil
}

func (s *Service) Update(ctx context.Context, id string, upd models.DriverPhotoUpdate) (*models.DriverPhotoRecord, error) {
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	name, photo := record.Name, record.PhotoURL
	if upd.Name != nil {
		name = *upd.Name
	}
	if upd.PhotoURL != nil {
		photo = *upd.PhotoURL
	}
	if record.Name, record.PhotoURL, err = validateFields(name, photo); err != nil {
		return nil, err
	}
	if upd.IsActive != nil {
		record.IsActive = *upd.IsActive
	}
	record.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update driver photo %s: %w", record.ID, err)
	}
	s.logger.Info("driver photo updated", "id", record.ID, "active", record.IsActive)
	return record, nil
}

// ToggleActive flips the active flag of id.
func (s *Service) ToggleActive(ctx context.Context, id string) (*models.DriverPhotoRecord, error) {
	record, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	active := !record.IsActive
	return s.Update(ctx, record.ID, models.DriverPhotoUpdate{IsActive: &active})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logger.Info("driver photo deleted", "id", id)
	return nil
}

// Seed inserts n faker-generated records, optionally wiping the catalog first.
func (s *Service) Seed(ctx context.Context, n int, seed int64, reset bool) ([]*models.DriverPhotoRecord, error) {
	records, err := factories.NewPhotoRecordFactory(seed).CreatePhotoRecords(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if reset {
		if err := s.repo.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("reset driver photos: %w", err)
		}
	}
	if err := s.repo.BulkCreate(ctx, records); err != nil {
		return nil, fmt.Errorf("seed driver photos: %w", err)
	}
	s.logger.Info("driver photo catalog seeded", "count", len(records), "reset", reset)
	return records, nil
}

func validateFields(name, photoURL string) (string, string, error) {
	name = strings.TrimSpace(name)
	photoURL = strings.TrimSpace(photoURL)
	if name == "" || photoURL == "" {
		return "", "", fmt.Errorf("%w: name and photo_url are required", ErrInvalidInput)
	}
	u, err := url.Parse(photoURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", "", fmt.Errorf("%w: photo_url must be an absolute http(s) URL", ErrInvalidInput)
	}
	return name, photoURL, nil
}
