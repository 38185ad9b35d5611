package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
)

func record(id, name string, active bool, created time.Time) *models.DriverPhotoRecord {
	return &models.DriverPhotoRecord{
		ID:        id,
		Name:      name,
		PhotoURL:  "https://cdn.example.com/" + id + ".jpg",
		IsActive:  active,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestDriverPhotoRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewDriverPhotoRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.BulkCreate(ctx, []*models.DriverPhotoRecord{
		record("a", "Ana", true, base),
		record("b", "Beto", false, base.Add(time.Hour)),
		record("c", "Caio", true, base.Add(2*time.Hour)),
	}); err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if err := repo.Create(ctx, record("a", "Dup", true, base)); err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("expected newest first, got %v, %v, %v", all[0].ID, all[1].ID, all[2].ID)
	}

	active, _ := repo.ListActive(ctx)
	if len(active) != 2 {
		t.Fatalf("expected 2 active photos, got %d", len(active))
	}

	got, err := repo.GetByID(ctx, "b")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	got.IsActive = true
	got.Name = "Beto Lima"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := repo.GetByID(ctx, "b")
	if !updated.IsActive || updated.Name != "Beto Lima" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(base.Add(time.Hour)) {
		t.Fatal("update must not change created_at")
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "a"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.Update(ctx, record("zz", "Nobody", true, base)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	if n, _ := repo.Count(ctx); n != 2 {
		t.Fatalf("expected 2 records, got %d", n)
	}
	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("expected empty repo, got %d", n)
	}
}

func TestDriverPhotoRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewDriverPhotoRepository()
	_ = repo.Create(ctx, record("a", "Ana", true, time.Now()))

	got, _ := repo.GetByID(ctx, "a")
	got.Name = "changed"

	again, _ := repo.GetByID(ctx, "a")
	if again.Name != "Ana" {
		t.Fatalf("caller mutation leaked into the store: %q", again.Name)
	}
}
