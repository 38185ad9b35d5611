package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/chrisdamba/couriermatch/internal/repositories/memory"
)

func newTestService() (*Service, *memory.DriverPhotoRepository) {
	repo := memory.NewDriverPhotoRepository()
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestService_CreateValidation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name    string
		cmd     CreateCommand
		wantErr bool
	}{
		{name: "valid", cmd: CreateCommand{Name: " Ana Souza ", PhotoURL: "https://cdn.example.com/ana.jpg"}},
		{name: "missing name", cmd: CreateCommand{PhotoURL: "https://cdn.example.com/ana.jpg"}, wantErr: true},
		{name: "missing photo", cmd: CreateCommand{Name: "Ana"}, wantErr: true},
		{name: "relative url", cmd: CreateCommand{Name: "Ana", PhotoURL: "/img/ana.jpg"}, wantErr: true},
		{name: "ftp url", cmd: CreateCommand{Name: "Ana", PhotoURL: "ftp://cdn.example.com/ana.jpg"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.Create(context.Background(), tt.cmd)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Name != "Ana Souza" || !rec.IsActive || rec.ID == "" {
				t.Fatalf("unexpected record: %+v", rec)
			}
		})
	}
}

func TestService_UpdateAndToggle(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	rec, err := svc.Create(ctx, CreateCommand{Name: "Ana", PhotoURL: "https://cdn.example.com/ana.jpg", IsActive: boolPtr(false)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.IsActive {
		t.Fatal("expected inactive record")
	}

	updated, err := svc.Update(ctx, rec.ID, models.DriverPhotoUpdate{Name: strPtr("Ana Lima")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ana Lima" || updated.PhotoURL != "https://cdn.example.com/ana.jpg" {
		t.Fatalf("partial update lost fields: %+v", updated)
	}

	if _, err := svc.Update(ctx, rec.ID, models.DriverPhotoUpdate{PhotoURL: strPtr("not a url")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	toggled, err := svc.ToggleActive(ctx, rec.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsActive {
		t.Fatal("expected toggle to activate the record")
	}
	active, _ := repo.ListActive(ctx)
	if len(active) != 1 || active[0].Name != "Ana Lima" {
		t.Fatalf("expected the toggled record to be active, got %+v", active)
	}

	if _, err := svc.ToggleActive(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeleteAndSeed(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	rec, _ := svc.Create(ctx, CreateCommand{Name: "Ana", PhotoURL: "https://cdn.example.com/ana.jpg"})
	if err := svc.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, rec.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.Seed(ctx, 5, 1, false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Seed(ctx, 3, 2, true); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 3 {
		t.Fatalf("expected reset seed to leave 3 records, got %d", n)
	}
	if _, err := svc.Seed(ctx, -1, 0, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
