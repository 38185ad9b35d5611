package repositories

import (
	"context"
	"testing"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/chrisdamba/couriermatch/internal/repositories/memory"
)

func TestOpen(t *testing.T) {
	for _, driver := range []string{"", "memory"} {
		repo, err := Open(context.Background(), models.StoreConfig{Driver: driver})
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if _, ok := repo.(*memory.DriverPhotoRepository); !ok {
			t.Fatalf("Open(%q) returned %T", driver, repo)
		}
	}

	if _, err := Open(context.Background(), models.StoreConfig{Driver: "sqlite"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
