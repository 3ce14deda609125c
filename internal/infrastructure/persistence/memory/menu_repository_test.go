package memory

import (
	"context"
	"testing"

	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
)

func TestMenuRepositoryReturnsCopies(t *testing.T) {
	repo, err := NewMenuRepository()
	if err != nil {
		t.Fatalf("NewMenuRepository() error = %v", err)
	}

	starters, err := repo.FindByCategory(context.Background(), valueobject.CategoryStarters)
	if err != nil {
		t.Fatalf("FindByCategory() error = %v", err)
	}
	if len(starters) != 2 {
		t.Fatalf("expected 2 starters, got %d", len(starters))
	}

	starters[0] = entity.NewMenuItem(99, "Mutated", "", "", "")
	again, _ := repo.FindByCategory(context.Background(), valueobject.CategoryStarters)
	if again[0].ID() != 1 {
		t.Fatal("caller mutation leaked into the repository")
	}

	gallery, _ := repo.GalleryImages(context.Background())
	gallery[0] = "mutated"
	galleryAgain, _ := repo.GalleryImages(context.Background())
	if galleryAgain[0] == "mutated" {
		t.Fatal("gallery mutation leaked into the repository")
	}
}

func TestMenuRepositoryMissingCategory(t *testing.T) {
	repo, err := NewMenuRepository()
	if err != nil {
		t.Fatalf("NewMenuRepository() error = %v", err)
	}

	items, err := repo.FindByCategory(context.Background(), valueobject.CategoryDrinks)
	if err != nil {
		t.Fatalf("FindByCategory() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty list for drinks, got %v", items)
	}
}

func TestNewMenuRepositoryFromRejectsDuplicates(t *testing.T) {
	_, err := NewMenuRepositoryFrom(map[valueobject.MenuCategory][]entity.MenuItem{
		valueobject.CategoryStarters: {
			entity.NewMenuItem(1, "A", "", "$1", ""),
			entity.NewMenuItem(1, "B", "", "$2", ""),
		},
	}, nil)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
}
