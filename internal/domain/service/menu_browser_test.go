package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dreschagin/smartfood/internal/domain/catalog"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
)

type mapMenuRepo struct {
	menu map[valueobject.MenuCategory][]entity.MenuItem
	err  error
}

func (r *mapMenuRepo) FindByCategory(_ context.Context, category valueobject.MenuCategory) ([]entity.MenuItem, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]entity.MenuItem(nil), r.menu[category]...), nil
}

func (r *mapMenuRepo) GalleryImages(context.Context) ([]string, error) {
	return nil, nil
}

func itemIDs(items []entity.MenuItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID())
	}
	return ids
}

func TestMenuBrowserAllConcatenatesInCategoryOrder(t *testing.T) {
	browser := NewMenuBrowser(&mapMenuRepo{menu: catalog.Menu})

	items, err := browser.Items(context.Background(), valueobject.CategoryAll)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}

	want := []int{1, 2, 3, 4, 5, 6}
	got := itemIDs(items)
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected id %d, got %d", i, want[i], got[i])
		}
	}

	seen := make(map[int]bool)
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate id %d in \"all\"", id)
		}
		seen[id] = true
	}
}

func TestMenuBrowserSingleCategory(t *testing.T) {
	browser := NewMenuBrowser(&mapMenuRepo{menu: catalog.Menu})

	items, err := browser.Items(context.Background(), valueobject.CategoryMains)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 mains, got %d", len(items))
	}
	if items[0].Name() != "Filet Mignon" || items[1].Name() != "Pasta Carbonara" {
		t.Fatalf("unexpected mains: %s, %s", items[0].Name(), items[1].Name())
	}
}

func TestMenuBrowserEmptyResults(t *testing.T) {
	browser := NewMenuBrowser(&mapMenuRepo{menu: catalog.Menu})

	for _, category := range []valueobject.MenuCategory{
		valueobject.CategoryDrinks,
		valueobject.CategoryUnknown,
		valueobject.MenuCategory("brunch"),
	} {
		items, err := browser.Items(context.Background(), category)
		if err != nil {
			t.Fatalf("Items(%q) error = %v", category, err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("Items(%q) expected empty non-nil slice, got %v", category, items)
		}
	}
}

func TestMenuBrowserRepositoryError(t *testing.T) {
	browser := NewMenuBrowser(&mapMenuRepo{err: errors.New("boom")})

	if _, err := browser.Items(context.Background(), valueobject.CategoryAll); err == nil {
		t.Fatal("expected repository error to propagate")
	}
	// Unknown categories never reach the repository.
	if _, err := browser.Items(context.Background(), valueobject.CategoryUnknown); err != nil {
		t.Fatalf("expected no error for unknown category, got %v", err)
	}
}
