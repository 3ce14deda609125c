package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/service"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/smartfood/pkg/logger"
)

type mockCache struct {
	data map[string][]byte
	gets int
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string, dest interface{}) error {
	c.gets++
	raw, ok := c.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (c *mockCache) Set(_ context.Context, key string, value interface{}) error {
	c.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func newHomePageUseCase(t *testing.T, cfg HomePageConfig, cache *mockCache) *GetHomePageUseCase {
	t.Helper()
	repo, err := memory.NewMenuRepository()
	if err != nil {
		t.Fatalf("NewMenuRepository() error = %v", err)
	}
	var uc *GetHomePageUseCase
	if cache != nil {
		uc = NewGetHomePageUseCase(repo, service.NewMenuBrowser(repo), cache, cfg, logger.New("error"))
	} else {
		uc = NewGetHomePageUseCase(repo, service.NewMenuBrowser(repo), nil, cfg, logger.New("error"))
	}
	uc.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return uc
}

func TestGetHomePageUseCase_InitialState(t *testing.T) {
	uc := newHomePageUseCase(t, HomePageConfig{
		BasePath:    "/smartfood-restaurant",
		SplashDelay: 1200 * time.Millisecond,
		LiveEnabled: true,
		FormEnabled: true,
	}, nil)

	page, err := uc.Execute(context.Background(), entity.NewViewState())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !page.Loading {
		t.Fatal("expected initial page to show the splash gate")
	}
	if page.SplashDelayMS != 1200 {
		t.Fatalf("expected splash delay 1200ms, got %d", page.SplashDelayMS)
	}
	if page.ActiveCategory != "all" || len(page.Items) != 6 {
		t.Fatalf("expected all 6 items, got %q with %d", page.ActiveCategory, len(page.Items))
	}
	if len(page.Gallery) != 6 {
		t.Fatalf("expected 6 gallery images, got %d", len(page.Gallery))
	}
	if page.Year != 2026 {
		t.Fatalf("expected footer year 2026, got %d", page.Year)
	}
	if page.LiveURL != "/smartfood-restaurant/live" {
		t.Fatalf("unexpected live url %q", page.LiveURL)
	}
	if page.FormAction != "/smartfood-restaurant/reservations" {
		t.Fatalf("unexpected form action %q", page.FormAction)
	}
	if len(page.Tabs) != 5 || !page.Tabs[0].Active {
		t.Fatalf("expected 5 tabs with \"all\" active, got %+v", page.Tabs)
	}
	if len(page.GuestOptions) != 7 || len(page.Contacts) != 3 || len(page.NavLinks) != 4 {
		t.Fatal("expected guest options, contacts and nav links to be populated")
	}
}

func TestGetHomePageUseCase_StaticModeHasNoEndpoints(t *testing.T) {
	uc := newHomePageUseCase(t, HomePageConfig{}, nil)

	page, err := uc.Execute(context.Background(), entity.ReconstructViewState(false, valueobject.CategoryDesserts, true))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if page.LiveURL != "" || page.FormAction != "" {
		t.Fatalf("expected no live url / form action, got %q / %q", page.LiveURL, page.FormAction)
	}
	if page.Loading || !page.MobileMenuOpen {
		t.Fatal("expected view state flags to carry over")
	}
	if len(page.Items) != 2 || page.Items[0].Name != "Tiramisu" {
		t.Fatalf("unexpected dessert items: %+v", page.Items)
	}
}

func TestGetHomePageUseCase_UnknownCategory(t *testing.T) {
	uc := newHomePageUseCase(t, HomePageConfig{}, nil)

	page, err := uc.Execute(context.Background(), entity.ReconstructViewState(false, valueobject.CategoryUnknown, false))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(page.Items))
	}
	for _, tab := range page.Tabs {
		if tab.Active {
			t.Fatalf("expected no active tab, got %q", tab.Category)
		}
	}
}

func TestGetHomePageUseCase_MenuItemsCached(t *testing.T) {
	cache := newMockCache()
	uc := newHomePageUseCase(t, HomePageConfig{}, cache)

	first, err := uc.MenuItems(context.Background(), valueobject.CategoryMains)
	if err != nil {
		t.Fatalf("MenuItems() error = %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
	if _, ok := cache.data["menu:items:mains"]; !ok {
		t.Fatalf("expected cache key menu:items:mains, got %v", cache.data)
	}

	second, err := uc.MenuItems(context.Background(), valueobject.CategoryMains)
	if err != nil {
		t.Fatalf("MenuItems() error = %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected cache hit on second call, got %d writes", cache.sets)
	}
	if len(first) != 2 || len(second) != 2 || second[1].Name != "Pasta Carbonara" {
		t.Fatalf("unexpected cached items: %+v", second)
	}

	if _, err := uc.MenuItems(context.Background(), valueobject.MenuCategory("brunch")); err != nil {
		t.Fatalf("MenuItems(unknown) error = %v", err)
	}
	if _, ok := cache.data["menu:items:unknown"]; !ok {
		t.Fatal("expected unknown categories to share one cache key")
	}
}
