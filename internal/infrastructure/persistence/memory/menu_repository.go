package memory

import (
	"context"
	"fmt"

	"github.com/dreschagin/smartfood/internal/domain/catalog"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
)

// MenuRepository реализует repository.MenuRepository поверх статического каталога.
// Данные только для чтения, поэтому блокировки не нужны.
type MenuRepository struct {
	menu    map[valueobject.MenuCategory][]entity.MenuItem
	gallery []string
}

// NewMenuRepository создает repository из встроенного каталога
func NewMenuRepository() (*MenuRepository, error) {
	return NewMenuRepositoryFrom(catalog.Menu, catalog.GalleryImages)
}

// NewMenuRepositoryFrom создает repository из произвольных данных (для тестов)
func NewMenuRepositoryFrom(menu map[valueobject.MenuCategory][]entity.MenuItem, gallery []string) (*MenuRepository, error) {
	if err := catalog.Validate(menu); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	copied := make(map[valueobject.MenuCategory][]entity.MenuItem, len(menu))
	for category, items := range menu {
		copied[category] = append([]entity.MenuItem(nil), items...)
	}

	return &MenuRepository{
		menu:    copied,
		gallery: append([]string(nil), gallery...),
	}, nil
}

// FindByCategory возвращает копию списка категории (пустой список если данных нет)
func (r *MenuRepository) FindByCategory(_ context.Context, category valueobject.MenuCategory) ([]entity.MenuItem, error) {
	items, ok := r.menu[category]
	if !ok {
		return []entity.MenuItem{}, nil
	}
	return append([]entity.MenuItem(nil), items...), nil
}

// GalleryImages возвращает копию списка изображений
func (r *MenuRepository) GalleryImages(_ context.Context) ([]string, error) {
	return append([]string(nil), r.gallery...), nil
}
