package service

import (
	"context"
	"fmt"

	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/repository"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
)

// MenuBrowser выбирает позиции для активной вкладки (Domain Service)
type MenuBrowser struct {
	repository repository.MenuRepository
}

// NewMenuBrowser создает новый browser
func NewMenuBrowser(repository repository.MenuRepository) *MenuBrowser {
	return &MenuBrowser{repository: repository}
}

// Items returns the ordered items to render for category.
// "all" concatenates every concrete category in BrowsableCategories order;
// a category without data or an unknown one yields an empty slice.
func (b *MenuBrowser) Items(ctx context.Context, category valueobject.MenuCategory) ([]entity.MenuItem, error) {
	switch category {
	case valueobject.CategoryAll:
		result := make([]entity.MenuItem, 0)
		for _, c := range valueobject.BrowsableCategories() {
			items, err := b.repository.FindByCategory(ctx, c)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", c, err)
			}
			result = append(result, items...)
		}
		return result, nil

	case valueobject.CategoryStarters, valueobject.CategoryMains,
		valueobject.CategoryDesserts, valueobject.CategoryDrinks:
		items, err := b.repository.FindByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", category, err)
		}
		if items == nil {
			items = []entity.MenuItem{}
		}
		return items, nil

	default:
		return []entity.MenuItem{}, nil
	}
}
