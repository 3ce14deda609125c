package repository

import (
	"context"

	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
)

// MenuRepository определяет источник позиций меню (Port)
// Реализация в Infrastructure слое
type MenuRepository interface {
	// FindByCategory возвращает позиции конкретной категории.
	// Для категории без данных возвращает пустой список без ошибки.
	FindByCategory(ctx context.Context, category valueobject.MenuCategory) ([]entity.MenuItem, error)

	// GalleryImages возвращает URL изображений галереи
	GalleryImages(ctx context.Context) ([]string, error)
}
