package valueobject

import (
	"errors"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown menu category")

// MenuCategory представляет вкладку меню (Value Object)
type MenuCategory string

const (
	CategoryAll      MenuCategory = "all"
	CategoryStarters MenuCategory = "starters"
	CategoryMains    MenuCategory = "mains"
	CategoryDesserts MenuCategory = "desserts"
	CategoryDrinks   MenuCategory = "drinks"

	// CategoryUnknown is what ParseMenuCategory yields for anything it does not recognise.
	CategoryUnknown MenuCategory = ""
)

// ParseMenuCategory разбирает значение вкладки без учета регистра.
// Пустая строка означает "all".
func ParseMenuCategory(raw string) MenuCategory {
	normalized := MenuCategory(strings.ToLower(strings.TrimSpace(raw)))
	if normalized == "" {
		return CategoryAll
	}
	if normalized.Validate() != nil {
		return CategoryUnknown
	}
	return normalized
}

// Validate проверяет, что категория входит в перечисление
func (c MenuCategory) Validate() error {
	switch c {
	case CategoryAll, CategoryStarters, CategoryMains, CategoryDesserts, CategoryDrinks:
		return nil
	default:
		return ErrUnknownCategory
	}
}

// IsAll reports whether c selects every item.
func (c MenuCategory) IsAll() bool {
	return c == CategoryAll
}

func (c MenuCategory) String() string {
	return string(c)
}

// Label возвращает подпись вкладки
func (c MenuCategory) Label() string {
	switch c {
	case CategoryAll:
		return "All"
	case CategoryStarters:
		return "Starters"
	case CategoryMains:
		return "Mains"
	case CategoryDesserts:
		return "Desserts"
	case CategoryDrinks:
		return "Drinks"
	default:
		return ""
	}
}

// BrowsableCategories returns the concrete categories in the order "all" concatenates them.
func BrowsableCategories() []MenuCategory {
	return []MenuCategory{CategoryStarters, CategoryMains, CategoryDesserts, CategoryDrinks}
}

// Tabs возвращает вкладки в порядке отображения
func Tabs() []MenuCategory {
	return append([]MenuCategory{CategoryAll}, BrowsableCategories()...)
}
