package entity

import "github.com/dreschagin/smartfood/internal/domain/valueobject"

// ViewState хранит состояние одного просмотра страницы.
// Живет только в рамках одного просмотра; меняется только через методы ниже.
type ViewState struct {
	loading        bool
	activeCategory valueobject.MenuCategory
	mobileMenuOpen bool
}

// NewViewState возвращает начальное состояние: заставка, вкладка "all", меню закрыто
func NewViewState() *ViewState {
	return &ViewState{
		loading:        true,
		activeCategory: valueobject.CategoryAll,
	}
}

// ReconstructViewState восстанавливает состояние из параметров запроса
func ReconstructViewState(loading bool, category valueobject.MenuCategory, mobileMenuOpen bool) *ViewState {
	return &ViewState{
		loading:        loading,
		activeCategory: category,
		mobileMenuOpen: mobileMenuOpen,
	}
}

func (s *ViewState) Loading() bool {
	return s.loading
}

func (s *ViewState) ActiveCategory() valueobject.MenuCategory {
	return s.activeCategory
}

func (s *ViewState) MobileMenuOpen() bool {
	return s.mobileMenuOpen
}

// Reveal switches from the splash placeholder to content. It reports false if already revealed.
func (s *ViewState) Reveal() bool {
	if !s.loading {
		return false
	}
	s.loading = false
	return true
}

// SelectCategory переключает активную вкладку
func (s *ViewState) SelectCategory(category valueobject.MenuCategory) {
	s.activeCategory = category
}

// ToggleMobileMenu показывает/скрывает полноэкранное меню
func (s *ViewState) ToggleMobileMenu() bool {
	s.mobileMenuOpen = !s.mobileMenuOpen
	return s.mobileMenuOpen
}

// SelectLink закрывает оверлей и возвращает якорь для перехода
func (s *ViewState) SelectLink(anchor string) string {
	s.mobileMenuOpen = false
	return anchor
}
