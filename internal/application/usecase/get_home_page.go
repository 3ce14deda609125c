package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/domain/catalog"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/repository"
	"github.com/dreschagin/smartfood/internal/domain/service"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/pkg/logger"
)

const menuCacheKeyPrefix = "menu:items:"

// HomePageConfig задает режим рендера страницы
type HomePageConfig struct {
	BasePath    string
	SplashDelay time.Duration
	// LiveEnabled включает live-сессию через WebSocket
	LiveEnabled bool
	// FormEnabled включает отправку формы бронирования на сервер
	FormEnabled bool
}

// GetHomePageUseCase собирает данные для страницы
type GetHomePageUseCase struct {
	repository repository.MenuRepository
	browser    *service.MenuBrowser
	cache      port.Cache
	config     HomePageConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewGetHomePageUseCase создает новый use case; cache может быть nil
func NewGetHomePageUseCase(
	repository repository.MenuRepository,
	browser *service.MenuBrowser,
	cache port.Cache,
	config HomePageConfig,
	logger *logger.Logger,
) *GetHomePageUseCase {
	return &GetHomePageUseCase{
		repository: repository,
		browser:    browser,
		cache:      cache,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute builds the page model for the given view state.
func (uc *GetHomePageUseCase) Execute(ctx context.Context, state *entity.ViewState) (*dto.HomePageDTO, error) {
	items, err := uc.MenuItems(ctx, state.ActiveCategory())
	if err != nil {
		return nil, err
	}

	gallery, err := uc.repository.GalleryImages(ctx)
	if err != nil {
		uc.logger.Error("Failed to load gallery", err)
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}

	page := &dto.HomePageDTO{
		Title:          catalog.PageTitle,
		Description:    catalog.PageDesc,
		Brand:          catalog.BrandMark,
		RestaurantName: catalog.RestaurantName,
		Tagline:        catalog.Tagline,
		HeroImage:      catalog.HeroImage,
		BasePath:       uc.config.BasePath,
		Loading:        state.Loading(),
		SplashDelayMS:  uc.config.SplashDelay.Milliseconds(),
		MobileMenuOpen: state.MobileMenuOpen(),
		ActiveCategory: state.ActiveCategory().String(),
		NavLinks:       dto.NewNavLinks(),
		Tabs:           dto.NewTabs(state.ActiveCategory()),
		Items:          items,
		Gallery:        gallery,
		Contacts:       dto.NewContacts(),
		GuestOptions:   dto.NewGuestOptions(),
		Year:           uc.now().Year(),
	}
	if uc.config.LiveEnabled {
		page.LiveURL = uc.config.BasePath + "/live"
	}
	if uc.config.FormEnabled {
		page.FormAction = uc.config.BasePath + "/reservations"
	}

	return page, nil
}

// MenuItems возвращает карточки для вкладки, используя кеш если он настроен
func (uc *GetHomePageUseCase) MenuItems(ctx context.Context, category valueobject.MenuCategory) ([]*dto.MenuItemDTO, error) {
	cacheKey := menuCacheKeyPrefix + cacheKeyPart(category)

	if uc.cache != nil {
		var cached []*dto.MenuItemDTO
		if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil && cached != nil {
			uc.logger.Debug("Cache hit for menu items", "category", category.String(), "count", len(cached))
			return cached, nil
		}
	}

	items, err := uc.browser.Items(ctx, category)
	if err != nil {
		uc.logger.Error("Failed to load menu items", err, "category", category.String())
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	dtos := dto.ToMenuItemDTOs(items)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, cacheKey, dtos); err != nil {
			uc.logger.Warn("Failed to cache menu items", "error", err.Error())
		}
	}

	return dtos, nil
}

func cacheKeyPart(category valueobject.MenuCategory) string {
	if category.Validate() != nil {
		return "unknown"
	}
	return category.String()
}
