package dto

import (
	"github.com/dreschagin/smartfood/internal/domain/catalog"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
)

// MenuItemDTO представляет карточку блюда для шаблонов и кеша
type MenuItemDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

// TabDTO представляет вкладку меню
type TabDTO struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Active   bool   `json:"active"`
}

type NavLinkDTO struct {
	Label  string `json:"label"`
	Anchor string `json:"anchor"`
}

type ContactDTO struct {
	Icon  string   `json:"icon"`
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

type GuestOptionDTO struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// HomePageDTO содержит все данные для рендера страницы
type HomePageDTO struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Brand          string `json:"brand"`
	RestaurantName string `json:"restaurant_name"`
	Tagline        string `json:"tagline"`
	HeroImage      string `json:"hero_image"`

	// BasePath prefixes every generated link ("" or "/name").
	BasePath string `json:"base_path"`
	// LiveURL пустой при статическом экспорте
	LiveURL string `json:"live_url"`
	// FormAction пустой при статическом экспорте: форма ничего не отправляет
	FormAction string `json:"form_action"`

	Loading        bool   `json:"loading"`
	SplashDelayMS  int64  `json:"splash_delay_ms"`
	MobileMenuOpen bool   `json:"mobile_menu_open"`
	ActiveCategory string `json:"active_category"`

	NavLinks     []NavLinkDTO     `json:"nav_links"`
	Tabs         []TabDTO         `json:"tabs"`
	Items        []*MenuItemDTO   `json:"items"`
	Gallery      []string         `json:"gallery"`
	Contacts     []ContactDTO     `json:"contacts"`
	GuestOptions []GuestOptionDTO `json:"guest_options"`
	Year         int              `json:"year"`

	Notice    string `json:"notice,omitempty"`
	FormError string `json:"form_error,omitempty"`
	// Submitted возвращает введенные значения в форму после отказа
	Submitted *ReservationRequest `json:"submitted,omitempty"`
}

// FormValues returns the values to prefill the reservation form with.
func (p *HomePageDTO) FormValues() ReservationRequest {
	if p.Submitted == nil {
		return ReservationRequest{}
	}
	return *p.Submitted
}

// FromMenuItem конвертирует entity в DTO
func FromMenuItem(item entity.MenuItem) *MenuItemDTO {
	return &MenuItemDTO{
		ID:          item.ID(),
		Name:        item.Name(),
		Description: item.Description(),
		Price:       item.Price(),
		Image:       item.ImageURL(),
	}
}

// ToMenuItemDTOs конвертирует список entities
func ToMenuItemDTOs(items []entity.MenuItem) []*MenuItemDTO {
	dtos := make([]*MenuItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, FromMenuItem(item))
	}
	return dtos
}

// NewTabs marks the tab matching active. An unknown category leaves every tab inactive.
func NewTabs(active valueobject.MenuCategory) []TabDTO {
	categories := valueobject.Tabs()
	tabs := make([]TabDTO, 0, len(categories))
	for _, c := range categories {
		tabs = append(tabs, TabDTO{
			Category: c.String(),
			Label:    c.Label(),
			Active:   c == active,
		})
	}
	return tabs
}

func NewNavLinks() []NavLinkDTO {
	links := make([]NavLinkDTO, 0, len(catalog.NavLinks))
	for _, link := range catalog.NavLinks {
		links = append(links, NavLinkDTO{Label: link.Label, Anchor: link.Anchor})
	}
	return links
}

func NewContacts() []ContactDTO {
	contacts := make([]ContactDTO, 0, len(catalog.Contacts))
	for _, c := range catalog.Contacts {
		contacts = append(contacts, ContactDTO{
			Icon:  c.Icon,
			Title: c.Title,
			Lines: append([]string(nil), c.Lines...),
		})
	}
	return contacts
}

// NewGuestOptions returns 1..MaxGuests with the "1 person", "N people", "7+" labels.
func NewGuestOptions() []GuestOptionDTO {
	options := make([]GuestOptionDTO, 0, MaxGuests)
	for n := MinGuests; n <= MaxGuests; n++ {
		options = append(options, GuestOptionDTO{Value: n, Label: GuestLabel(n)})
	}
	return options
}
