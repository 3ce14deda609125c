// Package catalog holds the restaurant's static content. Everything here is
// fixed at build time; nothing is created or removed at runtime.
package catalog

import (
	"fmt"
	"strings"

	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
)

const (
	RestaurantName = "SmartFood Restaurant"
	BrandMark      = "SMARTFOOD"
	Tagline        = "Where flavor meets innovation"
	PageTitle      = "SmartFood Restaurant | Modern Dining Experience"
	PageDesc       = "Premium culinary experience with innovative flavors"

	HeroImage = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?ixlib=rb-4.0.3&auto=format&fit=crop&w=1800&q=80"
)

// NavLink is an in-page anchor shown in the header and the mobile overlay.
type NavLink struct {
	Label  string
	Anchor string
}

// NavLinks в порядке отображения
var NavLinks = []NavLink{
	{Label: "Home", Anchor: "#home"},
	{Label: "Menu", Anchor: "#menu"},
	{Label: "Gallery", Anchor: "#gallery"},
	{Label: "Reservations", Anchor: "#reservations"},
}

// FindNavAnchor ищет якорь среди ссылок навигации; принимает "#menu" и "menu"
func FindNavAnchor(value string) (string, bool) {
	anchor := "#" + strings.TrimPrefix(strings.TrimSpace(value), "#")
	for _, link := range NavLinks {
		if strings.EqualFold(link.Anchor, anchor) {
			return link.Anchor, true
		}
	}
	return "", false
}

// ContactBlock is one column of the contact section.
type ContactBlock struct {
	Icon  string
	Title string
	Lines []string
}

var Contacts = []ContactBlock{
	{Icon: "map-pin", Title: "Location", Lines: []string{"123 Restaurant Avenue", "Foodie City, FC 10001"}},
	{Icon: "clock", Title: "Hours", Lines: []string{"Mon-Fri: 11AM - 10PM", "Sat-Sun: 10AM - 11PM"}},
	{Icon: "phone", Title: "Contact", Lines: []string{"(123) 456-7890", "info@smartfood.com"}},
}

var GalleryImages = []string{
	"https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1555396273-367ea4eb4db5?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1546069901-ba9599a7e63c?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1414235077428-338989a2e8c0?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1512621776951-a57141f2eefd?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1467003909585-2f8a72700288?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80",
}

// Menu maps each data-backed category to its items. Drinks has a tab but no entry.
var Menu = map[valueobject.MenuCategory][]entity.MenuItem{
	valueobject.CategoryStarters: {
		entity.NewMenuItem(1, "Bruschetta", "Toasted bread topped with tomatoes, garlic, and fresh basil", "$8.99",
			"https://images.unsplash.com/photo-1572695157366-5e585ab2b69f?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&q=80"),
		entity.NewMenuItem(2, "Calamari", "Crispy fried squid with lemon aioli", "$12.99",
			"https://images.unsplash.com/photo-1604382354936-07c5d9983bd3?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&q=80"),
	},
	valueobject.CategoryMains: {
		entity.NewMenuItem(3, "Filet Mignon", "8oz premium cut with roasted vegetables", "$28.99",
			"https://images.unsplash.com/photo-1544025162-d76694265947?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&q=80"),
		entity.NewMenuItem(4, "Pasta Carbonara", "Classic spaghetti with pancetta and egg sauce", "$18.99",
			"https://images.unsplash.com/photo-1555949258-eb67b1ef0ceb?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&q=80"),
	},
	valueobject.CategoryDesserts: {
		entity.NewMenuItem(5, "Tiramisu", "Coffee-flavored Italian dessert", "$9.99",
			"https://images.unsplash.com/photo-1624353365286-3f8d62daad51?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&q=80"),
		entity.NewMenuItem(6, "Chocolate Lava Cake", "Warm chocolate cake with molten center", "$8.99",
			"https://images.unsplash.com/photo-1564355808539-22fda35bed7e?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&q=80"),
	},
}

// Validate checks that menu keys are concrete categories and item ids are unique.
func Validate(menu map[valueobject.MenuCategory][]entity.MenuItem) error {
	seen := make(map[int]valueobject.MenuCategory)
	for category, items := range menu {
		if err := category.Validate(); err != nil || category.IsAll() {
			return fmt.Errorf("invalid menu category %q", category)
		}
		for _, item := range items {
			if other, ok := seen[item.ID()]; ok {
				return fmt.Errorf("duplicate menu item id %d in %q and %q", item.ID(), other, category)
			}
			seen[item.ID()] = category
		}
	}
	return nil
}
