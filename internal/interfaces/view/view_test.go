package view

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/application/usecase"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/service"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/internal/infrastructure/persistence/memory"
	"github.com/dreschagin/smartfood/pkg/logger"
)

func buildPage(t *testing.T, cfg usecase.HomePageConfig, state *entity.ViewState) *dto.HomePageDTO {
	t.Helper()
	repo, err := memory.NewMenuRepository()
	if err != nil {
		t.Fatalf("NewMenuRepository() error = %v", err)
	}
	uc := usecase.NewGetHomePageUseCase(repo, service.NewMenuBrowser(repo), nil, cfg, logger.New("error"))
	page, err := uc.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return page
}

func render(t *testing.T, page *dto.HomePageDTO) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewRenderer().RenderHomePage(context.Background(), &buf, page); err != nil {
		t.Fatalf("RenderHomePage() error = %v", err)
	}
	return buf.String()
}

func TestHomePage_InitialLoadShowsSplash(t *testing.T) {
	page := buildPage(t, usecase.HomePageConfig{
		SplashDelay: 1500 * time.Millisecond,
		LiveEnabled: true,
		FormEnabled: true,
	}, entity.NewViewState())
	html := render(t, page)

	for _, want := range []string{
		`<div id="splash" class="splash"`,
		`<div id="content" class="site" hidden>`,
		`data-splash-delay="1500"`,
		`data-live-url="/live"`,
		`data-loading="true"`,
		`<noscript>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestHomePage_RevealedContent(t *testing.T) {
	page := buildPage(t, usecase.HomePageConfig{FormEnabled: true}, entity.ReconstructViewState(false, valueobject.CategoryAll, false))
	html := render(t, page)

	if strings.Contains(html, `id="splash"`) {
		t.Fatal("revealed page must not contain the splash screen")
	}
	if strings.Contains(html, `id="content" class="site" hidden`) {
		t.Fatal("revealed content must not be hidden")
	}

	checks := map[string]int{
		`<header class="site-header">`:    1,
		`<section id="home" class="hero">`: 1,
		`<article class="menu-card"`:      6,
		`<div class="gallery-item">`:      6,
		`<form class="reservation-form" method="post" action="/reservations">`: 1,
		`<div class="contact-block">`: 3,
		`<footer class="site-footer">`: 1,
		`<option value=`:               8,
	}
	for fragment, count := range checks {
		if got := strings.Count(html, fragment); got != count {
			t.Errorf("expected %d of %q, got %d", count, fragment, got)
		}
	}

	year := fmt.Sprintf("&copy; %d SmartFood Restaurant. All rights reserved.", time.Now().Year())
	if !strings.Contains(html, year) {
		t.Errorf("expected footer with current year, got none")
	}
	for _, label := range []string{"1 person", "2 people", "6 people", "7+"} {
		if !strings.Contains(html, ">"+label+"</option>") {
			t.Errorf("expected guest option %q", label)
		}
	}
}

func TestHomePage_AllOrderIsStartersMainsDesserts(t *testing.T) {
	page := buildPage(t, usecase.HomePageConfig{}, entity.ReconstructViewState(false, valueobject.CategoryAll, false))
	html := render(t, page)

	last := -1
	for _, name := range []string{"Bruschetta", "Calamari", "Filet Mignon", "Pasta Carbonara", "Tiramisu", "Chocolate Lava Cake"} {
		idx := strings.Index(html, "<h3>"+name+"</h3>")
		if idx < 0 {
			t.Fatalf("missing card %q", name)
		}
		if idx < last {
			t.Fatalf("card %q out of order", name)
		}
		last = idx
	}
}

func TestHomePage_StaticExportHasNoFormAction(t *testing.T) {
	page := buildPage(t, usecase.HomePageConfig{BasePath: "/smartfood-restaurant"}, entity.ReconstructViewState(false, valueobject.CategoryMains, false))
	html := render(t, page)

	if !strings.Contains(html, `<form class="reservation-form">`) {
		t.Fatal("expected form without action in static mode")
	}
	if !strings.Contains(html, `href="/smartfood-restaurant/static/css/site.css"`) {
		t.Fatal("expected stylesheet under base path")
	}
	if !strings.Contains(html, `href="/smartfood-restaurant/category/desserts/#menu"`) {
		t.Fatal("expected tab links under base path")
	}
	if !strings.Contains(html, `class="tab is-active" href="/smartfood-restaurant/category/mains/#menu"`) {
		t.Fatal("expected mains tab to be active")
	}
	if got := strings.Count(html, `<article class="menu-card"`); got != 2 {
		t.Fatalf("expected 2 main course cards, got %d", got)
	}
}

func TestMenuBody_DrinksRendersEmptyGrid(t *testing.T) {
	page := buildPage(t, usecase.HomePageConfig{}, entity.ReconstructViewState(false, valueobject.CategoryDrinks, false))

	var buf bytes.Buffer
	if err := NewRenderer().RenderMenuSection(context.Background(), &buf, page); err != nil {
		t.Fatalf("RenderMenuSection() error = %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, `<div class="menu-grid" data-count="0"></div>`) {
		t.Fatalf("expected empty grid, got %s", html)
	}
	if strings.Count(html, `role="tab"`) != 5 {
		t.Fatal("expected 5 tabs")
	}
}

func TestMobileOverlay_State(t *testing.T) {
	closed := buildPage(t, usecase.HomePageConfig{}, entity.ReconstructViewState(false, valueobject.CategoryAll, false))
	open := buildPage(t, usecase.HomePageConfig{}, entity.ReconstructViewState(false, valueobject.CategoryAll, true))

	var buf bytes.Buffer
	if err := NewRenderer().RenderMobileOverlay(context.Background(), &buf, closed); err != nil {
		t.Fatalf("RenderMobileOverlay() error = %v", err)
	}
	if !strings.Contains(buf.String(), `class="mobile-overlay" aria-hidden="true"`) {
		t.Fatalf("expected hidden overlay, got %s", buf.String())
	}

	html := render(t, open)
	if !strings.Contains(html, `class="mobile-overlay is-open" aria-hidden="false"`) {
		t.Fatal("expected open overlay")
	}
	if !strings.Contains(html, `aria-expanded="true"`) {
		t.Fatal("expected toggle to report expanded state")
	}
	if got := strings.Count(html, `data-live-link="#`); got != 4 {
		t.Fatalf("expected 4 overlay links, got %d", got)
	}
}

func TestMenuItemCard_EscapesContent(t *testing.T) {
	var buf bytes.Buffer
	err := MenuItemCard(&dto.MenuItemDTO{
		ID:          9,
		Name:        `<script>alert("x")</script>`,
		Description: "Fish & Chips",
		Price:       "$1",
		Image:       "javascript:alert(1)",
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	html := buf.String()
	if strings.Contains(html, "<script>") {
		t.Fatal("item name must be escaped")
	}
	if !strings.Contains(html, "Fish &amp; Chips") {
		t.Fatal("description must be escaped")
	}
	if strings.Contains(html, `src="javascript:`) {
		t.Fatal("unsafe image url must be sanitized")
	}
}

func TestCategoryHref(t *testing.T) {
	if got := CategoryHref("", "mains"); got != "/category/mains/#menu" {
		t.Fatalf("unexpected href %q", got)
	}
	if got := CategoryHref("/smartfood", ""); got != "/smartfood/#menu" {
		t.Fatalf("unexpected href %q", got)
	}
}

func TestReservationForm_PrefillsSubmittedValues(t *testing.T) {
	page := buildPage(t, usecase.HomePageConfig{FormEnabled: true}, entity.ReconstructViewState(false, valueobject.CategoryAll, false))
	page.FormError = "Please check the form: email is invalid"
	page.Submitted = &dto.ReservationRequest{
		Name:   `Ada "Countess" Lovelace`,
		Email:  "ada@",
		Phone:  "+1 555 0100",
		Guests: 3,
		Date:   "2026-11-02",
		Time:   "19:30",
		Notes:  "Window seat & <quiet>",
	}

	var buf bytes.Buffer
	if err := ReservationForm(page).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`value="Ada &#34;Countess&#34; Lovelace"`,
		`value="ada@"`,
		`value="+1 555 0100"`,
		`<option value="3" selected>3 people</option>`,
		`value="2026-11-02"`,
		`value="19:30"`,
		`>Window seat &amp; &lt;quiet&gt;</textarea>`,
		`<p class="form-error" role="alert">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in form", want)
		}
	}
	if got := strings.Count(html, " selected>"); got != 1 {
		t.Fatalf("expected exactly one selected option, got %d", got)
	}
}

func TestReservationForm_EmptyByDefault(t *testing.T) {
	page := buildPage(t, usecase.HomePageConfig{FormEnabled: true}, entity.ReconstructViewState(false, valueobject.CategoryAll, false))

	var buf bytes.Buffer
	if err := ReservationForm(page).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := buf.String()

	if strings.Contains(html, " selected>") {
		t.Fatal("no guest option should be preselected")
	}
	if !strings.Contains(html, `maxlength="2000"></textarea>`) {
		t.Fatalf("expected empty notes limited to 2000 characters, got %s", html)
	}
}

func TestHero_ImageIsEscaped(t *testing.T) {
	var buf bytes.Buffer
	err := Hero(&dto.HomePageDTO{HeroImage: "https://img.example.com/hero.jpg?w=1800&q=80"}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `src="https://img.example.com/hero.jpg?w=1800&amp;q=80"`) {
		t.Fatalf("unexpected hero markup %s", buf.String())
	}
}
