package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/pkg/logger"
)

type putCall struct {
	key         string
	contentType string
	body        []byte
}

type mockSiteStorage struct {
	calls []putCall
	errAt map[string]error
}

func (m *mockSiteStorage) PutObject(_ context.Context, key, contentType string, body []byte) (string, error) {
	m.calls = append(m.calls, putCall{key: key, contentType: contentType, body: body})
	if err, ok := m.errAt[key]; ok {
		return "", err
	}
	return "https://example.com/" + key, nil
}

type summaryRenderer struct{}

func (summaryRenderer) RenderHomePage(_ context.Context, w io.Writer, page *dto.HomePageDTO) error {
	_, err := fmt.Fprintf(w, "category=%s loading=%t items=%d base=%s", page.ActiveCategory, page.Loading, len(page.Items), page.BasePath)
	return err
}

func TestExportSiteUseCase_Success(t *testing.T) {
	pages := newHomePageUseCase(t, HomePageConfig{BasePath: "/smartfood-restaurant"}, nil)
	storage := &mockSiteStorage{}
	assets := fstest.MapFS{
		"css/site.css": {Data: []byte("body{}")},
		"js/live.js":   {Data: []byte("void 0")},
	}

	uc := NewExportSiteUseCase(pages, summaryRenderer{}, storage, ExportSiteConfig{
		KeyPrefix: "/smartfood-restaurant/",
		Assets:    assets,
	}, logger.New("error"))

	files, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// index + 5 tabs + 2 assets
	if len(files) != 8 {
		t.Fatalf("expected 8 files, got %d", len(files))
	}

	byKey := make(map[string]putCall)
	for _, call := range storage.calls {
		byKey[call.key] = call
	}

	index, ok := byKey["smartfood-restaurant/index.html"]
	if !ok {
		t.Fatalf("expected index.html, got keys %v", keys(byKey))
	}
	if !strings.Contains(string(index.body), "category=all loading=true items=6") {
		t.Fatalf("unexpected index body: %s", index.body)
	}

	mains := byKey["smartfood-restaurant/category/mains/index.html"]
	if !strings.Contains(string(mains.body), "category=mains loading=false items=2") {
		t.Fatalf("unexpected mains body: %s", mains.body)
	}

	drinks := byKey["smartfood-restaurant/category/drinks/index.html"]
	if !strings.Contains(string(drinks.body), "items=0") {
		t.Fatalf("expected empty drinks page, got %s", drinks.body)
	}

	css := byKey["smartfood-restaurant/static/css/site.css"]
	if !strings.HasPrefix(css.contentType, "text/css") {
		t.Fatalf("unexpected css content type %q", css.contentType)
	}
}

func TestExportSiteUseCase_StorageFailure(t *testing.T) {
	pages := newHomePageUseCase(t, HomePageConfig{}, nil)
	storage := &mockSiteStorage{errAt: map[string]error{
		"category/desserts/index.html": errors.New("denied"),
	}}

	uc := NewExportSiteUseCase(pages, summaryRenderer{}, storage, ExportSiteConfig{}, logger.New("error"))

	_, err := uc.Execute(context.Background())
	if err == nil || !strings.Contains(err.Error(), "category/desserts/index.html") {
		t.Fatalf("expected upload error for desserts page, got %v", err)
	}
}

func TestExportSiteUseCase_RequiresStorage(t *testing.T) {
	pages := newHomePageUseCase(t, HomePageConfig{}, nil)
	uc := NewExportSiteUseCase(pages, summaryRenderer{}, nil, ExportSiteConfig{}, logger.New("error"))

	if _, err := uc.Execute(context.Background()); err == nil {
		t.Fatal("expected error without storage")
	}
}

func keys(m map[string]putCall) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
