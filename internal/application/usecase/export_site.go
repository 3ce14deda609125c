package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/pkg/logger"
)

const htmlContentType = "text/html; charset=utf-8"

// ExportSiteConfig задает параметры статического экспорта
type ExportSiteConfig struct {
	// KeyPrefix добавляется к ключу каждого файла в хранилище
	KeyPrefix string
	// Assets содержит каталог static/ (CSS, JS)
	Assets fs.FS
}

// ExportedFileDTO описывает один выгруженный файл
type ExportedFileDTO struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
	URL         string `json:"url"`
}

// ExportSiteUseCase рендерит сайт в набор статических файлов
type ExportSiteUseCase struct {
	pages    *GetHomePageUseCase
	renderer port.PageRenderer
	storage  port.SiteStorage
	config   ExportSiteConfig
	logger   *logger.Logger
}

// NewExportSiteUseCase создает новый use case
func NewExportSiteUseCase(
	pages *GetHomePageUseCase,
	renderer port.PageRenderer,
	storage port.SiteStorage,
	config ExportSiteConfig,
	logger *logger.Logger,
) *ExportSiteUseCase {
	return &ExportSiteUseCase{
		pages:    pages,
		renderer: renderer,
		storage:  storage,
		config:   config,
		logger:   logger,
	}
}

// Execute writes index.html (with the splash gate), one page per menu tab
// (already revealed) and every static asset.
func (uc *ExportSiteUseCase) Execute(ctx context.Context) ([]ExportedFileDTO, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("site storage is required")
	}

	files := make([]ExportedFileDTO, 0)

	index, err := uc.renderPage(ctx, entity.NewViewState())
	if err != nil {
		return nil, err
	}
	file, err := uc.put(ctx, "index.html", htmlContentType, index)
	if err != nil {
		return nil, err
	}
	files = append(files, file)

	for _, category := range valueobject.Tabs() {
		body, err := uc.renderPage(ctx, entity.ReconstructViewState(false, category, false))
		if err != nil {
			return nil, err
		}
		file, err := uc.put(ctx, CategoryPagePath(category), htmlContentType, body)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	if uc.config.Assets != nil {
		assetFiles, err := uc.exportAssets(ctx)
		if err != nil {
			return nil, err
		}
		files = append(files, assetFiles...)
	}

	uc.logger.Info("Static export finished", "files", len(files))
	return files, nil
}

// CategoryPagePath returns the export path of a tab page, relative to the site root.
func CategoryPagePath(category valueobject.MenuCategory) string {
	return path.Join("category", category.String(), "index.html")
}

func (uc *ExportSiteUseCase) renderPage(ctx context.Context, state *entity.ViewState) ([]byte, error) {
	page, err := uc.pages.Execute(ctx, state)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := uc.renderer.RenderHomePage(ctx, &buf, page); err != nil {
		return nil, fmt.Errorf("failed to render %s page: %w", state.ActiveCategory(), err)
	}
	return buf.Bytes(), nil
}

func (uc *ExportSiteUseCase) exportAssets(ctx context.Context) ([]ExportedFileDTO, error) {
	paths := make([]string, 0)
	err := fs.WalkDir(uc.config.Assets, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk assets: %w", err)
	}
	sort.Strings(paths)

	files := make([]ExportedFileDTO, 0, len(paths))
	for _, p := range paths {
		body, err := fs.ReadFile(uc.config.Assets, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", p, err)
		}
		contentType := mime.TypeByExtension(path.Ext(p))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		file, err := uc.put(ctx, path.Join("static", p), contentType, body)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (uc *ExportSiteUseCase) put(ctx context.Context, name, contentType string, body []byte) (ExportedFileDTO, error) {
	key := name
	if prefix := strings.Trim(uc.config.KeyPrefix, "/"); prefix != "" {
		key = prefix + "/" + name
	}

	url, err := uc.storage.PutObject(ctx, key, contentType, body)
	if err != nil {
		uc.logger.Error("Failed to upload exported file", err, "key", key)
		return ExportedFileDTO{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	uc.logger.Debug("Exported file", "key", key, "size", len(body))
	return ExportedFileDTO{
		Key:         key,
		ContentType: contentType,
		SizeBytes:   len(body),
		URL:         url,
	}, nil
}
