package port

import (
	"context"
	"io"

	"github.com/dreschagin/smartfood/internal/application/dto"
)

// PageRenderer renders a full home page document
type PageRenderer interface {
	RenderHomePage(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error
}

// FragmentRenderer renders the page parts a live session swaps in place.
type FragmentRenderer interface {
	// RenderContent рендерит основной контент, который заменяет заставку
	RenderContent(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error
	// RenderMenuSection рендерит вкладки и сетку карточек
	RenderMenuSection(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error
	// RenderMobileOverlay рендерит полноэкранное меню в текущем состоянии
	RenderMobileOverlay(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error
}
