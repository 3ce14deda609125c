package view

import (
	"context"
	"io"

	"github.com/dreschagin/smartfood/internal/application/dto"
)

// Renderer implements port.PageRenderer and port.FragmentRenderer.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderHomePage(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error {
	return HomePage(page).Render(ctx, w)
}

func (r *Renderer) RenderContent(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error {
	return Content(page).Render(ctx, w)
}

func (r *Renderer) RenderMenuSection(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error {
	return MenuBody(page).Render(ctx, w)
}

func (r *Renderer) RenderMobileOverlay(ctx context.Context, w io.Writer, page *dto.HomePageDTO) error {
	return MobileOverlay(page).Render(ctx, w)
}
