package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/domain/catalog"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/pkg/logger"
)

// ErrUnknownCommand возвращается для неизвестного типа команды
var ErrUnknownCommand = errors.New("unknown live command")

// LiveViewUseCase переводит события live-сессии в переходы ViewState и HTML-фрагменты
type LiveViewUseCase struct {
	pages    *GetHomePageUseCase
	renderer port.FragmentRenderer
	logger   *logger.Logger
}

func NewLiveViewUseCase(pages *GetHomePageUseCase, renderer port.FragmentRenderer, logger *logger.Logger) *LiveViewUseCase {
	return &LiveViewUseCase{
		pages:    pages,
		renderer: renderer,
		logger:   logger,
	}
}

// Reveal replaces the splash placeholder with content. It returns nil once content is already shown.
func (uc *LiveViewUseCase) Reveal(ctx context.Context, state *entity.ViewState) (*dto.LiveMessageDTO, error) {
	if !state.Reveal() {
		return nil, nil
	}

	html, err := uc.render(ctx, state, uc.renderer.RenderContent)
	if err != nil {
		return nil, err
	}
	return &dto.LiveMessageDTO{Type: dto.MessageReveal, HTML: html}, nil
}

// Handle применяет команду браузера
func (uc *LiveViewUseCase) Handle(ctx context.Context, state *entity.ViewState, command dto.LiveCommandDTO) (*dto.LiveMessageDTO, error) {
	switch command.Type {
	case dto.CommandSelectCategory:
		category := valueobject.ParseMenuCategory(command.Value)
		state.SelectCategory(category)

		html, err := uc.render(ctx, state, uc.renderer.RenderMenuSection)
		if err != nil {
			return nil, err
		}
		return &dto.LiveMessageDTO{Type: dto.MessageMenu, HTML: html, Category: category.String()}, nil

	case dto.CommandToggleMenu:
		open := state.ToggleMobileMenu()

		html, err := uc.render(ctx, state, uc.renderer.RenderMobileOverlay)
		if err != nil {
			return nil, err
		}
		return &dto.LiveMessageDTO{Type: dto.MessageOverlay, HTML: html, Open: &open}, nil

	case dto.CommandSelectLink:
		anchor, ok := catalog.FindNavAnchor(command.Value)
		if !ok {
			return nil, fmt.Errorf("unknown anchor %q", command.Value)
		}
		anchor = state.SelectLink(anchor)

		closed := false
		return &dto.LiveMessageDTO{Type: dto.MessageNavigate, Anchor: anchor, Open: &closed}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command.Type)
	}
}

func (uc *LiveViewUseCase) render(
	ctx context.Context,
	state *entity.ViewState,
	fragment func(context.Context, io.Writer, *dto.HomePageDTO) error,
) (string, error) {
	page, err := uc.pages.Execute(ctx, state)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := fragment(ctx, &buf, page); err != nil {
		uc.logger.Error("Failed to render live fragment", err, "category", page.ActiveCategory)
		return "", fmt.Errorf("failed to render fragment: %w", err)
	}
	return buf.String(), nil
}
