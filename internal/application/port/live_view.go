package port

import (
	"context"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/domain/entity"
)

// LiveView applies live-session events to a view state and returns the update for the browser.
// A nil message means nothing changed.
type LiveView interface {
	Reveal(ctx context.Context, state *entity.ViewState) (*dto.LiveMessageDTO, error)
	Handle(ctx context.Context, state *entity.ViewState, command dto.LiveCommandDTO) (*dto.LiveMessageDTO, error)
}
