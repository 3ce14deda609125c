package booking

import (
	"context"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/pkg/logger"
)

// Discard принимает заявку и только пишет ее в лог.
// Используется, когда внешняя система бронирования не настроена.
type Discard struct {
	logger *logger.Logger
}

func NewDiscard(log *logger.Logger) *Discard {
	return &Discard{logger: log}
}

func (d *Discard) RequestBooking(ctx context.Context, request *dto.ReservationRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Info("Reservation accepted without booking backend",
		"reference", request.Reference,
		"guests", request.Guests,
		"date", request.Date,
		"time", request.Time,
	)
	return nil
}
