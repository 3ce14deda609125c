package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/pkg/logger"
	"github.com/google/uuid"
)

// SubmitReservationUseCase проверяет заявку и передает ее внешнему сервису бронирования.
// Сам сервис заявки не хранит.
type SubmitReservationUseCase struct {
	booking port.BookingService
	logger  *logger.Logger
}

// NewSubmitReservationUseCase создает новый use case
func NewSubmitReservationUseCase(booking port.BookingService, logger *logger.Logger) *SubmitReservationUseCase {
	return &SubmitReservationUseCase{
		booking: booking,
		logger:  logger,
	}
}

// Execute выполняет передачу заявки
func (uc *SubmitReservationUseCase) Execute(ctx context.Context, request *dto.ReservationRequest) (*dto.ReservationAckDTO, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	request.Reference = uuid.NewString()

	if uc.booking == nil {
		return nil, fmt.Errorf("booking service is not configured")
	}
	if err := uc.booking.RequestBooking(ctx, request); err != nil {
		uc.logger.Error("Failed to hand off reservation", err, "reference", request.Reference)
		return nil, fmt.Errorf("failed to hand off reservation: %w", err)
	}

	uc.logger.Info("Reservation handed off",
		"reference", request.Reference,
		"guests", request.Guests,
		"date", request.Date,
	)

	return dto.NewReservationAck(request), nil
}
