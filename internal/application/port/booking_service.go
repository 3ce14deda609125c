package port

import (
	"context"

	"github.com/dreschagin/smartfood/internal/application/dto"
)

// BookingService is the external collaborator that receives reservation requests.
// This service never stores them; whoever integrates a real booking backend implements this.
type BookingService interface {
	RequestBooking(ctx context.Context, request *dto.ReservationRequest) error
}
