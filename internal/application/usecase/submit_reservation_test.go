package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/pkg/logger"
)

type mockBookingService struct {
	requests []*dto.ReservationRequest
	err      error
}

func (m *mockBookingService) RequestBooking(_ context.Context, request *dto.ReservationRequest) error {
	m.requests = append(m.requests, request)
	return m.err
}

func validReservation() *dto.ReservationRequest {
	return &dto.ReservationRequest{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Phone:  "+1 555 0100",
		Guests: 7,
		Date:   "2026-11-02",
		Time:   "19:30",
	}
}

func TestSubmitReservationUseCase_Success(t *testing.T) {
	booking := &mockBookingService{}
	uc := NewSubmitReservationUseCase(booking, logger.New("error"))

	ack, err := uc.Execute(context.Background(), validReservation())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(booking.requests) != 1 {
		t.Fatalf("expected one hand-off, got %d", len(booking.requests))
	}
	if ack.Reference == "" || ack.Reference != booking.requests[0].Reference {
		t.Fatalf("expected matching reference, got %q vs %q", ack.Reference, booking.requests[0].Reference)
	}
	if ack.Guests != "7+" {
		t.Fatalf("expected guests label 7+, got %q", ack.Guests)
	}
}

func TestSubmitReservationUseCase_InvalidNeverReachesBooking(t *testing.T) {
	booking := &mockBookingService{}
	uc := NewSubmitReservationUseCase(booking, logger.New("error"))

	req := validReservation()
	req.Email = "nope"
	_, err := uc.Execute(context.Background(), req)
	if !errors.Is(err, dto.ErrInvalidReservation) {
		t.Fatalf("expected ErrInvalidReservation, got %v", err)
	}
	if len(booking.requests) != 0 {
		t.Fatal("invalid request must not be handed off")
	}
}

func TestSubmitReservationUseCase_BookingFailure(t *testing.T) {
	booking := &mockBookingService{err: errors.New("broker down")}
	uc := NewSubmitReservationUseCase(booking, logger.New("error"))

	_, err := uc.Execute(context.Background(), validReservation())
	if err == nil || !strings.Contains(err.Error(), "broker down") {
		t.Fatalf("expected wrapped booking error, got %v", err)
	}
}

func TestSubmitReservationUseCase_NoBookingService(t *testing.T) {
	uc := NewSubmitReservationUseCase(nil, logger.New("error"))

	if _, err := uc.Execute(context.Background(), validReservation()); err == nil {
		t.Fatal("expected error without booking service")
	}
}
