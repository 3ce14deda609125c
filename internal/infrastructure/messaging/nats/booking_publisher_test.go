package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/pkg/logger"
)

type publishCall struct {
	subject string
	data    []byte
	opts    int
}

type fakeJetStream struct {
	calls []publishCall
	err   error
}

func (f *fakeJetStream) Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error) {
	f.calls = append(f.calls, publishCall{subject: subj, data: data, opts: len(opts)})
	if f.err != nil {
		return nil, f.err
	}
	return &nats.PubAck{Stream: "RESERVATIONS", Sequence: uint64(len(f.calls))}, nil
}

func newTestPublisher(js streamPublisher) *BookingPublisher {
	return &BookingPublisher{
		js:      js,
		subject: "smartfood.reservation.requested",
		logger:  logger.New("error"),
		now:     func() time.Time { return time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC) },
	}
}

func TestBookingPublisher_RequestBooking(t *testing.T) {
	js := &fakeJetStream{}
	p := newTestPublisher(js)

	request := &dto.ReservationRequest{
		Reference: "b1d7c1c2-9f55-4d8e-9a3c-0d1f2e3a4b5c",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 555 0100",
		Guests:    2,
		Date:      "2026-11-02",
		Time:      "19:30",
	}

	if err := p.RequestBooking(context.Background(), request); err != nil {
		t.Fatalf("RequestBooking() error = %v", err)
	}
	if len(js.calls) != 1 {
		t.Fatalf("expected one publish, got %d", len(js.calls))
	}
	call := js.calls[0]
	if call.subject != "smartfood.reservation.requested" {
		t.Fatalf("unexpected subject %q", call.subject)
	}
	if call.opts != 2 {
		t.Fatalf("expected message id and context options, got %d options", call.opts)
	}

	var event ReservationEvent
	if err := json.Unmarshal(call.data, &event); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if event.Type != "reservation.requested" {
		t.Fatalf("unexpected event type %q", event.Type)
	}
	if event.Reservation.Reference != request.Reference || event.Reservation.Guests != 2 {
		t.Fatalf("unexpected reservation payload: %+v", event.Reservation)
	}
	if !event.RequestedAt.Equal(time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected requested_at %v", event.RequestedAt)
	}
}

func TestBookingPublisher_PublishError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connection closed", nats.ErrConnectionClosed},
		{"no stream bound to subject", nats.ErrNoStreamResponse},
		{"stream rejected message", errors.New("nats: maximum messages exceeded")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPublisher(&fakeJetStream{err: tt.err})

			err := p.RequestBooking(context.Background(), &dto.ReservationRequest{Reference: "r"})
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestBookingPublisher_CanceledContext(t *testing.T) {
	js := &fakeJetStream{}
	p := newTestPublisher(js)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.RequestBooking(ctx, &dto.ReservationRequest{Reference: "r"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(js.calls) != 0 {
		t.Fatal("expected no publish after cancellation")
	}
}

func TestNewBookingPublisher_RequiresSubject(t *testing.T) {
	if _, err := NewBookingPublisher("nats://127.0.0.1:1", "", logger.New("error")); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestBookingPublisher_CloseWithoutConnection(t *testing.T) {
	p := newTestPublisher(&fakeJetStream{})
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if p.Connected() {
		t.Fatal("expected disconnected publisher")
	}
}
