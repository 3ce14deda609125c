package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/pkg/logger"
)

const reservationEventType = "reservation.requested"

// ReservationEvent конверт, который уходит в брокер
type ReservationEvent struct {
	Type        string                  `json:"type"`
	RequestedAt time.Time               `json:"requested_at"`
	Reservation *dto.ReservationRequest `json:"reservation"`
}

// streamPublisher is satisfied by nats.JetStreamContext.
type streamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// BookingPublisher передает заявки на бронирование во внешнюю систему через NATS JetStream
type BookingPublisher struct {
	nc      *nats.Conn
	js      streamPublisher
	subject string
	logger  *logger.Logger
	now     func() time.Time
}

// NewBookingPublisher connects to NATS and returns a publisher for the given subject.
func NewBookingPublisher(natsURL, subject string, log *logger.Logger) (*BookingPublisher, error) {
	if subject == "" {
		return nil, fmt.Errorf("reservation subject is required")
	}

	// Connect to NATS with retry
	nc, err := nats.Connect(natsURL,
		nats.Name("smartfood-site"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	log.Info("Connected to NATS", "url", natsURL, "subject", subject)

	return &BookingPublisher{
		nc:      nc,
		js:      js,
		subject: subject,
		logger:  log,
		now:     time.Now,
	}, nil
}

// RequestBooking публикует заявку и ждет подтверждения от JetStream.
// Без потока на subject брокер отвечает ошибкой, и заявка не считается переданной.
func (p *BookingPublisher) RequestBooking(ctx context.Context, request *dto.ReservationRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ReservationEvent{
		Type:        reservationEventType,
		RequestedAt: p.now().UTC(),
		Reservation: request,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reservation: %w", err)
	}

	// Reference служит ключом дедупликации на стороне JetStream
	ack, err := p.js.Publish(p.subject, data, nats.MsgId(request.Reference), nats.Context(ctx))
	if err != nil {
		p.logger.Error("Failed to publish reservation", err,
			"subject", p.subject,
			"reference", request.Reference,
		)
		return fmt.Errorf("failed to publish reservation: %w", err)
	}

	p.logger.Debug("Reservation published",
		"subject", p.subject,
		"reference", request.Reference,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
		"duplicate", ack.Duplicate,
	)

	return nil
}

// Connected сообщает о состоянии соединения (для /readyz)
func (p *BookingPublisher) Connected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

// Close drains the connection and closes it.
func (p *BookingPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	p.logger.Info("Closing NATS connection")
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
