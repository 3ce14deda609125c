package liveview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/service"
	"github.com/dreschagin/smartfood/pkg/logger"
)

const (
	// Время ожидания для write операций
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал ping сообщений (должен быть меньше pongWait)
	pingPeriod = 54 * time.Second

	// Команды браузера короткие
	maxMessageSize = 512

	sendBufferSize = 16
)

// Session is one page view driven over a WebSocket.
// ViewState is touched only by the goroutine running Run.
type Session struct {
	id        string
	startedAt time.Time

	conn  *websocket.Conn
	hub   *Hub
	view  port.LiveView
	state *entity.ViewState
	gate  *service.SplashGate

	commands chan dto.LiveCommandDTO
	reveal   chan struct{}
	send     chan *dto.LiveMessageDTO

	done      chan struct{}
	closeOnce sync.Once

	logger *logger.Logger
}

// NewSession создает сессию для уже установленного соединения
func NewSession(
	hub *Hub,
	conn *websocket.Conn,
	view port.LiveView,
	state *entity.ViewState,
	splashDelay time.Duration,
	logger *logger.Logger,
) *Session {
	s := &Session{
		id:        uuid.NewString(),
		startedAt: time.Now(),
		conn:      conn,
		hub:       hub,
		view:      view,
		state:     state,
		commands:  make(chan dto.LiveCommandDTO),
		reveal:    make(chan struct{}, 1),
		send:      make(chan *dto.LiveMessageDTO, sendBufferSize),
		done:      make(chan struct{}),
		logger:    logger,
	}
	s.gate = service.NewSplashGate(splashDelay, s.postReveal)
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Run registers the session and blocks until the connection closes or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	s.hub.Register(s)
	defer s.hub.Unregister(s)

	go s.writePump()
	go s.readPump()

	if s.state.Loading() {
		s.gate.Start()
	}

	s.loop(ctx)
}

// Close завершает сессию; повторные вызовы игнорируются
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done закрывается после Close
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) loop(ctx context.Context) {
	defer func() {
		if s.gate.Stop() {
			s.logger.Debug("Splash timer cancelled", "session_id", s.id)
		}
		s.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-s.done:
			return

		case <-s.reveal:
			msg, err := s.view.Reveal(ctx, s.state)
			s.hub.Observer().CommandHandled(dto.MessageReveal, err)
			s.deliver(msg, err)

		case command := <-s.commands:
			msg, err := s.view.Handle(ctx, s.state, command)
			s.hub.Observer().CommandHandled(command.Type, err)
			s.deliver(msg, err)
		}
	}
}

// postReveal вызывается таймером заставки; состояние меняет только loop
func (s *Session) postReveal() {
	select {
	case s.reveal <- struct{}{}:
	default:
	}
}

func (s *Session) deliver(msg *dto.LiveMessageDTO, err error) {
	if err != nil {
		s.logger.Warn("Live command failed", "session_id", s.id, "error", err.Error())
		msg = &dto.LiveMessageDTO{Type: dto.MessageError, Error: err.Error()}
	}
	if msg == nil {
		return
	}

	select {
	case s.send <- msg:
	case <-s.done:
	default:
		// Клиент не успевает читать, закрываем соединение
		s.logger.Warn("Live session send buffer full, disconnecting", "session_id", s.id)
		s.Close()
	}
}

// readPump читает команды от браузера
func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error("WebSocket set read deadline error", err)
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var command dto.LiveCommandDTO
		if err := s.conn.ReadJSON(&command); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("WebSocket read error", err, "session_id", s.id)
			}
			return
		}

		select {
		case s.commands <- command:
		case <-s.done:
			return
		}
	}
}

// writePump отправляет сообщения клиенту и пингует его
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := s.conn.Close(); err != nil {
			s.logger.Debug("WebSocket close error", "session_id", s.id, "error", err.Error())
		}
	}()

	for {
		select {
		case message := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error("WebSocket set write deadline error", err)
				s.Close()
				return
			}
			if err := s.conn.WriteJSON(message); err != nil {
				s.logger.Error("WebSocket write error", err, "session_id", s.id)
				s.Close()
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.logger.Error("WebSocket set write deadline error", err)
				s.Close()
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
