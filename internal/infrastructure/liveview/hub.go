package liveview

import (
	"context"
	"sync"
	"time"

	"github.com/dreschagin/smartfood/pkg/logger"
)

// Observer получает события жизненного цикла сессий (метрики)
type Observer interface {
	SessionStarted()
	SessionEnded(duration time.Duration)
	CommandHandled(command string, err error)
}

type nopObserver struct{}

func (nopObserver) SessionStarted() {}
func (nopObserver) SessionEnded(time.Duration) {}
func (nopObserver) CommandHandled(string, error) {}

// Hub учитывает открытые live-сессии и закрывает их при остановке сервера
type Hub struct {
	// Открытые сессии по id
	sessions map[string]*Session

	// Канал для регистрации сессий
	register chan *Session

	// Канал для удаления сессий
	unregister chan *Session

	// Закрывается после выхода из Run
	done chan struct{}

	// Mutex для защиты sessions map
	mu sync.RWMutex

	observer Observer
	logger   *logger.Logger
}

// NewHub создает новый hub; observer может быть nil
func NewHub(observer Observer, logger *logger.Logger) *Hub {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Hub{
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		done:       make(chan struct{}),
		observer:   observer,
		logger:     logger,
	}
}

// Run обрабатывает регистрацию до отмены ctx, затем закрывает все сессии
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Live view hub started")
	defer close(h.done)

	for {
		select {
		case session := <-h.register:
			h.mu.Lock()
			h.sessions[session.ID()] = session
			total := len(h.sessions)
			h.mu.Unlock()
			h.observer.SessionStarted()
			h.logger.Debug("Live session registered", "session_id", session.ID(), "total_sessions", total)

		case session := <-h.unregister:
			h.mu.Lock()
			_, ok := h.sessions[session.ID()]
			delete(h.sessions, session.ID())
			total := len(h.sessions)
			h.mu.Unlock()
			if ok {
				h.observer.SessionEnded(time.Since(session.StartedAt()))
				h.logger.Debug("Live session unregistered", "session_id", session.ID(), "total_sessions", total)
			}

		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("Live view hub stopped")
			return
		}
	}
}

// Register регистрирует сессию; после остановки hub сессия сразу закрывается
func (h *Hub) Register(session *Session) {
	select {
	case h.register <- session:
	case <-h.done:
		session.Close()
	}
}

// Unregister удаляет сессию
func (h *Hub) Unregister(session *Session) {
	select {
	case h.unregister <- session:
	case <-h.done:
	}
}

// SessionCount возвращает количество открытых сессий
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Observer возвращает наблюдателя для сессий hub
func (h *Hub) Observer() Observer {
	return h.observer
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for id, session := range h.sessions {
		sessions = append(sessions, session)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	for _, session := range sessions {
		session.Close()
		h.observer.SessionEnded(time.Since(session.StartedAt()))
	}
}
