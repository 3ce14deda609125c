package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/internal/infrastructure/liveview"
	"github.com/dreschagin/smartfood/pkg/logger"
)

// LiveHandler поднимает live-сессию на WebSocket соединении
type LiveHandler struct {
	hub            *liveview.Hub
	view           port.LiveView
	splashDelay    time.Duration
	logger         *logger.Logger
	allowedOrigins map[string]struct{}
	upgrader       websocket.Upgrader
}

// NewLiveHandler создает новый handler
func NewLiveHandler(
	hub *liveview.Hub,
	view port.LiveView,
	splashDelay time.Duration,
	allowedOrigins []string,
	logger *logger.Logger,
) *LiveHandler {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	handler := &LiveHandler{
		hub:            hub,
		view:           view,
		splashDelay:    splashDelay,
		logger:         logger,
		allowedOrigins: originMap,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     handler.checkOrigin,
	}

	return handler
}

func (h *LiveHandler) checkOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	// Страница и сокет на одном хосте
	if strings.EqualFold(parsed.Host, r.Host) {
		return true
	}

	normalized := parsed.Scheme + "://" + parsed.Host
	if _, ok := h.allowedOrigins[normalized]; ok {
		return true
	}
	if _, ok := h.allowedOrigins["*"]; ok {
		return true
	}

	return false
}

// HandleConnection обрабатывает новое WebSocket соединение.
// Состояние просмотра восстанавливается из query: loading, category, menu.
func (h *LiveHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err.Error(), "remote_addr", r.RemoteAddr)
		return
	}

	session := liveview.NewSession(h.hub, conn, h.view, viewStateFromQuery(r.URL.Query()), h.splashDelay, h.logger)
	h.logger.Debug("Live session opened", "session_id", session.ID())

	// Блокируется до закрытия соединения
	session.Run(r.Context())
}

func viewStateFromQuery(query url.Values) *entity.ViewState {
	category := valueobject.CategoryAll
	if query.Has("category") {
		category = valueobject.ParseMenuCategory(query.Get("category"))
	}
	return entity.ReconstructViewState(
		query.Get("loading") != "false",
		category,
		query.Get("menu") == "true",
	)
}
