package liveview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dreschagin/smartfood/internal/application/dto"
	"github.com/dreschagin/smartfood/internal/domain/entity"
	"github.com/dreschagin/smartfood/internal/domain/valueobject"
	"github.com/dreschagin/smartfood/pkg/logger"
)

type fakeLiveView struct {
	mu      sync.Mutex
	reveals int
}

func (f *fakeLiveView) Reveal(_ context.Context, state *entity.ViewState) (*dto.LiveMessageDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !state.Reveal() {
		return nil, nil
	}
	f.reveals++
	return &dto.LiveMessageDTO{Type: dto.MessageReveal, HTML: "<main>content</main>"}, nil
}

func (f *fakeLiveView) Handle(_ context.Context, state *entity.ViewState, command dto.LiveCommandDTO) (*dto.LiveMessageDTO, error) {
	switch command.Type {
	case dto.CommandSelectCategory:
		state.SelectCategory(valueobject.ParseMenuCategory(command.Value))
		return &dto.LiveMessageDTO{Type: dto.MessageMenu, Category: state.ActiveCategory().String()}, nil
	case dto.CommandToggleMenu:
		open := state.ToggleMobileMenu()
		return &dto.LiveMessageDTO{Type: dto.MessageOverlay, Open: &open}, nil
	}
	return nil, errors.New("unknown live command")
}

func (f *fakeLiveView) revealCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reveals
}

type countingObserver struct {
	mu       sync.Mutex
	started  int
	ended    int
	commands []string
}

func (o *countingObserver) SessionStarted() {
	o.mu.Lock()
	o.started++
	o.mu.Unlock()
}

func (o *countingObserver) SessionEnded(time.Duration) {
	o.mu.Lock()
	o.ended++
	o.mu.Unlock()
}

func (o *countingObserver) CommandHandled(command string, _ error) {
	o.mu.Lock()
	o.commands = append(o.commands, command)
	o.mu.Unlock()
}

type liveFixture struct {
	hub      *Hub
	view     *fakeLiveView
	observer *countingObserver
	server   *httptest.Server
	cancel   context.CancelFunc
}

func newLiveFixture(t *testing.T, loading bool, delay time.Duration) *liveFixture {
	t.Helper()

	log := logger.New("error")
	observer := &countingObserver{}
	hub := NewHub(observer, log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	view := &fakeLiveView{}
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		state := entity.ReconstructViewState(loading, valueobject.CategoryAll, false)
		NewSession(hub, conn, view, state, delay, log).Run(context.Background())
	}))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return &liveFixture{hub: hub, view: view, observer: observer, server: server, cancel: cancel}
}

func (f *liveFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *dto.LiveMessageDTO {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	var msg dto.LiveMessageDTO
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return &msg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSession_RevealsAfterSplashDelay(t *testing.T) {
	f := newLiveFixture(t, true, 20*time.Millisecond)
	conn := f.dial(t)
	defer conn.Close()

	start := time.Now()
	msg := readMessage(t, conn)
	if msg.Type != dto.MessageReveal || msg.HTML != "<main>content</main>" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Fatal("content revealed before splash delay")
	}

	// Команды после показа не перезапускают таймер
	if err := conn.WriteJSON(dto.LiveCommandDTO{Type: dto.CommandToggleMenu}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != dto.MessageOverlay || msg.Open == nil || !*msg.Open {
		t.Fatalf("expected open overlay, got %+v", msg)
	}
	time.Sleep(50 * time.Millisecond)
	if got := f.view.revealCount(); got != 1 {
		t.Fatalf("expected exactly one reveal, got %d", got)
	}
}

func TestSession_CommandRoundTrip(t *testing.T) {
	f := newLiveFixture(t, false, time.Hour)
	conn := f.dial(t)
	defer conn.Close()

	if err := conn.WriteJSON(dto.LiveCommandDTO{Type: dto.CommandSelectCategory, Value: "mains"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != dto.MessageMenu || msg.Category != "mains" {
		t.Fatalf("unexpected message %+v", msg)
	}

	if err := conn.WriteJSON(dto.LiveCommandDTO{Type: "bogus"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != dto.MessageError || msg.Error == "" {
		t.Fatalf("expected error message, got %+v", msg)
	}
}

func TestSession_CloseCancelsSplashTimer(t *testing.T) {
	f := newLiveFixture(t, true, 100*time.Millisecond)
	conn := f.dial(t)

	waitFor(t, func() bool { return f.hub.SessionCount() == 1 })
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	waitFor(t, func() bool { return f.hub.SessionCount() == 0 })
	time.Sleep(150 * time.Millisecond)
	if got := f.view.revealCount(); got != 0 {
		t.Fatalf("expected no reveal after close, got %d", got)
	}

	f.observer.mu.Lock()
	defer f.observer.mu.Unlock()
	if f.observer.started != 1 || f.observer.ended != 1 {
		t.Fatalf("expected one started/ended session, got %d/%d", f.observer.started, f.observer.ended)
	}
}

func TestHub_ShutdownClosesSessions(t *testing.T) {
	f := newLiveFixture(t, false, time.Hour)
	conn := f.dial(t)
	defer conn.Close()

	waitFor(t, func() bool { return f.hub.SessionCount() == 1 })
	f.cancel()

	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close from server, got %v", err)
	}
	if f.hub.SessionCount() != 0 {
		t.Fatalf("expected no sessions after shutdown, got %d", f.hub.SessionCount())
	}
}
