package service

import (
	"sync"
	"time"
)

// SplashGate держит заставку заданное время, затем один раз вызывает onReveal.
// Повторный Start не перезапускает таймер; Stop отменяет его при закрытии просмотра.
type SplashGate struct {
	delay    time.Duration
	onReveal func()

	mu       sync.Mutex
	timer    *time.Timer
	started  bool
	revealed bool
	stopped  bool
}

// NewSplashGate создает gate; onReveal может быть nil
func NewSplashGate(delay time.Duration, onReveal func()) *SplashGate {
	return &SplashGate{
		delay:    delay,
		onReveal: onReveal,
	}
}

// Start arms the one-shot timer. Calls after the first are ignored.
func (g *SplashGate) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started || g.stopped {
		return
	}
	g.started = true
	g.timer = time.AfterFunc(g.delay, g.fire)
}

func (g *SplashGate) fire() {
	g.mu.Lock()
	if g.revealed || g.stopped {
		g.mu.Unlock()
		return
	}
	g.revealed = true
	onReveal := g.onReveal
	g.mu.Unlock()

	if onReveal != nil {
		onReveal()
	}
}

// Stop cancels a pending reveal. It reports whether a pending reveal was cancelled.
func (g *SplashGate) Stop() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopped = true
	if g.timer == nil || g.revealed {
		return false
	}
	return g.timer.Stop()
}

// Revealed reports whether the delay elapsed and content was revealed.
func (g *SplashGate) Revealed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revealed
}
