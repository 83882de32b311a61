package pipeline

import "sync"

// Ticker schedules exactly one pending callback at a time. Schedule replaces
// any callback not yet fired; Cancel drops it.
type Ticker interface {
	Schedule(fn func())
	Cancel()
}

// ManualTicker is a Ticker driven by an external frame clock: the owner calls
// Fire once per display frame (a Tk after loop, an ebiten Update, a test).
type ManualTicker struct {
	mu      sync.Mutex
	pending func()
}

// NewManualTicker returns an idle ticker.
func NewManualTicker() *ManualTicker { return &ManualTicker{} }

func (t *ManualTicker) Schedule(fn func()) {
	t.mu.Lock()
	t.pending = fn
	t.mu.Unlock()
}

func (t *ManualTicker) Cancel() {
	t.mu.Lock()
	t.pending = nil
	t.mu.Unlock()
}

// Fire runs the pending callback, if any, on the calling goroutine. It
// reports whether a callback ran.
func (t *ManualTicker) Fire() bool {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a callback is scheduled.
func (t *ManualTicker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}
