package pipeline

import "time"

const fpsWindow = time.Second

// fpsMeter counts completed cycles and publishes the count once per window.
type fpsMeter struct {
	count       int
	windowStart time.Time
	fps         int
}

func (m *fpsMeter) reset(now time.Time) {
	m.count = 0
	m.windowStart = now
	m.fps = 0
}

// tick records one processed frame. It returns the new rate and true when a
// window closed.
func (m *fpsMeter) tick(now time.Time) (int, bool) {
	m.count++
	if now.Sub(m.windowStart) < fpsWindow {
		return m.fps, false
	}
	m.fps = m.count
	m.count = 0
	m.windowStart = now
	return m.fps, true
}
