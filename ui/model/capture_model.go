package model

import (
	"sync/atomic"
)

// CaptureModel tracks whether the user asked for capture and whether a start
// is still in flight. The zero value is disabled and usable.
// Concurrency-safe via atomics because the start goroutine and presenter ticks race.
type CaptureModel struct {
	enabled  atomic.Bool
	starting atomic.Bool
}

// Enabled reports whether capture is currently enabled.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the enabled flag. It reports whether the value changed.
func (m *CaptureModel) SetEnabled(b bool) bool {
	if m == nil {
		return false
	}
	return m.enabled.Swap(b) != b
}

// Starting reports whether a start request has not completed yet.
func (m *CaptureModel) Starting() bool {
	if m == nil {
		return false
	}
	return m.starting.Load()
}

// SetStarting marks a start request as in flight or finished.
func (m *CaptureModel) SetStarting(b bool) {
	if m == nil {
		return
	}
	m.starting.Store(b)
}
