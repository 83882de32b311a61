package model

import (
	"time"
)

// SessionModel tracks capture session durations and processed frame counts.
// It is decoupled from the UI; presenters feed it from the pipeline status
// and poll Values() and Frames() to update views.
// The zero value is ready to use.
type SessionModel struct {
	active              bool
	captureStart        time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration

	sessionFrames     uint64
	accumulatedFrames uint64
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model using the current capture state, the frame count
// of the running session and the timestamp. Call periodically.
func (m *SessionModel) OnTick(capturing bool, frames uint64, now time.Time) {
	if m == nil {
		return
	}
	if capturing {
		if !m.active {
			m.active = true
			m.captureStart = now
			m.lastSessionDuration = 0
			m.sessionFrames = 0
		}
		m.lastSessionDuration = now.Sub(m.captureStart)
		if frames > m.sessionFrames {
			m.sessionFrames = frames
		}
	} else if m.active {
		m.lastSessionDuration = now.Sub(m.captureStart)
		m.accumulated += m.lastSessionDuration
		m.accumulatedFrames += m.sessionFrames
		m.active = false
	}
}

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Frames returns the frames processed in the last or current session and
// across all sessions.
func (m *SessionModel) Frames() (session, total uint64) {
	if m == nil {
		return 0, 0
	}
	session = m.sessionFrames
	total = m.accumulatedFrames
	if m.active {
		total += session
	}
	return
}
