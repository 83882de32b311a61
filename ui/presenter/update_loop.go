package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// Each Tick first fires the pipeline cycle, then lets the sub-presenters
// reflect the result, then invokes the scheduler callback. The zero value is
// usable (methods are nil-safe).
type Loop struct {
	Cycle    func() bool
	Status   *StatusPresenter
	Capture  *CapturePresenter
	Session  *SessionPresenter
	Output   *OutputPresenter
	Settings *SettingsPresenter
	Schedule func()
	Now      func() time.Time
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	if l.Settings != nil {
		l.Settings.Tick()
	}
	if l.Cycle != nil {
		l.Cycle()
	}
	if l.Status != nil {
		l.Status.Tick()
	}
	if l.Capture != nil {
		l.Capture.Sync()
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Output != nil {
		l.Output.ProcessFrame()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
