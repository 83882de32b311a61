package presenter

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/soocke/pixel-motion-go/domain/pipeline"
	"github.com/soocke/pixel-motion-go/ui/model"
)

// StatusSource reports the current pipeline status.
type StatusSource interface{ Status() pipeline.CaptureState }

// SessionView displays formatted session durations and frame counts.
type SessionView interface {
	SetSession(session, total time.Duration)
	SetFrames(text string)
}

// SessionPresenter formats session durations and processed frames from the model to the view.
type SessionPresenter struct {
	sess       *model.SessionModel
	src        StatusSource
	view       SessionView
	lastFrames string
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src StatusSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// Tick updates the presenter: advance the session model and push values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	st := p.src.Status()
	p.sess.OnTick(st.IsCapturing, st.Frames, now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)

	sf, tf := p.sess.Frames()
	text := "Frames: " + humanize.Comma(int64(sf)) + " / " + humanize.Comma(int64(tf))
	if text != p.lastFrames {
		p.lastFrames = text
		p.view.SetFrames(text)
	}
}
