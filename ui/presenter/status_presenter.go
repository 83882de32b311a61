package presenter

import (
	"fmt"
	"sync"

	"github.com/soocke/pixel-motion-go/domain/pipeline"
)

// StatusView renders pipeline status labels.
type StatusView interface {
	SetStateLabel(string)
	SetFPSLabel(string)
	SetResolutionLabel(string)
	SetErrorLabel(string)
}

// StatusPresenter receives CaptureState publications from the pipeline and
// reflects the most recent one in the view on the next Tick. OnStatus may be
// called from any goroutine.
type StatusPresenter struct {
	view StatusView

	mu      sync.Mutex
	pending []pipeline.CaptureState

	shown  pipeline.CaptureState
	primed bool
}

func NewStatusPresenter(view StatusView) *StatusPresenter {
	return &StatusPresenter{view: view}
}

// OnStatus queues a published status. It matches pipeline.StatusListener.
func (p *StatusPresenter) OnStatus(st pipeline.CaptureState) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, st)
	p.mu.Unlock()
}

// Tick flushes the queue and updates only the labels that changed.
func (p *StatusPresenter) Tick() {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	p.mu.Unlock()

	prev := p.shown
	first := !p.primed
	p.shown, p.primed = last, true
	if first || last.State != prev.State {
		p.view.SetStateLabel("State: " + last.State.String())
	}
	if first || last.FPS != prev.FPS {
		p.view.SetFPSLabel(fmt.Sprintf("FPS: %d", last.FPS))
	}
	if first || resolutionText(last.Resolution) != resolutionText(prev.Resolution) {
		p.view.SetResolutionLabel("Resolution: " + resolutionText(last.Resolution))
	}
	if first || last.LastError != prev.LastError {
		p.view.SetErrorLabel(last.LastError)
	}
}

func resolutionText(r *pipeline.Resolution) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}
