package presenter

import (
	"context"
	"testing"

	"github.com/soocke/pixel-motion-go/domain/capture"
	"github.com/soocke/pixel-motion-go/domain/pipeline"
	"github.com/soocke/pixel-motion-go/ui/model"
)

type mockPipeline struct {
	started, stopped int
	startErr         error
	state            pipeline.CaptureState
}

func (p *mockPipeline) Start(context.Context) error {
	p.started++
	if p.startErr != nil {
		p.state = pipeline.CaptureState{State: pipeline.StateIdle, LastError: p.startErr.Error()}
		return p.startErr
	}
	p.state = pipeline.CaptureState{State: pipeline.StateRunning, IsCapturing: true}
	return nil
}

func (p *mockPipeline) Stop() {
	p.stopped++
	p.state = pipeline.CaptureState{State: pipeline.StateIdle}
}

func (p *mockPipeline) Status() pipeline.CaptureState { return p.state }

type mockView struct {
	reset, editableCalls int
	lastEditable         bool
	capturing            bool
}

func (v *mockView) PreviewReset()          { v.reset++ }
func (v *mockView) RequestEditable(b bool) { v.editableCalls++; v.lastEditable = b }
func (v *mockView) SetCapturing(b bool)    { v.capturing = b }

func newInlineCapturePresenter(m *model.CaptureModel, p *mockPipeline, v *mockView) *CapturePresenter {
	c := NewCapturePresenter(context.Background(), m, p, v, discardLogger)
	c.run = func(fn func()) { fn() }
	return c
}

func TestCapturePresenter_EnableDisable_Idempotent(t *testing.T) {
	m := &model.CaptureModel{}
	p := &mockPipeline{}
	view := &mockView{}
	c := newInlineCapturePresenter(m, p, view)

	c.Enable()
	if !m.Enabled() || m.Starting() || p.started != 1 || view.lastEditable || view.editableCalls != 1 || !view.capturing {
		t.Fatalf("enable failed: enabled=%v started=%d editableCalls=%d lastEditable=%v", m.Enabled(), p.started, view.editableCalls, view.lastEditable)
	}
	c.Enable()
	if p.started != 1 {
		t.Fatalf("enable not idempotent: started=%d", p.started)
	}

	c.Disable()
	if m.Enabled() || p.stopped != 1 || view.reset != 1 || !view.lastEditable || view.editableCalls != 2 || view.capturing {
		t.Fatalf("disable failed: enabled=%v stopped=%d reset=%d editableCalls=%d lastEditable=%v", m.Enabled(), p.stopped, view.reset, view.editableCalls, view.lastEditable)
	}
	c.Disable()
	if p.stopped != 1 || view.reset != 1 {
		t.Fatalf("disable not idempotent: stopped=%d reset=%d", p.stopped, view.reset)
	}
}

func TestCapturePresenter_Toggle(t *testing.T) {
	m := &model.CaptureModel{}
	p := &mockPipeline{}
	view := &mockView{}
	c := newInlineCapturePresenter(m, p, view)
	c.Toggle()
	if !m.Enabled() || p.started != 1 {
		t.Fatalf("toggle enable failed")
	}
	c.Toggle()
	if m.Enabled() || p.stopped != 1 || view.reset != 1 {
		t.Fatalf("toggle disable failed")
	}
}

func TestCapturePresenter_FailedStartClearsModel(t *testing.T) {
	m := &model.CaptureModel{}
	p := &mockPipeline{startErr: capture.ErrSourceUnavailable}
	view := &mockView{}
	c := newInlineCapturePresenter(m, p, view)
	c.Enable()
	if m.Enabled() || m.Starting() {
		t.Fatalf("model still enabled after failed start")
	}
	c.Sync()
	if view.capturing || !view.lastEditable || view.reset != 1 {
		t.Fatalf("view not reset after failed start: %+v", view)
	}
	c.Sync()
	if view.reset != 1 {
		t.Fatalf("sync repeated the reset")
	}
}

func TestCapturePresenter_SyncAfterTermination(t *testing.T) {
	m := &model.CaptureModel{}
	p := &mockPipeline{}
	view := &mockView{}
	c := newInlineCapturePresenter(m, p, view)
	c.Enable()
	c.Sync()
	if !m.Enabled() || view.reset != 0 {
		t.Fatalf("sync changed a running capture")
	}
	p.state = pipeline.CaptureState{State: pipeline.StateIdle}
	c.Sync()
	if m.Enabled() || view.reset != 1 || view.capturing {
		t.Fatalf("terminated pipeline not reflected")
	}
}

func TestCapturePresenter_SyncWaitsForStart(t *testing.T) {
	m := &model.CaptureModel{}
	p := &mockPipeline{}
	view := &mockView{}
	c := NewCapturePresenter(context.Background(), m, p, view, discardLogger)
	var pending func()
	c.run = func(fn func()) { pending = fn }
	c.Enable()
	c.Sync()
	if !m.Enabled() || view.reset != 0 {
		t.Fatalf("sync must ignore the idle pipeline while a start is in flight")
	}
	pending()
	if p.started != 1 || !m.Enabled() || m.Starting() {
		t.Fatalf("start did not complete")
	}
}
