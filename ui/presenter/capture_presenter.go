package presenter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soocke/pixel-motion-go/domain/pipeline"
)

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool) bool
	Starting() bool
	SetStarting(bool)
}

// PipelineControl narrows what the presenter needs from the pipeline.
type PipelineControl interface {
	Start(ctx context.Context) error
	Stop()
	Status() pipeline.CaptureState
}

// CaptureView updates UI elements affected by capture toggling.
// State and fps labels are owned by StatusPresenter.
type CaptureView interface {
	PreviewReset()
	RequestEditable(bool)
	SetCapturing(bool)
}

// CapturePresenter owns presentation logic for toggling capture state.
type CapturePresenter struct {
	ctx      context.Context
	model    CaptureModel
	pipeline PipelineControl
	view     CaptureView
	logger   *slog.Logger
	// run executes the blocking start; tests replace it to run inline.
	run func(func())
	// shown mirrors the capturing state last pushed to the view.
	shown bool
}

func NewCapturePresenter(ctx context.Context, model CaptureModel, p PipelineControl, view CaptureView, logger *slog.Logger) *CapturePresenter {
	return &CapturePresenter{ctx: ctx, model: model, pipeline: p, view: view, logger: logger, run: func(fn func()) { go fn() }}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.pipeline != nil && c.view != nil
}

// Enable starts the pipeline in the background. Acquisition may block on the
// OS, so the UI thread never waits for it. Idempotent.
func (c *CapturePresenter) Enable() {
	if !c.ready() || c.model.Enabled() {
		return
	}
	c.model.SetEnabled(true)
	c.model.SetStarting(true)
	c.view.RequestEditable(false)
	c.view.SetCapturing(true)
	c.shown = true
	c.run(func() {
		defer recoverLog(c.logger, "capture start panic")
		err := c.pipeline.Start(c.ctx)
		if err != nil {
			if !errors.Is(err, pipeline.ErrStartAborted) && c.logger != nil {
				c.logger.Error("capture start", "error", err)
			}
			c.model.SetEnabled(false)
		}
		c.model.SetStarting(false)
	})
}

// Disable stops the pipeline and resets the preview. Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	c.pipeline.Stop()
	c.model.SetEnabled(false)
	c.resetView()
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// Sync reconciles the view with a pipeline that stopped on its own (source
// terminated, failed start, stream error). Call once per UI tick.
func (c *CapturePresenter) Sync() {
	if !c.ready() || c.model.Starting() {
		return
	}
	st := c.pipeline.Status()
	if st.State != pipeline.StateIdle {
		return
	}
	c.model.SetEnabled(false)
	if c.shown {
		c.resetView()
	}
}

func (c *CapturePresenter) resetView() {
	c.view.PreviewReset()
	c.view.RequestEditable(true)
	c.view.SetCapturing(false)
	c.shown = false
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil && logger != nil {
		logger.Error(msg, "panic", r)
	}
}
