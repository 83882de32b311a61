package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/pixel-motion-go/config"
	"github.com/soocke/pixel-motion-go/domain/capture"
	"github.com/soocke/pixel-motion-go/domain/motion"
	"github.com/soocke/pixel-motion-go/domain/pipeline"
	"github.com/soocke/pixel-motion-go/ui/presenter"
	"github.com/soocke/pixel-motion-go/ui/theme"
	"github.com/soocke/pixel-motion-go/ui/view"
	"github.com/soocke/pixel-motion-go/ui/viewer"
)

// tick paces the Tk update loop and with it the pipeline cycles.
const tick = 16 * time.Millisecond

type app struct {
	ctx     context.Context
	cancel  context.CancelFunc
	c       *AppContainer
	rv      *view.RootView
	overlay view.SelectionOverlay
	loop    *presenter.Loop
	afterID string
	width   int
	height  int
}

// Run builds the front end selected by cfg.Viewer and blocks until the user
// quits.
func Run(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	if cfg.Viewer == config.ViewerEbiten {
		return runEbiten(title, width, height, cfg, cfgPath, logger)
	}
	runTk(title, width, height, cfg, cfgPath, logger)
	return nil
}

func runTk(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) {
	a := &app{width: width, height: height}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.rv = view.NewRootView(cfg, logger)
	output := presenter.NewOutputPresenter(a.rv, cfg.PreviewW, cfg.PreviewH, logger)
	a.c = BuildContainer(cfg, cfgPath, logger, output)

	status := presenter.NewStatusPresenter(a.rv)
	a.c.Pipeline.AddListener(status.OnStatus)
	capturePres := presenter.NewCapturePresenter(a.ctx, a.c.Capture, a.c.Pipeline, tkCaptureView{a.rv, output}, logger)
	settings := presenter.NewSettingsPresenter(a.c.Settings, cfg, cfgPath, a.rv, logger)
	region := presenter.NewRegionPresenter(a.c.Region, cfg, cfgPath, a.rv, logger, func(image.Rectangle) {
		a.c.RefreshRequest()
	})
	a.overlay = view.NewSelectionOverlay(a.c.ScreenBounds, region.SetRegion, logger)

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))

	a.rv.Build(view.Handlers{
		ToggleCapture: capturePres.Toggle,
		SelectRegion:  a.overlay.OpenOrFocus,
		FullScreen:    region.Clear,
		ToggleTheme:   func() { theme.ToggleDark() },
		Exit:          a.exitHandler,
		Apply: func(s motion.Settings, fr capture.FrameRate) {
			if !a.c.Capture.Enabled() {
				cfg.FrameRateIdeal, cfg.FrameRateMax = fr.Ideal, max(fr.Max, fr.Ideal)
			}
			settings.Apply(s)
			a.c.RefreshRequest()
		},
	}, cfg.PreviewW, cfg.PreviewH)
	region.Refresh()

	a.loop = &presenter.Loop{
		Cycle:    a.c.Ticker.Fire,
		Status:   status,
		Capture:  capturePres,
		Session:  presenter.NewSessionPresenter(a.c.Session, a.c.Pipeline, a.rv),
		Output:   output,
		Settings: settings,
		Schedule: a.scheduleUpdate,
	}
	a.c.Start(a.ctx, settings.OnReload)
	a.scheduleUpdate()
	App.Wait()
	a.shutdown()
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.loop.Tick() })
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	a.overlay.Close()
	a.shutdown()
	Destroy(App)
}

func (a *app) shutdown() {
	if a.ctx.Err() != nil {
		return
	}
	a.c.Shutdown()
	a.cancel()
}

func runEbiten(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		capturePres *presenter.CapturePresenter
		settings    *presenter.SettingsPresenter
		loop        *presenter.Loop
		c           *AppContainer
	)
	display := viewer.NewEbitenViewer(title, width, height, viewer.Controls{
		Toggle: func() { capturePres.Toggle() },
		Adjust: func(fn func(*motion.Settings)) motion.Settings { return settings.Adjust(fn) },
		Status: func() pipeline.CaptureState { return c.Pipeline.Status() },
		Tick:   func() { loop.Tick() },
	})
	c = BuildContainer(cfg, cfgPath, logger, display)
	capturePres = presenter.NewCapturePresenter(ctx, c.Capture, c.Pipeline, clearOnStop{display}, logger)
	settings = presenter.NewSettingsPresenter(c.Settings, cfg, cfgPath, nil, logger)
	loop = &presenter.Loop{
		Cycle:    c.Ticker.Fire,
		Capture:  capturePres,
		Settings: settings,
	}
	c.Start(ctx, settings.OnReload)
	defer c.Shutdown()
	return display.Run()
}

// tkCaptureView drops queued previews before the view shows its placeholder.
type tkCaptureView struct {
	*view.RootView
	output *presenter.OutputPresenter
}

func (v tkCaptureView) PreviewReset() {
	v.output.Reset()
	v.RootView.PreviewReset()
}

// clearOnStop adapts the ebiten viewer to the capture presenter.
type clearOnStop struct{ v *viewer.EbitenViewer }

func (c clearOnStop) PreviewReset()        { c.v.Clear() }
func (c clearOnStop) RequestEditable(bool) {}
func (c clearOnStop) SetCapturing(bool)    {}
