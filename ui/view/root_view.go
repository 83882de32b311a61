package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/pixel-motion-go/config"
	"github.com/soocke/pixel-motion-go/domain/motion"
	"github.com/soocke/pixel-motion-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are invoked on user actions in the control window.
type Handlers struct {
	ToggleCapture func()
	SelectRegion  func()
	FullScreen    func()
	ToggleTheme   func()
	Exit          func()
	Apply         ApplyFunc
}

// RootView composes the control window layout. It implements the view
// contracts of the capture, status, session, output, settings and region
// presenters.
type RootView struct {
	cfg    *config.Config
	logger *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Output      OutputPreview

	// Widgets
	StateLabel  *TLabelWidget
	FPSLabel    *TLabelWidget
	ResLabel    *TLabelWidget
	ErrorLabel  *TLabelWidget
	RegionLabel *TLabelWidget
	captureBtn  *TButtonWidget
}

func NewRootView(cfg *config.Config, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, logger: logger}
}

// Build constructs the layout. previewW and previewH size the output
// placeholder shown while idle.
func (rv *RootView) Build(h Handlers, previewW, previewH int) {
	if rv == nil {
		return
	}
	theme.InitStyles()

	// Row 0: state, fps, resolution
	statusFrame := Frame()
	Grid(statusFrame, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, In(statusFrame), Row(0), Column(0), Sticky("w"), Padx("0.2m"))
	rv.FPSLabel = TLabel(Txt("FPS: 0"), Width(10))
	Grid(rv.FPSLabel, In(statusFrame), Row(0), Column(1), Sticky("w"), Padx("0.2m"))
	rv.ResLabel = TLabel(Txt("Resolution: -"), Width(20))
	Grid(rv.ResLabel, In(statusFrame), Row(0), Column(2), Sticky("w"), Padx("0.2m"))

	// Row 1: session timing and frames
	rv.Session = NewSessionStats(statusFrame, 1, 0)

	// Buttons column
	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(2), Rowspan(3), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.captureBtn = TButton(Txt("Start Capture"), Style(theme.StyleCaptureButton), Command(h.ToggleCapture))
	Grid(rv.captureBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	regionBtn := TButton(Txt("Select Region"), Command(h.SelectRegion))
	Grid(regionBtn, In(btnFrame), Row(1), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	fullBtn := TButton(Txt("Full Screen"), Command(h.FullScreen))
	Grid(fullBtn, In(btnFrame), Row(2), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	themeBtn := TButton(Txt("Toggle Theme"), Command(h.ToggleTheme))
	Grid(themeBtn, In(btnFrame), Row(3), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleStopButton), Command(h.Exit))
	Grid(exitBtn, In(btnFrame), Row(4), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	rv.RegionLabel = TLabel(Txt("Region: full screen"), Style(theme.StyleMutedLabel))
	Grid(rv.RegionLabel, Row(1), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))
	rv.ErrorLabel = TLabel(Txt(""), Style(theme.StyleErrorLabel))
	Grid(rv.ErrorLabel, Row(2), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))

	rv.ConfigPanel = NewConfigPanel(rv.cfg, h.Apply)
	endRow := rv.ConfigPanel.Build(3)

	rv.Output = NewOutputPreview(endRow, 3, previewW, previewH)
	GridRowConfigure(App, endRow, Weight(1))
	GridColumnConfigure(App, 1, Weight(1))
}

func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetFPSLabel(text string) {
	if rv != nil && rv.FPSLabel != nil {
		rv.FPSLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetResolutionLabel(text string) {
	if rv != nil && rv.ResLabel != nil {
		rv.ResLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetErrorLabel(text string) {
	if rv != nil && rv.ErrorLabel != nil {
		rv.ErrorLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetRegionLabel(text string) {
	if rv != nil && rv.RegionLabel != nil {
		rv.RegionLabel.Configure(Txt(text))
	}
}

// SetSession updates both session and total capture durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

func (rv *RootView) SetFrames(text string) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetFrames(text)
	}
}

// UpdateOutput proxies to the output preview.
func (rv *RootView) UpdateOutput(img image.Image) {
	if rv != nil && rv.Output != nil {
		rv.Output.UpdateOutput(img)
	}
}

// ShowSettings refreshes the config panel after a reload or key binding.
func (rv *RootView) ShowSettings(s motion.Settings) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.ShowSettings(s)
	}
}

// --- CapturePresenter view contract methods ---

// PreviewReset clears the output preview.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Output != nil {
		rv.Output.Reset()
	}
}

// RequestEditable toggles the fields that only apply to the next start.
func (rv *RootView) RequestEditable(b bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetRequestEditable(b)
	}
}

// SetCapturing swaps the capture button between start and stop.
func (rv *RootView) SetCapturing(b bool) {
	if rv == nil || rv.captureBtn == nil {
		return
	}
	if b {
		rv.captureBtn.Configure(Txt("Stop Capture"), Style(theme.StyleStopButton))
		return
	}
	rv.captureBtn.Configure(Txt("Start Capture"), Style(theme.StyleCaptureButton))
}
