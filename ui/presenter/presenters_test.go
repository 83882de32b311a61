package presenter

import (
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/soocke/pixel-motion-go/config"
	"github.com/soocke/pixel-motion-go/domain/motion"
	"github.com/soocke/pixel-motion-go/domain/pipeline"
	"github.com/soocke/pixel-motion-go/ui/model"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type labelView struct {
	state, fps, res, err []string
}

func (v *labelView) SetStateLabel(s string)      { v.state = append(v.state, s) }
func (v *labelView) SetFPSLabel(s string)        { v.fps = append(v.fps, s) }
func (v *labelView) SetResolutionLabel(s string) { v.res = append(v.res, s) }
func (v *labelView) SetErrorLabel(s string)      { v.err = append(v.err, s) }

func TestStatusPresenter_ReflectsLatestOnTick(t *testing.T) {
	v := &labelView{}
	p := NewStatusPresenter(v)
	p.Tick()
	if len(v.state) != 0 {
		t.Fatalf("tick without publications updated the view")
	}
	p.OnStatus(pipeline.CaptureState{State: pipeline.StateStarting})
	p.OnStatus(pipeline.CaptureState{State: pipeline.StateRunning, FPS: 0, Resolution: &pipeline.Resolution{Width: 800, Height: 600}})
	p.Tick()
	if len(v.state) != 1 || v.state[0] != "State: running" {
		t.Fatalf("state labels = %v", v.state)
	}
	if v.res[0] != "Resolution: 800x600" || v.fps[0] != "FPS: 0" {
		t.Fatalf("labels res=%v fps=%v", v.res, v.fps)
	}

	p.OnStatus(pipeline.CaptureState{State: pipeline.StateRunning, FPS: 59, Resolution: &pipeline.Resolution{Width: 800, Height: 600}})
	p.Tick()
	if len(v.state) != 1 || len(v.res) != 1 || len(v.fps) != 2 || v.fps[1] != "FPS: 59" {
		t.Fatalf("only fps should change: state=%v res=%v fps=%v", v.state, v.res, v.fps)
	}

	p.OnStatus(pipeline.CaptureState{State: pipeline.StateIdle, LastError: "capture: source unavailable"})
	p.Tick()
	if v.state[len(v.state)-1] != "State: idle" || v.res[len(v.res)-1] != "Resolution: -" || v.err[len(v.err)-1] == "" {
		t.Fatalf("idle not reflected: state=%v res=%v err=%v", v.state, v.res, v.err)
	}
}

type statusStub struct{ st pipeline.CaptureState }

func (s *statusStub) Status() pipeline.CaptureState { return s.st }

type sessionView struct {
	session, total time.Duration
	frames         []string
}

func (v *sessionView) SetSession(s, t time.Duration) { v.session, v.total = s, t }
func (v *sessionView) SetFrames(text string)         { v.frames = append(v.frames, text) }

func TestSessionPresenter_FormatsFrames(t *testing.T) {
	src := &statusStub{st: pipeline.CaptureState{State: pipeline.StateRunning, IsCapturing: true}}
	v := &sessionView{}
	p := NewSessionPresenter(model.NewSessionModel(), src, v)
	base := time.Unix(0, 0)
	p.Tick(base)
	src.st.Frames = 12345
	p.Tick(base.Add(3 * time.Second))
	if v.session != 3*time.Second {
		t.Fatalf("session = %v", v.session)
	}
	if got := v.frames[len(v.frames)-1]; got != "Frames: 12,345 / 12,345" {
		t.Fatalf("frames label = %q", got)
	}
	n := len(v.frames)
	p.Tick(base.Add(4 * time.Second))
	if len(v.frames) != n {
		t.Fatalf("unchanged frame label was pushed again")
	}
}

type outputView struct {
	mu   sync.Mutex
	imgs []image.Image
}

func (v *outputView) UpdateOutput(img image.Image) {
	v.mu.Lock()
	v.imgs = append(v.imgs, img)
	v.mu.Unlock()
}

func (v *outputView) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.imgs)
}

func TestOutputPresenter_ScalesAndThrottles(t *testing.T) {
	v := &outputView{}
	p := NewOutputPresenter(v, 40, 40, discardLogger)
	now := time.Unix(0, 0)
	p.now = func() time.Time { return now }

	frame := image.NewRGBA(image.Rect(0, 0, 160, 80))
	for i := 0; i < len(frame.Pix); i += 4 {
		frame.Pix[i+1], frame.Pix[i+3] = 200, 255
	}
	if err := p.Present(frame); err != nil {
		t.Fatalf("present: %v", err)
	}
	// mutate after Present returned: the preview must not see this
	for i := range frame.Pix {
		frame.Pix[i] = 0
	}
	// throttled: same instant
	p.Present(frame)

	deadline := time.Now().Add(2 * time.Second)
	for v.count() == 0 && time.Now().Before(deadline) {
		p.ProcessFrame()
		time.Sleep(5 * time.Millisecond)
	}
	if v.count() != 1 {
		t.Fatalf("previews = %d, want 1", v.count())
	}
	img := v.imgs[0]
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("preview size = %v", b)
	}
	r, g, _, a := img.At(5, 5).RGBA()
	if r != 0 || g>>8 != 200 || a>>8 != 255 {
		t.Fatalf("preview pixel = %v", color.NRGBAModel.Convert(img.At(5, 5)))
	}
}

type settingsView struct{ shown []motion.Settings }

func (v *settingsView) ShowSettings(s motion.Settings) { v.shown = append(v.shown, s) }

func TestSettingsPresenter_ApplyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := motion.NewStore(motion.DefaultSettings())
	cfg := config.DefaultConfig()
	p := NewSettingsPresenter(store, cfg, path, &settingsView{}, discardLogger)

	want := motion.Settings{Threshold: 40, ShowMotionOnly: true, HighlightColor: [3]int{255, 0, 0}}
	p.Apply(want)
	if store.Load() != want {
		t.Fatalf("store = %+v", store.Load())
	}
	saved, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.Settings() != want {
		t.Fatalf("saved settings = %+v", saved.Settings())
	}
}

func TestSettingsPresenter_SaveKeepsRunOverridesOutOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.DefaultConfig()
	cfg.ApplyOverrides(config.Overrides{Debug: true, Viewer: config.ViewerEbiten, StatusAddr: ":9000"})
	p := NewSettingsPresenter(motion.NewStore(cfg.Settings()), cfg, path, &settingsView{}, discardLogger)

	p.Adjust(func(s *motion.Settings) { s.Threshold++ })

	saved, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.Threshold != 26 {
		t.Fatalf("threshold not saved: %d", saved.Threshold)
	}
	if saved.Debug || saved.Viewer != config.ViewerTk || saved.StatusAddr != "" {
		t.Fatalf("run overrides saved: debug=%v viewer=%q status_addr=%q", saved.Debug, saved.Viewer, saved.StatusAddr)
	}
	if !cfg.Debug || cfg.Viewer != config.ViewerEbiten || cfg.StatusAddr != ":9000" {
		t.Fatalf("overrides lost for the running process: %+v", cfg)
	}

	r := NewRegionPresenter(model.NewRegionModel(image.Rectangle{}), cfg, path, &regionView{}, discardLogger, nil)
	r.SetRegion(image.Rect(0, 0, 100, 100))
	saved, err = config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.StatusAddr != "" || saved.RegionW != 100 {
		t.Fatalf("region save: status_addr=%q region_w=%d", saved.StatusAddr, saved.RegionW)
	}
}

func TestSettingsPresenter_AdjustAndReload(t *testing.T) {
	store := motion.NewStore(motion.DefaultSettings())
	v := &settingsView{}
	p := NewSettingsPresenter(store, config.DefaultConfig(), "", v, discardLogger)

	s := p.Adjust(func(s *motion.Settings) { s.Threshold += 5 })
	if s.Threshold != 30 || len(v.shown) != 1 {
		t.Fatalf("adjust: %+v shown=%d", s, len(v.shown))
	}

	reloaded := config.DefaultConfig()
	reloaded.Threshold = 30
	p.OnReload(reloaded)
	p.Tick()
	if len(v.shown) != 1 {
		t.Fatalf("identical reload refreshed the view")
	}
	reloaded = config.DefaultConfig()
	reloaded.ShowMotionOnly = true
	p.OnReload(reloaded)
	p.Tick()
	if !store.Load().ShowMotionOnly || len(v.shown) != 2 {
		t.Fatalf("reload not applied: %+v", store.Load())
	}
	p.Tick()
	if len(v.shown) != 2 {
		t.Fatalf("reload applied twice")
	}
}

type regionView struct{ label string }

func (v *regionView) SetRegionLabel(s string) { v.label = s }

func TestRegionPresenter_SetAndClear(t *testing.T) {
	cfg := config.DefaultConfig()
	v := &regionView{}
	var changed []image.Rectangle
	p := NewRegionPresenter(model.NewRegionModel(image.Rectangle{}), cfg, "", v, discardLogger, func(r image.Rectangle) {
		changed = append(changed, r)
	})
	p.SetRegion(image.Rect(100, 50, 420, 290))
	if v.label != "Region: 320x240 at 100,50" {
		t.Fatalf("label = %q", v.label)
	}
	if cfg.Region() != image.Rect(100, 50, 420, 290) {
		t.Fatalf("config region = %v", cfg.Region())
	}
	p.Clear()
	if v.label != "Region: full screen" || !cfg.Region().Empty() {
		t.Fatalf("clear failed: %q %v", v.label, cfg.Region())
	}
	if len(changed) != 2 {
		t.Fatalf("onChange calls = %d", len(changed))
	}
}

func TestLoop_TickOrder(t *testing.T) {
	var order []string
	l := &Loop{
		Cycle:    func() bool { order = append(order, "cycle"); return true },
		Schedule: func() { order = append(order, "schedule") },
	}
	l.Tick()
	if len(order) != 2 || order[0] != "cycle" || order[1] != "schedule" {
		t.Fatalf("order = %v", order)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
