// Package viewer renders the motion output in an Ebitengine window with
// keyboard controls, as an alternative to the Tk control window.
package viewer

import (
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/soocke/pixel-motion-go/domain/motion"
	"github.com/soocke/pixel-motion-go/domain/pipeline"
	"github.com/soocke/pixel-motion-go/ui/images"
)

// Controls are the actions bound to keys plus the per-frame hook.
type Controls struct {
	Toggle func()
	Adjust func(func(*motion.Settings)) motion.Settings
	Status func() pipeline.CaptureState
	// Tick runs once per ebiten update after key handling.
	Tick func()
}

// EbitenViewer is a pipeline.Sink drawing the latest output frame letterboxed
// into a resizable window.
type EbitenViewer struct {
	mu    sync.Mutex
	frame *image.RGBA
	dirty bool

	ebitenImage *ebiten.Image
	controls    Controls
	width       int
	height      int
	title       string
}

func NewEbitenViewer(title string, width, height int, controls Controls) *EbitenViewer {
	return &EbitenViewer{title: title, width: width, height: height, controls: controls}
}

// Present copies frame for the next Draw. Safe for any goroutine.
func (v *EbitenViewer) Present(frame *image.RGBA) error {
	if frame == nil {
		return nil
	}
	b := frame.Bounds()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.frame == nil || v.frame.Bounds().Dx() != b.Dx() || v.frame.Bounds().Dy() != b.Dy() {
		v.frame = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := frame.Pix[frame.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(v.frame.Pix[y*v.frame.Stride:y*v.frame.Stride+rowBytes], src[:rowBytes])
	}
	v.dirty = true
	return nil
}

// Clear drops the displayed frame.
func (v *EbitenViewer) Clear() {
	v.mu.Lock()
	v.frame = nil
	v.dirty = false
	v.mu.Unlock()
}

// Run starts the Ebitengine game loop. Must be called from the main goroutine.
func (v *EbitenViewer) Run() error {
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle(v.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	return ebiten.RunGame(v)
}

// --- ebiten.Game interface ---

func (v *EbitenViewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	c := v.controls
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && c.Toggle != nil {
		c.Toggle()
	}
	if c.Adjust != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyM) {
			c.Adjust(func(s *motion.Settings) { s.ShowMotionOnly = !s.ShowMotionOnly })
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
			c.Adjust(func(s *motion.Settings) { s.Threshold = min(255, s.Threshold+1) })
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
			c.Adjust(func(s *motion.Settings) { s.Threshold = max(0, s.Threshold-1) })
		}
	}
	if c.Tick != nil {
		c.Tick()
	}
	return nil
}

func (v *EbitenViewer) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	frame := v.frame
	if frame != nil && v.dirty {
		if v.ebitenImage == nil ||
			v.ebitenImage.Bounds().Dx() != frame.Bounds().Dx() ||
			v.ebitenImage.Bounds().Dy() != frame.Bounds().Dy() {
			v.ebitenImage = ebiten.NewImage(frame.Bounds().Dx(), frame.Bounds().Dy())
		}
		v.ebitenImage.WritePixels(frame.Pix)
		v.dirty = false
	}
	v.mu.Unlock()

	if frame != nil && v.ebitenImage != nil {
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		fw, fh := float64(frame.Bounds().Dx()), float64(frame.Bounds().Dy())
		scale, offsetX, offsetY := images.AspectFit(float64(sw), float64(sh), fw, fh)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(offsetX, offsetY)
		screen.DrawImage(v.ebitenImage, op)
	}
	ebitenutil.DebugPrint(screen, v.overlay())
}

func (v *EbitenViewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (v *EbitenViewer) overlay() string {
	if v.controls.Status == nil {
		return ""
	}
	st := v.controls.Status()
	res := "-"
	if st.Resolution != nil {
		res = fmt.Sprintf("%dx%d", st.Resolution.Width, st.Resolution.Height)
	}
	text := fmt.Sprintf("%s  %d fps  %s\n[space] capture  [m] motion only  [up/down] threshold  [esc] quit", st.State, st.FPS, res)
	if st.LastError != "" {
		text += "\n" + st.LastError
	}
	return text
}
