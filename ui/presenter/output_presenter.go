package presenter

import (
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/pixel-motion-go/domain/capture"
	"github.com/soocke/pixel-motion-go/ui/images"
)

// OutputView shows the rendered motion frame.
type OutputView interface {
	UpdateOutput(img image.Image)
}

const defaultPreviewInterval = 66 * time.Millisecond

// OutputPresenter is the pipeline sink for the Tk preview. Present copies a
// throttled subset of frames to a worker that scales and flattens them;
// ProcessFrame hands the newest result to the view on the UI thread.
type OutputPresenter struct {
	view     OutputView
	logger   *slog.Logger
	maxW     int
	maxH     int
	interval time.Duration
	now      func() time.Time

	mu           sync.Mutex
	lastDispatch time.Time

	workerOnce sync.Once
	workCh     chan *image.RGBA
	resultCh   chan image.Image
}

// NewOutputPresenter returns a presenter scaling previews into maxW x maxH.
func NewOutputPresenter(view OutputView, maxW, maxH int, logger *slog.Logger) *OutputPresenter {
	return &OutputPresenter{
		view:     view,
		logger:   logger,
		maxW:     maxW,
		maxH:     maxH,
		interval: defaultPreviewInterval,
		now:      time.Now,
		workCh:   make(chan *image.RGBA, 1),
		resultCh: make(chan image.Image, 1),
	}
}

// Present implements pipeline.Sink. Frames arriving faster than the preview
// interval are skipped.
func (p *OutputPresenter) Present(frame *image.RGBA) error {
	if p == nil || frame == nil {
		return nil
	}
	now := p.now()
	p.mu.Lock()
	if !p.lastDispatch.IsZero() && now.Sub(p.lastDispatch) < p.interval {
		p.mu.Unlock()
		return nil
	}
	p.lastDispatch = now
	p.mu.Unlock()

	p.ensureWorker()
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	cp := capture.AcquireFrame(w, h)
	for y := 0; y < h; y++ {
		src := frame.Pix[frame.PixOffset(frame.Rect.Min.X, frame.Rect.Min.Y+y):]
		copy(cp.Pix[y*cp.Stride:y*cp.Stride+w*4], src[:w*4])
	}
	select {
	case p.workCh <- cp:
	default:
		select {
		case old := <-p.workCh:
			capture.RecycleFrame(old)
		default:
		}
		select {
		case p.workCh <- cp:
		default:
			capture.RecycleFrame(cp)
		}
	}
	return nil
}

func (p *OutputPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *OutputPresenter) runWorker() {
	defer recoverLog(p.logger, "preview worker panic")
	for frame := range p.workCh {
		scaled := images.ScaleToFit(frame, p.maxW, p.maxH)
		out := images.Flatten(scaled, color.Black)
		capture.RecycleFrame(frame)
		select {
		case p.resultCh <- out:
		default:
			select {
			case <-p.resultCh:
			default:
			}
			select {
			case p.resultCh <- out:
			default:
			}
		}
	}
}

// ProcessFrame pushes the newest finished preview to the view. Call on the
// UI thread.
func (p *OutputPresenter) ProcessFrame() {
	if p == nil || p.view == nil {
		return
	}
	var latest image.Image
	for {
		select {
		case img := <-p.resultCh:
			latest = img
			continue
		default:
		}
		break
	}
	if latest != nil {
		p.view.UpdateOutput(latest)
	}
}

// Reset drops queued frames so a stopped capture leaves nothing behind.
func (p *OutputPresenter) Reset() {
	if p == nil {
		return
	}
	for {
		select {
		case f := <-p.workCh:
			capture.RecycleFrame(f)
			continue
		case <-p.resultCh:
			continue
		default:
		}
		break
	}
	p.mu.Lock()
	p.lastDispatch = time.Time{}
	p.mu.Unlock()
}
