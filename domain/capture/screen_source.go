package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

// DefaultMaxFailures is the number of consecutive failed grabs tolerated
// before a stream is considered disconnected.
const DefaultMaxFailures = 30

// ScreenSource captures the desktop (or a region of it). Each acquired stream
// runs its own grab goroutine paced by the requested frame rate and keeps
// only the newest frame.
type ScreenSource struct {
	logger      *slog.Logger
	maxFailures int
	grab        func(image.Rectangle) (*image.RGBA, error)
	bounds      func() (image.Rectangle, error)
}

// NewScreenSource returns a source using the platform grabber. maxFailures
// <= 0 selects DefaultMaxFailures.
func NewScreenSource(logger *slog.Logger, maxFailures int) *ScreenSource {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	return &ScreenSource{logger: logger, maxFailures: maxFailures, grab: grabRect, bounds: screenBounds}
}

// Bounds reports the capturable screen area.
func (s *ScreenSource) Bounds() (image.Rectangle, error) { return s.bounds() }

// Acquire resolves the capture rectangle and performs a probe grab. Any
// failure, including cancellation of ctx, is reported as
// ErrSourceUnavailable.
func (s *ScreenSource) Acquire(ctx context.Context, req Request) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	screen, err := s.bounds()
	if err != nil {
		return nil, fmt.Errorf("%w: screen bounds: %v", ErrSourceUnavailable, err)
	}
	rect := screen
	if !req.Region.Empty() {
		rect = req.Region.Intersect(screen)
		if rect.Empty() {
			return nil, fmt.Errorf("%w: region %v outside screen %v", ErrSourceUnavailable, req.Region, screen)
		}
	}
	probe, err := s.grab(rect)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	st := &screenStream{
		logger:      s.logger,
		grab:        s.grab,
		rect:        rect,
		interval:    frameInterval(req.FrameRate),
		maxFailures: s.maxFailures,
		done:        make(chan struct{}),
	}
	st.publish(probe, 0)
	if s.logger != nil {
		s.logger.Info("capture acquired", "rect", rect.String(), "interval", st.interval)
	}
	go st.loop()
	return st, nil
}

func frameInterval(fr FrameRate) time.Duration {
	fps := fr.Ideal
	if fr.Max > 0 && fps > fr.Max {
		fps = fr.Max
	}
	if fps <= 0 {
		fps = DefaultFrameRate.Ideal
	}
	return time.Second / time.Duration(fps)
}

type screenStream struct {
	logger      *slog.Logger
	grab        func(image.Rectangle) (*image.RGBA, error)
	rect        image.Rectangle
	interval    time.Duration
	maxFailures int

	latest       atomic.Pointer[Frame]
	pulled       atomic.Uint64
	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
}

func (st *screenStream) Dimensions() image.Point {
	if f := st.latest.Load(); f != nil && f.Image != nil {
		return f.Image.Rect.Size()
	}
	return st.rect.Size()
}

func (st *screenStream) NextFrame() (Frame, error) {
	select {
	case <-st.done:
		return Frame{}, ErrSourceClosed
	default:
	}
	f := st.latest.Load()
	if f == nil || f.Sequence == st.pulled.Load() {
		return Frame{}, ErrNotReady
	}
	st.pulled.Store(f.Sequence)
	return *f, nil
}

func (st *screenStream) Done() <-chan struct{} { return st.done }

func (st *screenStream) Close() error {
	st.closeOnce.Do(func() { close(st.done) })
	return nil
}

func (st *screenStream) Stats() CaptureStats {
	captures := st.captures.Load()
	var avg time.Duration
	if captures > 0 {
		avg = time.Duration(st.captureNanos.Load() / captures)
	}
	out := CaptureStats{
		Captures:   captures,
		Skipped:    st.skipped.Load(),
		AvgCapture: avg,
	}
	if f := st.latest.Load(); f != nil {
		out.LastCapture = f.CapturedAt
		out.LatestFrameAge = time.Since(f.CapturedAt)
		out.Sequence = f.Sequence
	}
	return out
}

func (st *screenStream) publish(img *image.RGBA, took time.Duration) {
	st.captureNanos.Add(uint64(took.Nanoseconds()))
	st.captures.Add(1)
	seq := st.sequence.Add(1)
	st.latest.Store(&Frame{Image: img, CapturedAt: time.Now(), Sequence: seq})
}

func (st *screenStream) loop() {
	defer func() {
		if r := recover(); r != nil {
			if st.logger != nil {
				st.logger.Error("capture loop panic", "panic", r)
			}
			st.Close()
		}
	}()
	tick := time.NewTicker(st.interval)
	defer tick.Stop()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()

	failures := 0
	for {
		select {
		case <-st.done:
			return
		case <-logTicker.C:
			st.logStats()
			continue
		case <-tick.C:
		}

		start := time.Now()
		img, err := st.grab(st.rect)
		if err != nil {
			st.skipped.Add(1)
			failures++
			if st.logger != nil {
				st.logger.Debug("capture grab", "error", err, "failures", failures)
			}
			if failures > st.maxFailures {
				if st.logger != nil {
					st.logger.Warn("capture terminated", "failures", failures, "error", err)
				}
				st.Close()
				return
			}
			continue
		}
		failures = 0
		st.publish(img, time.Since(start))
	}
}

func (st *screenStream) logStats() {
	if st.logger == nil {
		return
	}
	stats := st.Stats()
	st.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
