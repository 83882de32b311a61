package capture

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrSourceUnavailable reports that no stream could be acquired: the
	// screen or region could not be resolved, capture was denied, or the
	// request was cancelled while negotiating.
	ErrSourceUnavailable = errors.New("capture: source unavailable")
	// ErrNotReady reports that no new frame was captured since the last pull.
	ErrNotReady = errors.New("capture: frame not ready")
	// ErrSourceClosed reports a stream that was closed or terminated.
	ErrSourceClosed = errors.New("capture: source closed")
)

// FrameRate is the frame-rate hint passed to a source.
type FrameRate struct {
	Ideal int
	Max   int
}

// DefaultFrameRate asks for display-rate capture.
var DefaultFrameRate = FrameRate{Ideal: 60, Max: 60}

// Request describes what to capture. An empty Region means the full screen.
type Request struct {
	Region    image.Rectangle
	FrameRate FrameRate
}

// Stream is an acquired frame stream. NextFrame is pulled by a single
// consumer; Close may be called from any goroutine.
type Stream interface {
	// Dimensions reports the size of the most recently captured frame.
	Dimensions() image.Point
	// NextFrame returns the newest frame, ErrNotReady when nothing new was
	// captured, or ErrSourceClosed after termination.
	NextFrame() (Frame, error)
	// Done is closed when the stream terminates for any reason.
	Done() <-chan struct{}
	Close() error
}

// Source acquires frame streams. Acquire may block; it must honour ctx.
type Source interface {
	Acquire(ctx context.Context, req Request) (Stream, error)
}

// StatsReporter is implemented by streams that keep capture instrumentation.
type StatsReporter interface{ Stats() CaptureStats }
