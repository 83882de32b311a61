package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pixel-motion-go/domain/capture"
	"github.com/soocke/pixel-motion-go/domain/motion"
)

var (
	// ErrAlreadyStarted is returned by Start when the pipeline is not idle.
	ErrAlreadyStarted = errors.New("pipeline: already started")
	// ErrStartAborted is returned by Start when Stop was called while the
	// source was still being acquired.
	ErrStartAborted = errors.New("pipeline: start aborted")
)

// Options wires a Pipeline to its collaborators. Source, Sink, Settings and
// Ticker are required.
type Options struct {
	Source   capture.Source
	Sink     Sink
	Settings SettingsSource
	Ticker   Ticker
	// Request is consulted on every Start; nil captures the full screen.
	Request func() capture.Request
	Logger  *slog.Logger
	Now     func() time.Time
}

// Pipeline pulls frames from an acquired stream once per tick, renders the
// motion difference and hands the result to the sink.
//
// Lock order is mu then pubMu; mu then cycleMu. A cycle never holds cycleMu
// while taking mu. State and Status read a snapshot refreshed on every unlock
// and take no lock, so listeners may call them.
type Pipeline struct {
	source   capture.Source
	sink     Sink
	settings SettingsSource
	ticker   Ticker
	request  func() capture.Request
	logger   *slog.Logger
	now      func() time.Time

	mu            sync.Mutex
	state         State
	status        CaptureState
	stream        capture.Stream
	cancelAcquire context.CancelFunc
	fps           fpsMeter
	frames        uint64
	listeners     []StatusListener
	pending       []CaptureState

	pubMu    sync.Mutex
	snapshot atomic.Pointer[CaptureState]

	cycleMu sync.Mutex
	active  capture.Stream
	arena   motion.Arena
}

// New returns an idle pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		source:   opts.Source,
		sink:     opts.Sink,
		settings: opts.Settings,
		ticker:   opts.Ticker,
		request:  opts.Request,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.request == nil {
		p.request = func() capture.Request { return capture.Request{FrameRate: capture.DefaultFrameRate} }
	}
	p.status = CaptureState{State: StateIdle}
	p.storeSnapshotLocked()
	return p
}

// AddListener registers l for every subsequent status publication.
func (p *Pipeline) AddListener(l StatusListener) {
	if l == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, l)
	p.mu.Unlock()
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return p.snapshot.Load().State
}

// Status returns the current capture status with an up to date frame count.
func (p *Pipeline) Status() CaptureState {
	return *p.snapshot.Load()
}

func (p *Pipeline) storeSnapshotLocked() {
	st := p.status
	st.Frames = p.frames
	p.snapshot.Store(&st)
}

// Start acquires a stream and begins processing. It blocks while the source
// negotiates access. A pipeline that is not idle rejects the call with
// ErrAlreadyStarted and acquires nothing.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateIdle {
		state := p.state
		p.mu.Unlock()
		p.logger.Debug("pipeline start rejected", "state", state.String())
		return ErrAlreadyStarted
	}
	p.fire(EventStart)
	actx, cancel := context.WithCancel(ctx)
	p.cancelAcquire = cancel
	session := uuid.NewString()
	p.status = CaptureState{State: StateStarting, SessionID: session}
	p.publishLocked()
	req := p.request()
	p.unlock()

	stream, err := p.source.Acquire(actx, req)

	p.mu.Lock()
	cancel()
	p.cancelAcquire = nil
	if p.state == StateStopping {
		if stream != nil {
			stream.Close()
		}
		p.fire(EventReleased)
		p.status = CaptureState{State: StateIdle}
		p.publishLocked()
		p.unlock()
		p.logger.Info("pipeline start aborted", "session", session)
		return ErrStartAborted
	}
	if err != nil {
		if !errors.Is(err, capture.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", capture.ErrSourceUnavailable, err)
		}
		p.fire(EventAcquireFailed)
		p.status = CaptureState{State: StateError, SessionID: session, LastError: err.Error()}
		p.publishLocked()
		p.fire(EventReleased)
		p.status = CaptureState{State: StateIdle, LastError: err.Error()}
		p.publishLocked()
		p.unlock()
		p.logger.Error("pipeline acquire", "error", err, "session", session)
		return err
	}

	p.fire(EventAcquired)
	p.stream = stream
	p.cycleMu.Lock()
	p.active = stream
	p.arena.Release()
	p.cycleMu.Unlock()
	p.fps.reset(p.now())
	p.frames = 0
	p.status = CaptureState{
		State:        StateRunning,
		IsCapturing:  true,
		IsProcessing: true,
		Resolution:   resolutionOf(stream.Dimensions()),
		SessionID:    session,
	}
	p.publishLocked()
	p.scheduleLocked(stream)
	res := *p.status.Resolution
	p.unlock()
	p.logger.Info("pipeline started", "session", session, "width", res.Width, "height", res.Height)
	return nil
}

// Stop halts processing and releases the stream and buffers. Stopping an
// idle pipeline is a no-op. A cycle already running completes but schedules
// nothing further. Stop during acquisition cancels it; Start then returns
// ErrStartAborted.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	switch p.state {
	case StateStarting:
		p.fire(EventStop)
		if p.cancelAcquire != nil {
			p.cancelAcquire()
		}
		p.status.State = StateStopping
		p.publishLocked()
	case StateRunning:
		p.releaseLocked(EventStop, nil)
	}
	p.unlock()
}

// releaseLocked tears a running pipeline down to idle. cause is non-nil only
// for unexpected stream failures.
func (p *Pipeline) releaseLocked(ev Event, cause error) {
	session := p.status.SessionID
	frames := p.frames
	p.fire(ev)
	p.ticker.Cancel()
	if p.stream != nil {
		if err := p.stream.Close(); err != nil {
			p.logger.Warn("pipeline close stream", "error", err)
		}
		p.stream = nil
	}
	p.cycleMu.Lock()
	p.active = nil
	p.arena.Release()
	p.cycleMu.Unlock()

	lastErr := ""
	if cause != nil {
		lastErr = cause.Error()
	}
	p.status = CaptureState{State: p.state, SessionID: session, Frames: frames, LastError: lastErr}
	p.publishLocked()
	p.fire(EventReleased)
	p.fps.reset(p.now())
	p.frames = 0
	p.status = CaptureState{State: StateIdle, LastError: lastErr}
	p.publishLocked()
	p.logger.Info("pipeline stopped", "event", ev.String(), "session", session, "frames", frames)
}

func (p *Pipeline) scheduleLocked(stream capture.Stream) {
	p.ticker.Schedule(func() { p.runCycle(stream) })
}

// runCycle is one tick of the processing loop for stream.
func (p *Pipeline) runCycle(stream capture.Stream) {
	if !p.current(stream) {
		return
	}
	select {
	case <-stream.Done():
		p.finish(stream, EventTerminated, nil)
		return
	default:
	}

	frame, err := stream.NextFrame()
	switch {
	case errors.Is(err, capture.ErrNotReady):
		p.mu.Lock()
		if p.stream == stream && p.state == StateRunning {
			p.scheduleLocked(stream)
		}
		p.mu.Unlock()
		return
	case errors.Is(err, capture.ErrSourceClosed):
		p.finish(stream, EventTerminated, nil)
		return
	case err != nil:
		p.finish(stream, EventFail, err)
		return
	case frame.Image == nil:
		p.finish(stream, EventFail, errors.New("pipeline: stream returned an empty frame"))
		return
	}

	size, motionPixels, ok := p.process(stream, frame.Image, p.settings.Load())
	if !ok {
		return
	}

	p.mu.Lock()
	if p.stream != stream || p.state != StateRunning {
		p.mu.Unlock()
		return
	}
	changed := false
	if r := p.status.Resolution; r == nil || r.Width != size.X || r.Height != size.Y {
		p.status.Resolution = resolutionOf(size)
		changed = true
		p.logger.Info("pipeline resolution changed", "width", size.X, "height", size.Y)
	}
	p.frames++
	if fps, closed := p.fps.tick(p.now()); closed {
		p.status.FPS = fps
		p.status.MotionPixels = motionPixels
		changed = true
		p.logger.Debug("pipeline fps", "fps", fps, "motion_pixels", motionPixels, "frames", p.frames)
	}
	if changed {
		p.status.Frames = p.frames
		p.publishLocked()
	}
	p.scheduleLocked(stream)
	p.unlock()
}

// process renders img against the previous frame and presents the result.
// It returns the frame size and motion pixel count, and reports false when
// stream was released before the buffers were reached.
func (p *Pipeline) process(stream capture.Stream, img *image.RGBA, s motion.Settings) (image.Point, int, bool) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()
	if p.active != stream {
		return image.Point{}, 0, false
	}
	p.arena.Load(img)
	cur := p.arena.Current()
	size := cur.Rect.Size()

	out := capture.AcquireFrame(size.X, size.Y)
	defer capture.RecycleFrame(out)
	stats, err := motion.DiffInto(out, cur, p.arena.Previous(), s)
	if err != nil {
		p.logger.Error("pipeline diff", "error", err)
		return size, 0, true
	}
	if stats.Seeded {
		p.logger.Debug("pipeline seeded", "width", size.X, "height", size.Y)
	}
	if err := p.sink.Present(out); err != nil {
		p.logger.Warn("pipeline present", "error", err)
	}
	p.arena.Promote()
	return size, stats.MotionPixels, true
}

func (p *Pipeline) current(stream capture.Stream) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stream == stream && p.state == StateRunning
}

func (p *Pipeline) finish(stream capture.Stream, ev Event, cause error) {
	p.mu.Lock()
	if p.stream == stream && p.state == StateRunning {
		if cause != nil {
			p.logger.Error("pipeline stream failed", "error", cause)
		} else {
			p.logger.Info("pipeline stream terminated")
		}
		p.releaseLocked(ev, cause)
	}
	p.unlock()
}

// fire applies ev to the lifecycle state. Rejected events are logged and
// leave the state unchanged.
func (p *Pipeline) fire(ev Event) bool {
	next, ok := Transition(p.state, ev)
	if !ok {
		p.logger.Warn("pipeline transition rejected", "state", p.state.String(), "event", ev.String())
		return false
	}
	p.logger.Debug("pipeline transition", "from", p.state.String(), "to", next.String(), "event", ev.String())
	p.state = next
	return true
}

func (p *Pipeline) publishLocked() {
	p.pending = append(p.pending, p.status)
}

// unlock releases mu and delivers queued publications in order without
// holding it.
func (p *Pipeline) unlock() {
	p.storeSnapshotLocked()
	pending := p.pending
	p.pending = nil
	listeners := p.listeners
	p.pubMu.Lock()
	p.mu.Unlock()
	defer p.pubMu.Unlock()
	for _, st := range pending {
		for _, l := range listeners {
			l(st)
		}
	}
}
