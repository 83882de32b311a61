package app

import (
	"context"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/pixel-motion-go/config"
	"github.com/soocke/pixel-motion-go/debug"
	"github.com/soocke/pixel-motion-go/domain/capture"
	"github.com/soocke/pixel-motion-go/domain/motion"
	"github.com/soocke/pixel-motion-go/domain/pipeline"
	"github.com/soocke/pixel-motion-go/status"
	"github.com/soocke/pixel-motion-go/ui/model"
)

// AppContainer assembles the capture source, pipeline, models and background
// services shared by both front ends.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Settings *motion.Store
	Source   *capture.ScreenSource
	Ticker   *pipeline.ManualTicker
	Pipeline *pipeline.Pipeline
	Hub      *status.Hub

	Capture *model.CaptureModel
	Session *model.SessionModel
	Region  *model.RegionModel

	request atomic.Pointer[capture.Request]
}

// BuildContainer constructs all components around sink. No goroutines are
// started until Start.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger, sink pipeline.Sink) *AppContainer {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	c.Settings = motion.NewStore(cfg.Settings())
	c.Source = capture.NewScreenSource(logger, cfg.MaxGrabFailures)
	c.Ticker = pipeline.NewManualTicker()
	c.Capture = &model.CaptureModel{}
	c.Session = model.NewSessionModel()
	c.Region = model.NewRegionModel(cfg.Region())
	c.RefreshRequest()
	c.Pipeline = pipeline.New(pipeline.Options{
		Source:   c.Source,
		Sink:     sink,
		Settings: c.Settings,
		Ticker:   c.Ticker,
		Request:  c.currentRequest,
		Logger:   logger,
	})
	if cfg.StatusAddr != "" {
		c.Hub = status.NewHub(logger)
		c.Pipeline.AddListener(c.Hub.Publish)
	}
	return c
}

// RefreshRequest snapshots the region and frame rate from the config for
// the next Start. Call after editing either.
func (c *AppContainer) RefreshRequest() {
	req := c.Config.Request()
	c.request.Store(&req)
}

func (c *AppContainer) currentRequest() capture.Request {
	if req := c.request.Load(); req != nil {
		return *req
	}
	return capture.Request{FrameRate: capture.DefaultFrameRate}
}

// ScreenBounds returns the capturable area, or an empty rectangle when the
// screen cannot be queried.
func (c *AppContainer) ScreenBounds() image.Rectangle {
	b, err := c.Source.Bounds()
	if err != nil {
		c.Logger.Warn("screen bounds", "error", err)
		return image.Rectangle{}
	}
	return b
}

// Start launches the config watcher, the status feed and the debug loggers.
// onReload receives every configuration reloaded from disk.
func (c *AppContainer) Start(ctx context.Context, onReload func(*config.Config)) {
	if c.ConfigPath != "" && onReload != nil {
		if err := config.Watch(ctx, c.ConfigPath, c.Logger, onReload); err != nil {
			c.Logger.Warn("config watch disabled", "error", err, "path", c.ConfigPath)
		}
	}
	if c.Hub != nil {
		go func() {
			if err := c.Hub.ListenAndServe(ctx, c.Config.StatusAddr); err != nil {
				c.Logger.Error("status feed", "error", err, "addr", c.Config.StatusAddr)
			}
		}()
	}
	if c.Config.Debug {
		debug.StartRuntimeLogger(ctx, 5*time.Second, c.Logger)
		debug.StartMemLogger(ctx, 5*time.Second, c.Logger)
	}
}

// Shutdown stops the pipeline; background services follow ctx.
func (c *AppContainer) Shutdown() {
	c.Pipeline.Stop()
	c.Logger.Info("shutdown", "state", c.Pipeline.State().String())
}
