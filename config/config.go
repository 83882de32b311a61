package config

import (
	"encoding/json"
	"image"
	"os"

	"github.com/soocke/pixel-motion-go/domain/capture"
	"github.com/soocke/pixel-motion-go/domain/motion"
)

// Viewer names accepted in Config.Viewer.
const (
	ViewerTk     = "tk"
	ViewerEbiten = "ebiten"
)

// Config holds runtime configuration for capture, differencing and app
// behavior. Fields may be loaded from a JSON file and overridden by
// command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Motion settings. Not clamped: out-of-range values saturate when rendered.
	Threshold      int     `json:"threshold"`
	ShowMotionOnly bool    `json:"show_motion_only"`
	HighlightColor [3]int  `json:"highlight_color"`
	BlurAmount     float64 `json:"blur_amount"`

	// Capture
	FrameRateIdeal  int `json:"frame_rate_ideal"`
	FrameRateMax    int `json:"frame_rate_max"`
	MaxGrabFailures int `json:"max_grab_failures"`

	// Region persisted from the selection overlay; zero size means full screen.
	RegionX int `json:"region_x"`
	RegionY int `json:"region_y"`
	RegionW int `json:"region_w"`
	RegionH int `json:"region_h"`

	// Front end
	Viewer     string `json:"viewer"`
	PreviewW   int    `json:"preview_w"`
	PreviewH   int    `json:"preview_h"`
	StatusAddr string `json:"status_addr"`

	// file holds the on-disk values of fields replaced by ApplyOverrides.
	file *Overrides
}

// Overrides are command-line values for the current run only. Zero fields
// leave the loaded value in place.
type Overrides struct {
	Debug      bool
	Viewer     string
	StatusAddr string
}

// ApplyOverrides applies o to c. Save keeps writing the values the fields
// had before the first override.
func (c *Config) ApplyOverrides(o Overrides) {
	if c.file == nil {
		c.file = &Overrides{Debug: c.Debug, Viewer: c.Viewer, StatusAddr: c.StatusAddr}
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Viewer != "" {
		c.Viewer = o.Viewer
	}
	if o.StatusAddr != "" {
		c.StatusAddr = o.StatusAddr
	}
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	s := motion.DefaultSettings()
	return &Config{
		Threshold:       s.Threshold,
		ShowMotionOnly:  s.ShowMotionOnly,
		HighlightColor:  s.HighlightColor,
		BlurAmount:      s.BlurAmount,
		FrameRateIdeal:  capture.DefaultFrameRate.Ideal,
		FrameRateMax:    capture.DefaultFrameRate.Max,
		MaxGrabFailures: capture.DefaultMaxFailures,
		Viewer:          ViewerTk,
		PreviewW:        640,
		PreviewH:        360,
	}
}

// Validate clamps/normalizes application values to safe ranges. Motion
// settings are left untouched.
func (c *Config) Validate() error {
	if c.FrameRateMax <= 0 || c.FrameRateMax > 240 {
		c.FrameRateMax = capture.DefaultFrameRate.Max
	}
	if c.FrameRateIdeal <= 0 || c.FrameRateIdeal > c.FrameRateMax {
		c.FrameRateIdeal = c.FrameRateMax
	}
	if c.MaxGrabFailures <= 0 {
		c.MaxGrabFailures = capture.DefaultMaxFailures
	}
	if c.RegionW < 0 || c.RegionH < 0 {
		c.RegionX, c.RegionY, c.RegionW, c.RegionH = 0, 0, 0, 0
	}
	if c.Viewer != ViewerTk && c.Viewer != ViewerEbiten {
		c.Viewer = ViewerTk
	}
	if c.PreviewW < 64 {
		c.PreviewW = 640
	}
	if c.PreviewH < 64 {
		c.PreviewH = 360
	}
	return nil
}

// Settings returns the motion settings carried by c.
func (c *Config) Settings() motion.Settings {
	return motion.Settings{
		Threshold:      c.Threshold,
		ShowMotionOnly: c.ShowMotionOnly,
		HighlightColor: c.HighlightColor,
		BlurAmount:     c.BlurAmount,
	}
}

// SetSettings copies s into c.
func (c *Config) SetSettings(s motion.Settings) {
	c.Threshold = s.Threshold
	c.ShowMotionOnly = s.ShowMotionOnly
	c.HighlightColor = s.HighlightColor
	c.BlurAmount = s.BlurAmount
}

// Region returns the persisted capture region, or an empty rectangle for the
// full screen.
func (c *Config) Region() image.Rectangle {
	if c.RegionW <= 0 || c.RegionH <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(c.RegionX, c.RegionY, c.RegionX+c.RegionW, c.RegionY+c.RegionH)
}

// SetRegion persists r; an empty rectangle clears the region.
func (c *Config) SetRegion(r image.Rectangle) {
	if r.Empty() {
		c.RegionX, c.RegionY, c.RegionW, c.RegionH = 0, 0, 0, 0
		return
	}
	c.RegionX, c.RegionY, c.RegionW, c.RegionH = r.Min.X, r.Min.Y, r.Dx(), r.Dy()
}

// Request builds the capture request for the current region and frame rate.
func (c *Config) Request() capture.Request {
	return capture.Request{
		Region:    c.Region(),
		FrameRate: capture.FrameRate{Ideal: c.FrameRateIdeal, Max: c.FrameRateMax},
	}
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format. Fields
// replaced by ApplyOverrides are written with their file values.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	out := *c
	if c.file != nil {
		out.Debug, out.Viewer, out.StatusAddr = c.file.Debug, c.file.Viewer, c.file.StatusAddr
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}
