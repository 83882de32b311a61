package pipeline

import (
	"image"

	"github.com/soocke/pixel-motion-go/domain/motion"
)

// Sink receives one rendered frame per completed cycle. The frame is only
// valid for the duration of Present; implementations copy what they keep.
type Sink interface {
	Present(frame *image.RGBA) error
}

// SettingsSource supplies the settings snapshot read at the start of each
// cycle.
type SettingsSource interface {
	Load() motion.Settings
}
