package pipeline

import "image"

// Resolution is the size of the frames being processed.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func resolutionOf(p image.Point) *Resolution {
	return &Resolution{Width: p.X, Height: p.Y}
}

// CaptureState is the externally visible pipeline status. FPS and
// MotionPixels are refreshed when an FPS window closes.
type CaptureState struct {
	State        State       `json:"state"`
	IsCapturing  bool        `json:"isCapturing"`
	IsProcessing bool        `json:"isProcessing"`
	FPS          int         `json:"fps"`
	Resolution   *Resolution `json:"resolution"`
	SessionID    string      `json:"sessionId,omitempty"`
	Frames       uint64      `json:"frames"`
	MotionPixels int         `json:"motionPixels"`
	LastError    string      `json:"lastError,omitempty"`
}

// StatusListener receives every published CaptureState in order.
// Listeners run synchronously. They may read State and Status but must not
// call Start, Stop or AddListener.
type StatusListener func(CaptureState)
