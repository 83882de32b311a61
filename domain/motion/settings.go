package motion

import "sync/atomic"

// Settings controls how a frame difference is rendered. Values are read as a
// snapshot once per cycle and are never validated; out-of-range channels
// saturate when written.
type Settings struct {
	Threshold      int     `json:"threshold"`
	ShowMotionOnly bool    `json:"showMotionOnly"`
	HighlightColor [3]int  `json:"highlightColor"`
	BlurAmount     float64 `json:"blurAmount"` // reserved; not read by Diff
}

// DefaultSettings returns the settings used when nothing was configured.
func DefaultSettings() Settings {
	return Settings{
		Threshold:      25,
		ShowMotionOnly: false,
		HighlightColor: [3]int{0, 229, 255},
		BlurAmount:     0,
	}
}

// Store holds the current Settings value. Writers replace the whole value;
// readers always observe a complete snapshot.
type Store struct {
	v atomic.Pointer[Settings]
}

// NewStore returns a store seeded with s.
func NewStore(s Settings) *Store {
	st := &Store{}
	st.Store(s)
	return st
}

// Load returns a copy of the current settings. A zero Store yields defaults.
func (st *Store) Load() Settings {
	p := st.v.Load()
	if p == nil {
		return DefaultSettings()
	}
	return *p
}

// Store replaces the current settings.
func (st *Store) Store(s Settings) {
	st.v.Store(&s)
}

// Update applies fn to a copy of the current settings and stores the result.
// Concurrent updates are serialized by compare-and-swap.
func (st *Store) Update(fn func(*Settings)) Settings {
	for {
		old := st.v.Load()
		next := DefaultSettings()
		if old != nil {
			next = *old
		}
		fn(&next)
		if st.v.CompareAndSwap(old, &next) {
			return next
		}
	}
}
