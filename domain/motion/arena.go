package motion

import "image"

// Arena owns the two frame buffers used by a differencing pipeline. One slot
// holds the frame being processed, the other the frame processed before it.
// Promote transfers ownership by swapping slot indices; pixels are never
// copied between slots.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	slots   [2]*image.RGBA
	cur     int
	hasPrev bool
}

// Load copies src into the current slot, reallocating it when the size
// changes. A size change discards the previous frame and reports true.
func (a *Arena) Load(src *image.RGBA) (resized bool) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	slot := a.slots[a.cur]
	if slot == nil || slot.Rect.Dx() != w || slot.Rect.Dy() != h {
		slot = image.NewRGBA(image.Rect(0, 0, w, h))
		a.slots[a.cur] = slot
	}
	if prev := a.slots[1-a.cur]; a.hasPrev && (prev.Rect.Dx() != w || prev.Rect.Dy() != h) {
		a.hasPrev = false
		resized = true
	}
	for y := 0; y < h; y++ {
		s := src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y):]
		copy(slot.Pix[y*slot.Stride:y*slot.Stride+w*4], s[:w*4])
	}
	return resized
}

// Current returns the frame most recently loaded, or nil.
func (a *Arena) Current() *image.RGBA { return a.slots[a.cur] }

// Previous returns the promoted frame, or nil when none is held.
func (a *Arena) Previous() *image.RGBA {
	if !a.hasPrev {
		return nil
	}
	return a.slots[1-a.cur]
}

// Promote makes the current frame the previous one. The old previous slot
// becomes the target of the next Load.
func (a *Arena) Promote() {
	if a.slots[a.cur] == nil {
		return
	}
	a.cur = 1 - a.cur
	a.hasPrev = true
}

// Reset forgets the previous frame but keeps the allocations.
func (a *Arena) Reset() { a.hasPrev = false }

// Release drops both buffers.
func (a *Arena) Release() {
	a.slots = [2]*image.RGBA{}
	a.cur = 0
	a.hasPrev = false
}
