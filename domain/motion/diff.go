package motion

import (
	"errors"
	"image"
)

// ErrSizeMismatch is returned by DiffInto when the destination does not have
// the dimensions of the current frame.
var ErrSizeMismatch = errors.New("motion: destination size mismatch")

// stillAlpha is the alpha written for non-motion pixels in motion-only mode.
const stillAlpha = 30

// maxWeight is the overlay intensity scale: intensity = min(255, 2*avg) and
// avg = sum/3, so weights are expressed over 3*255.
const maxWeight = 3 * 255

// channelLimit bounds highlight channels before blending. Any channel at or
// beyond it saturates for every non-zero weight, so clamping keeps results
// unchanged while keeping products inside int range.
const channelLimit = 255 * maxWeight

// Stats describes a single differencing pass.
type Stats struct {
	Seeded       bool // no usable previous frame; output is the current frame
	MotionPixels int
}

// Diff renders the difference between cur and prev into a newly allocated
// frame with the dimensions of cur. prev may be nil. Neither input is
// modified.
func Diff(cur, prev *image.RGBA, s Settings) (*image.RGBA, Stats) {
	dst := image.NewRGBA(image.Rect(0, 0, cur.Rect.Dx(), cur.Rect.Dy()))
	st, _ := DiffInto(dst, cur, prev, s)
	return dst, st
}

// DiffInto is Diff writing into dst, which must have the dimensions of cur.
// dst must not alias cur or prev.
func DiffInto(dst, cur, prev *image.RGBA, s Settings) (Stats, error) {
	w, h := cur.Rect.Dx(), cur.Rect.Dy()
	if dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		return Stats{}, ErrSizeMismatch
	}
	if prev == nil || prev.Rect.Dx() != w || prev.Rect.Dy() != h {
		seed(dst, cur, w, h)
		return Stats{Seeded: true}, nil
	}

	// sums never exceed 765: thresholds past 255 (or below -1) classify alike
	limit := 3 * clampInt(s.Threshold, -1, 255)
	hr := clampInt(s.HighlightColor[0], -channelLimit, channelLimit)
	hg := clampInt(s.HighlightColor[1], -channelLimit, channelLimit)
	hb := clampInt(s.HighlightColor[2], -channelLimit, channelLimit)
	var st Stats
	for y := 0; y < h; y++ {
		c := cur.Pix[cur.PixOffset(cur.Rect.Min.X, cur.Rect.Min.Y+y):]
		p := prev.Pix[prev.PixOffset(prev.Rect.Min.X, prev.Rect.Min.Y+y):]
		d := dst.Pix[dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y):]
		for i := 0; i < w*4; i += 4 {
			cr, cg, cb := int(c[i]), int(c[i+1]), int(c[i+2])
			sum := absInt(cr-int(p[i])) + absInt(cg-int(p[i+1])) + absInt(cb-int(p[i+2]))
			if sum > limit {
				st.MotionPixels++
				if s.ShowMotionOnly {
					d[i], d[i+1], d[i+2] = clamp8(hr), clamp8(hg), clamp8(hb)
				} else {
					weight := min(maxWeight, 2*sum)
					d[i] = clamp8(cr + roundDiv(hr*weight, maxWeight))
					d[i+1] = clamp8(cg + roundDiv(hg*weight, maxWeight))
					d[i+2] = clamp8(cb + roundDiv(hb*weight, maxWeight))
				}
				d[i+3] = 0xFF
				continue
			}
			if s.ShowMotionOnly {
				d[i], d[i+1], d[i+2], d[i+3] = 0, 0, 0, stillAlpha
			} else {
				d[i], d[i+1], d[i+2], d[i+3] = c[i], c[i+1], c[i+2], 0xFF
			}
		}
	}
	return st, nil
}

func seed(dst, cur *image.RGBA, w, h int) {
	for y := 0; y < h; y++ {
		c := cur.Pix[cur.PixOffset(cur.Rect.Min.X, cur.Rect.Min.Y+y):]
		d := dst.Pix[dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y):]
		copy(d[:w*4], c[:w*4])
		for i := 3; i < w*4; i += 4 {
			d[i] = 0xFF
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clamp8(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// roundDiv returns n/d rounded to the nearest integer for d > 0.
func roundDiv(n, d int) int {
	q := 2*n + d
	dd := 2 * d
	if q >= 0 {
		return q / dd
	}
	return -((-q + dd - 1) / dd)
}
