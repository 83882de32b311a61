package capture

import (
	"image"
	"sync"
)

// Output frame buffers reused between pipeline cycles.

var framePool sync.Pool // stores *image.RGBA

// AcquireFrame returns an RGBA image of w x h anchored at the origin. Pixel
// contents are undefined; Stride is w*4.
func AcquireFrame(w, h int) *image.RGBA {
	rect := image.Rect(0, 0, w, h)
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	if v := framePool.Get(); v != nil {
		if img := v.(*image.RGBA); cap(img.Pix) >= needed {
			img.Pix = img.Pix[:needed]
			img.Stride = w * 4
			img.Rect = rect
			return img
		}
	}
	return image.NewRGBA(rect)
}

// RecycleFrame returns img to the pool. The caller must not touch img
// afterwards.
func RecycleFrame(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	framePool.Put(img)
}
