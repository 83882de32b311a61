package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit down-scales src so that it fits within maxW x maxH preserving
// aspect ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	return imaging.Fit(src, max(maxW, 1), max(maxH, 1), imaging.Box)
}

// Flatten composites src over an opaque bg so translucent pixels render the
// same in viewers that ignore alpha.
func Flatten(src image.Image, bg color.Color) *image.NRGBA {
	b := src.Bounds()
	base := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(base, src, image.Pt(0, 0), 1.0)
}

// AspectFit returns the uniform scale and offsets that letterbox a frame of
// frameW x frameH centred inside a view of viewW x viewH.
func AspectFit(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	if frameW <= 0 || frameH <= 0 {
		return 1, 0, 0
	}
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return scale, offsetX, offsetY
}
