package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestScaleToFit_KeepsAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	out := ScaleToFit(src, 640, 640)
	if b := out.Bounds(); b.Dx() != 640 || b.Dy() != 360 {
		t.Fatalf("scaled to %dx%d, want 640x360", b.Dx(), b.Dy())
	}
}

func TestScaleToFit_ReturnsSourceWhenItFits(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if out := ScaleToFit(src, 20, 20); out != image.Image(src) {
		t.Fatalf("expected the original image")
	}
	if ScaleToFit(nil, 1, 1) != nil {
		t.Fatalf("nil source must yield nil")
	}
}

func TestFlatten_CompositesOverBackground(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{0, 0, 0, 30})
	src.SetRGBA(1, 0, color.RGBA{0, 229, 255, 255})
	out := Flatten(src, color.White)
	if got := out.NRGBAAt(1, 0); got != (color.NRGBA{0, 229, 255, 255}) {
		t.Fatalf("opaque pixel = %v", got)
	}
	if got := out.NRGBAAt(0, 0); got.A != 255 || got.R < 200 {
		t.Fatalf("translucent black over white = %v", got)
	}
}

func TestAspectFit_Letterboxes(t *testing.T) {
	scale, ox, oy := AspectFit(800, 600, 1600, 900)
	if scale != 0.5 || ox != 0 || oy != 75 {
		t.Fatalf("got scale=%v offset=%v,%v", scale, ox, oy)
	}
	if s, _, _ := AspectFit(100, 100, 0, 0); s != 1 {
		t.Fatalf("zero frame must not divide by zero")
	}
}

func TestEncodePNG_Decodes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img, err := png.Decode(bytes.NewReader(EncodePNG(src)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image must encode to nil")
	}
}
