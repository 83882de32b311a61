package motion

import (
	"bytes"
	"image"
	"math"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func pixel(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
}

func TestDiff_SeedsWithoutPrevious(t *testing.T) {
	cur := solid(3, 2, color.RGBA{10, 20, 30, 7})
	before := append([]byte(nil), cur.Pix...)
	out, st := Diff(cur, nil, DefaultSettings())
	if !st.Seeded {
		t.Fatalf("expected seeded pass")
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := pixel(out, x, y); got != (color.RGBA{10, 20, 30, 255}) {
				t.Fatalf("pixel %d,%d = %v", x, y, got)
			}
		}
	}
	if !bytes.Equal(cur.Pix, before) {
		t.Fatalf("current frame was modified")
	}
}

func TestDiff_SizeMismatchReseeds(t *testing.T) {
	cur := solid(4, 4, color.RGBA{1, 2, 3, 255})
	prev := solid(2, 2, color.RGBA{200, 200, 200, 255})
	s := DefaultSettings()
	s.ShowMotionOnly = true
	out, st := Diff(cur, prev, s)
	if !st.Seeded {
		t.Fatalf("expected reseed on size change")
	}
	if out.Rect.Dx() != 4 || out.Rect.Dy() != 4 {
		t.Fatalf("output size %v", out.Rect)
	}
	if got := pixel(out, 3, 3); got != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("unexpected pixel %v", got)
	}
}

func TestDiff_ThresholdIsStrict(t *testing.T) {
	s := Settings{Threshold: 10, ShowMotionOnly: true, HighlightColor: [3]int{255, 0, 0}}
	prev := solid(1, 1, color.RGBA{100, 100, 100, 255})

	atBoundary := solid(1, 1, color.RGBA{110, 110, 110, 255})
	out, st := Diff(atBoundary, prev, s)
	if st.MotionPixels != 0 {
		t.Fatalf("average equal to threshold must not be motion")
	}
	if got := pixel(out, 0, 0); got != (color.RGBA{0, 0, 0, 30}) {
		t.Fatalf("still pixel = %v", got)
	}

	// sum 31, average 10.33
	above := solid(1, 1, color.RGBA{111, 110, 110, 255})
	out, st = Diff(above, prev, s)
	if st.MotionPixels != 1 {
		t.Fatalf("average above threshold must be motion")
	}
	if got := pixel(out, 0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("motion pixel = %v", got)
	}
}

func TestDiff_MotionOnlyIdenticalFrames(t *testing.T) {
	f := solid(5, 3, color.RGBA{42, 43, 44, 255})
	s := DefaultSettings()
	s.ShowMotionOnly = true
	out, st := Diff(f, f, s)
	if st.Seeded || st.MotionPixels != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0 || out.Pix[i+1] != 0 || out.Pix[i+2] != 0 || out.Pix[i+3] != 30 {
			t.Fatalf("pixel %d = %v", i/4, out.Pix[i:i+4])
		}
	}
}

func TestDiff_OverlayIdenticalFramesPassThrough(t *testing.T) {
	f := solid(2, 2, color.RGBA{9, 8, 7, 100})
	out, _ := Diff(f, f, DefaultSettings())
	if got := pixel(out, 1, 1); got != (color.RGBA{9, 8, 7, 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestDiff_OverlayBlendsHighlight(t *testing.T) {
	cur := solid(1, 1, color.RGBA{100, 100, 100, 255})
	prev := solid(1, 1, color.RGBA{70, 70, 70, 255})
	// sum 90, intensity 60: G += 229*60/255 = 53.88, B += 255*60/255 = 60
	out, st := Diff(cur, prev, DefaultSettings())
	if st.MotionPixels != 1 {
		t.Fatalf("expected motion")
	}
	if got := pixel(out, 0, 0); got != (color.RGBA{100, 154, 160, 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestDiff_OverlaySaturates(t *testing.T) {
	cur := solid(1, 1, color.RGBA{250, 250, 250, 255})
	prev := solid(1, 1, color.RGBA{0, 0, 0, 255})
	out, _ := Diff(cur, prev, DefaultSettings())
	if got := pixel(out, 0, 0); got != (color.RGBA{250, 255, 255, 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestDiff_OutOfRangeSettingsSaturate(t *testing.T) {
	cur := solid(1, 1, color.RGBA{50, 50, 50, 255})
	prev := solid(1, 1, color.RGBA{0, 0, 0, 255})
	s := Settings{Threshold: -5, HighlightColor: [3]int{-400, 300, 1000}}

	out, _ := Diff(cur, prev, s)
	// sum 150, weight 300/765: R 50-157, G 50+118, B 50+392
	if got := pixel(out, 0, 0); got != (color.RGBA{0, 168, 255, 255}) {
		t.Fatalf("overlay pixel = %v", got)
	}

	s.ShowMotionOnly = true
	out, _ = Diff(cur, prev, s)
	if got := pixel(out, 0, 0); got != (color.RGBA{0, 255, 255, 255}) {
		t.Fatalf("motion-only pixel = %v", got)
	}

	// a negative threshold marks even identical pixels as motion
	out, st := Diff(cur, cur, s)
	if st.MotionPixels != 1 || pixel(out, 0, 0).A != 255 {
		t.Fatalf("expected motion for negative threshold, got %+v", st)
	}
}

func TestDiff_ExtremeSettingsDoNotOverflow(t *testing.T) {
	cur := solid(1, 1, color.RGBA{50, 50, 50, 255})
	prev := solid(1, 1, color.RGBA{49, 50, 50, 255})

	for _, threshold := range []int{math.MaxInt, math.MaxInt/3 + 1, 256} {
		out, st := Diff(cur, cur, Settings{Threshold: threshold, ShowMotionOnly: true})
		if st.MotionPixels != 0 || pixel(out, 0, 0) != (color.RGBA{0, 0, 0, 30}) {
			t.Fatalf("threshold %d: identical frames gave motion %+v", threshold, st)
		}
	}
	out, st := Diff(cur, cur, Settings{Threshold: math.MinInt, ShowMotionOnly: true})
	if st.MotionPixels != 1 || pixel(out, 0, 0).A != 255 {
		t.Fatalf("MinInt threshold: expected motion, got %+v", st)
	}

	// sum 1, weight 2: the smallest blend still saturates huge channels
	s := Settings{Threshold: 0, HighlightColor: [3]int{math.MaxInt, math.MinInt, 195075}}
	out, _ = Diff(cur, prev, s)
	if got := pixel(out, 0, 0); got != (color.RGBA{255, 0, 255, 255}) {
		t.Fatalf("overlay pixel = %v", got)
	}
	s.ShowMotionOnly = true
	out, _ = Diff(cur, prev, s)
	if got := pixel(out, 0, 0); got != (color.RGBA{255, 0, 255, 255}) {
		t.Fatalf("motion-only pixel = %v", got)
	}
}

func TestDiff_Deterministic(t *testing.T) {
	cur := image.NewRGBA(image.Rect(0, 0, 16, 9))
	prev := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for i := range cur.Pix {
		cur.Pix[i] = byte(i * 7)
		prev.Pix[i] = byte(i * 13)
	}
	a, sa := Diff(cur, prev, DefaultSettings())
	b, sb := Diff(cur, prev, DefaultSettings())
	if !bytes.Equal(a.Pix, b.Pix) || sa != sb {
		t.Fatalf("outputs differ for identical inputs")
	}
}

func TestDiffInto_HonoursSubImages(t *testing.T) {
	big := solid(10, 10, color.RGBA{0, 0, 0, 255})
	big.SetRGBA(5, 5, color.RGBA{200, 200, 200, 255})
	cur := big.SubImage(image.Rect(4, 4, 7, 7)).(*image.RGBA)
	prev := solid(3, 3, color.RGBA{0, 0, 0, 255})
	dst := image.NewRGBA(image.Rect(0, 0, 3, 3))

	st, err := DiffInto(dst, cur, prev, Settings{Threshold: 25, ShowMotionOnly: true, HighlightColor: [3]int{1, 2, 3}})
	if err != nil {
		t.Fatalf("DiffInto: %v", err)
	}
	if st.MotionPixels != 1 {
		t.Fatalf("expected one motion pixel, got %d", st.MotionPixels)
	}
	if got := pixel(dst, 1, 1); got != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("centre pixel = %v", got)
	}
	if got := pixel(dst, 0, 0); got.A != 30 {
		t.Fatalf("corner pixel = %v", got)
	}
}

func TestDiffInto_RejectsWrongDestination(t *testing.T) {
	cur := solid(2, 2, color.RGBA{})
	if _, err := DiffInto(image.NewRGBA(image.Rect(0, 0, 3, 2)), cur, nil, DefaultSettings()); err != ErrSizeMismatch {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}
