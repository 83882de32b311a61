package motion

import (
	"image/color"
	"sync"
	"testing"
)

func TestArena_PromoteSwapsSlots(t *testing.T) {
	var a Arena
	if a.Previous() != nil {
		t.Fatalf("fresh arena must not hold a previous frame")
	}
	a.Load(solid(2, 2, color.RGBA{1, 1, 1, 255}))
	first := a.Current()
	a.Promote()
	if a.Previous() != first {
		t.Fatalf("promote must hand the current slot over as previous")
	}
	a.Load(solid(2, 2, color.RGBA{2, 2, 2, 255}))
	if a.Current() == first {
		t.Fatalf("load after promote must write the other slot")
	}
	if got := a.Previous().RGBAAt(0, 0); got.R != 1 {
		t.Fatalf("previous frame overwritten: %v", got)
	}
	a.Promote()
	a.Load(solid(2, 2, color.RGBA{3, 3, 3, 255}))
	if a.Current() != first {
		t.Fatalf("slots must be reused after two promotions")
	}
}

func TestArena_ResizeDropsPrevious(t *testing.T) {
	var a Arena
	a.Load(solid(4, 4, color.RGBA{}))
	a.Promote()
	if resized := a.Load(solid(4, 4, color.RGBA{})); resized {
		t.Fatalf("same size reported as resize")
	}
	a.Promote()
	if resized := a.Load(solid(8, 2, color.RGBA{})); !resized {
		t.Fatalf("expected resize")
	}
	if a.Previous() != nil {
		t.Fatalf("previous frame kept across size change")
	}
	if c := a.Current(); c.Rect.Dx() != 8 || c.Rect.Dy() != 2 {
		t.Fatalf("current slot size %v", c.Rect)
	}
}

func TestArena_ResetAndRelease(t *testing.T) {
	var a Arena
	a.Load(solid(1, 1, color.RGBA{}))
	a.Promote()
	a.Reset()
	if a.Previous() != nil {
		t.Fatalf("reset must drop the previous frame")
	}
	a.Release()
	if a.Current() != nil || a.Previous() != nil {
		t.Fatalf("release must drop both buffers")
	}
	a.Promote()
	if a.Previous() != nil {
		t.Fatalf("promote on an empty arena must be a no-op")
	}
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	st := NewStore(DefaultSettings())
	s := st.Load()
	s.HighlightColor[0] = 99
	if st.Load().HighlightColor[0] != 0 {
		t.Fatalf("snapshot mutation leaked into store")
	}
	var zero Store
	if zero.Load() != DefaultSettings() {
		t.Fatalf("zero store must yield defaults")
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	st := NewStore(Settings{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Update(func(s *Settings) { s.Threshold++ })
		}()
	}
	wg.Wait()
	if got := st.Load().Threshold; got != 50 {
		t.Fatalf("threshold = %d, want 50", got)
	}
}
