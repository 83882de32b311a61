package model

import (
	"image"
)

// RegionModel holds the capture region in screen coordinates. The zero value
// means full screen and is usable.
// No synchronization needed: updates occur on the UI thread.
type RegionModel struct {
	region image.Rectangle
}

func NewRegionModel(r image.Rectangle) *RegionModel {
	m := &RegionModel{}
	m.SetRegion(r)
	return m
}

// SetRegion sets the rectangle. Use an empty rect for the full screen.
func (m *RegionModel) SetRegion(r image.Rectangle) {
	if m == nil {
		return
	}
	if r.Empty() {
		m.region = image.Rectangle{}
		return
	}
	m.region = r.Canon()
}

// Region returns the current rectangle (may be empty).
func (m *RegionModel) Region() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	return m.region
}

// FullScreen reports whether no region is set.
func (m *RegionModel) FullScreen() bool { return m.Region().Empty() }
