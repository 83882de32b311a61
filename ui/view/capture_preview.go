package view

import (
	"image"

	"github.com/soocke/pixel-motion-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// OutputPreview shows the rendered motion frame in a single label.
type OutputPreview interface {
	UpdateOutput(img image.Image)
	Reset()
}

type outputPreview struct {
	label     *LabelWidget
	prevPhoto *Img // disposed before replacement so old pixel data is freed
	placeW    int
	placeH    int
}

// NewOutputPreview creates the preview label spanning the given row.
func NewOutputPreview(row, columns, placeW, placeH int) OutputPreview {
	v := &outputPreview{placeW: placeW, placeH: placeH}
	v.prevPhoto = NewPhoto(Data(v.placeholder()))
	v.label = Label(Image(v.prevPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.label, Row(row), Column(0), Columnspan(columns), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	return v
}

func (v *outputPreview) placeholder() []byte {
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, v.placeW, v.placeH)))
}

// UpdateOutput expects an already scaled, opaque frame.
func (v *outputPreview) UpdateOutput(img image.Image) {
	if v.label == nil || img == nil {
		return
	}
	v.replace(images.EncodePNG(img))
}

func (v *outputPreview) Reset() {
	if v.label == nil {
		return
	}
	v.replace(v.placeholder())
}

func (v *outputPreview) replace(png []byte) {
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(png))
	v.label.Configure(Image(v.prevPhoto))
}
