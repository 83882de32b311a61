package view

import (
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SelectionOverlay is a transparent window the user drags and resizes over
// the area to capture. Confirming hands the window rectangle to onConfirm.
type SelectionOverlay interface {
	OpenOrFocus()
	Close()
}

type selectionOverlay struct {
	logger    *slog.Logger
	bounds    func() image.Rectangle
	onConfirm func(image.Rectangle)
	win       *ToplevelWidget
}

const overlayKey = "#008080"

// NewSelectionOverlay creates the overlay manager. bounds reports the
// capturable screen area used to place the initial window.
func NewSelectionOverlay(bounds func() image.Rectangle, onConfirm func(image.Rectangle), logger *slog.Logger) SelectionOverlay {
	return &selectionOverlay{logger: logger, bounds: bounds, onConfirm: onConfirm}
}

func (v *selectionOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2), Background(overlayKey))
	win.WmTitle("Capture Region")
	v.win = win
	WmGeometry(win.Window, initialGeometry(v.screen()))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.45)
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(0))
	GridColumnConfigure(win.Window, 1, Weight(1))
	GridColumnConfigure(win.Window, 2, Weight(0))
	left := win.Frame(Width(4), Background("#00e5ff"))
	Grid(left, Row(0), Column(0), Sticky("ns"))
	center := win.Frame(Background(overlayKey))
	Grid(center, Row(0), Column(1), Sticky("nsew"))
	right := win.Frame(Width(4), Background("#00e5ff"))
	Grid(right, Row(0), Column(2), Sticky("ns"))
	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Columnspan(3), Sticky("we"))
	confirm := win.Button(Txt("Confirm [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.Close))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.Close))
}

func (v *selectionOverlay) screen() image.Rectangle {
	if v.bounds != nil {
		if b := v.bounds(); !b.Empty() {
			return b
		}
	}
	return image.Rect(0, 0, 1920, 1080)
}

func (v *selectionOverlay) confirm() {
	if v.win == nil {
		return
	}
	geom := WmGeometry(v.win.Window)
	rect, ok := parseGeometrySel(geom)
	if !ok {
		if v.logger != nil {
			v.logger.Warn("unparsable overlay geometry", "geometry", geom)
		}
		v.Close()
		return
	}
	v.Close()
	if v.onConfirm != nil {
		v.onConfirm(rect)
	}
}

func (v *selectionOverlay) Close() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// initialGeometry centers a window of two thirds by five ninths of screen.
func initialGeometry(screen image.Rectangle) string {
	w, h := max(1, screen.Dx()*2/3), max(1, screen.Dy()*5/9)
	x := screen.Min.X + (screen.Dx()-w)/2
	y := screen.Min.Y + (screen.Dy()-h)/2
	return fmt.Sprintf("%dx%d%+d%+d", w, h, x, y)
}

// geomReSel matches window geometry strings in the format "WIDTHxHEIGHT+X+Y"
var geomReSel = regexp.MustCompile(`^(\d+)x(\d+)([+-]-?\d+)([+-]-?\d+)$`)

// parseGeometrySel parses a Tk geometry string and returns the corresponding rectangle.
func parseGeometrySel(g string) (image.Rectangle, bool) {
	g = strings.TrimSpace(g)
	m := geomReSel.FindStringSubmatch(g)
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, errX := strconv.Atoi(strings.Replace(m[3], "+-", "-", 1))
	y, errY := strconv.Atoi(strings.Replace(m[4], "+-", "-", 1))
	if w <= 0 || h <= 0 || errX != nil || errY != nil {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
