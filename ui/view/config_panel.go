package view

import (
	"strconv"
	"strings"

	"github.com/soocke/pixel-motion-go/config"
	"github.com/soocke/pixel-motion-go/domain/capture"
	"github.com/soocke/pixel-motion-go/domain/motion"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form. Motion settings stay editable
// while capturing; the frame-rate field only applies to the next start.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetRequestEditable(enabled bool)
	ShowSettings(s motion.Settings)
}

// ApplyFunc receives the parsed form when the user applies it.
type ApplyFunc func(s motion.Settings, fr capture.FrameRate)

type configPanel struct {
	cfg      *config.Config
	onApply  ApplyFunc
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by field id
}

const (
	fieldThreshold  = "threshold"
	fieldMotionOnly = "motionOnly"
	fieldRed        = "red"
	fieldGreen      = "green"
	fieldBlue       = "blue"
	fieldBlur       = "blur"
	fieldFrameRate  = "frameRate"
)

// NewConfigPanel creates the view seeded from cfg.
func NewConfigPanel(cfg *config.Config, onApply ApplyFunc) ConfigPanel {
	return &configPanel{cfg: cfg, onApply: onApply, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	row = startRow
	makeRow := func(id, label string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		v.widgets[id] = w
		row++
	}
	makeRow(fieldThreshold, "Threshold (0-255)")
	makeRow(fieldMotionOnly, "Motion Only (true/false)")
	makeRow(fieldRed, "Highlight Red")
	makeRow(fieldGreen, "Highlight Green")
	makeRow(fieldBlue, "Highlight Blue")
	makeRow(fieldBlur, "Blur Amount (reserved)")
	makeRow(fieldFrameRate, "Capture FPS (next start)")
	if v.cfg != nil {
		v.ShowSettings(v.cfg.Settings())
		v.set(fieldFrameRate, strconv.Itoa(v.cfg.FrameRateIdeal))
	}
	v.applyBtn = Button(Txt("Apply Changes"), Command(v.apply))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) ShowSettings(s motion.Settings) {
	v.set(fieldThreshold, strconv.Itoa(s.Threshold))
	v.set(fieldMotionOnly, strconv.FormatBool(s.ShowMotionOnly))
	v.set(fieldRed, strconv.Itoa(s.HighlightColor[0]))
	v.set(fieldGreen, strconv.Itoa(s.HighlightColor[1]))
	v.set(fieldBlue, strconv.Itoa(s.HighlightColor[2]))
	v.set(fieldBlur, strconv.FormatFloat(s.BlurAmount, 'f', -1, 64))
}

func (v *configPanel) SetRequestEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	if w := v.widgets[fieldFrameRate]; w != nil {
		w.Configure(State(state))
	}
}

func (v *configPanel) set(id, value string) {
	w := v.widgets[id]
	if w == nil {
		return
	}
	w.Delete("1.0", END)
	w.Insert("1.0", value)
}

func (v *configPanel) text(id string) string {
	w := v.widgets[id]
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

// apply parses every field over the current values; unparsable fields keep
// their previous value.
func (v *configPanel) apply() {
	if v.cfg == nil || v.onApply == nil {
		return
	}
	s := v.cfg.Settings()
	if i, ok := parseIntField(v.text(fieldThreshold)); ok {
		s.Threshold = i
	}
	if b, ok := parseBoolLoose(v.text(fieldMotionOnly)); ok {
		s.ShowMotionOnly = b
	}
	for i, id := range []string{fieldRed, fieldGreen, fieldBlue} {
		if c, ok := parseIntField(v.text(id)); ok {
			s.HighlightColor[i] = c
		}
	}
	if f, ok := parseFloatField(v.text(fieldBlur)); ok {
		s.BlurAmount = f
	}
	fr := capture.FrameRate{Ideal: v.cfg.FrameRateIdeal, Max: v.cfg.FrameRateMax}
	if i, ok := parseIntField(v.text(fieldFrameRate)); ok {
		fr.Ideal = i
	}
	v.onApply(s, fr)
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
