package theme

// Light/dark palettes and the ttk styles used by the control window.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PaletteSnapshot holds the resolved colors for one mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
}

var (
	light = PaletteSnapshot{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#0891b2",
		Text:      "#1e293b",
		TextMuted: "#64748b",
	}
	dark = PaletteSnapshot{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#00e5ff",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
	}
)

// Style names used with Style(...).
const (
	StyleCaptureButton = "capture.TButton"
	StyleStopButton    = "stop.TButton"
	StyleStateLabel    = "state.TLabel"
	StyleErrorLabel    = "error.TLabel"
	StyleMutedLabel    = "muted.TLabel"
)

var darkMode bool

// CurrentPalette returns the palette of the active mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles applies the styles for the current mode.
func InitStyles() { apply(CurrentPalette()) }

// SetDark switches mode and reapplies styles.
func SetDark(d bool) bool {
	darkMode = d
	apply(CurrentPalette())
	return darkMode
}

// ToggleDark flips the mode. Returns the new mode value.
func ToggleDark() bool { return SetDark(!darkMode) }

// IsDark reports the current mode.
func IsDark() bool { return darkMode }

func apply(p PaletteSnapshot) {
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StyleCaptureButton, Background(p.Primary), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleStopButton, Background(p.Danger), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleStateLabel, Background(p.Accent), Foreground(p.Surface), Padding("4p 2p"), Borderwidth(1), Relief("groove"))
	StyleConfigure(StyleErrorLabel, Background(p.AppBg), Foreground(p.Danger), Padding("2p 1p"))
	StyleConfigure(StyleMutedLabel, Background(p.AppBg), Foreground(p.TextMuted), Padding("2p 1p"))
}
