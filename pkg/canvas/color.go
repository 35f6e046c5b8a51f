package canvas

import (
	"image/color"
	"strings"
)

// Color is a named paint color. The zero value is not a valid color.
type Color struct {
	Name string
	RGBA color.NRGBA
}

// Background is the fill color of a blank surface.
var Background = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Palette colors use the CSS named-color values.
var (
	Red    = Color{Name: "red", RGBA: color.NRGBA{R: 0xff, A: 0xff}}
	Yellow = Color{Name: "yellow", RGBA: color.NRGBA{R: 0xff, G: 0xff, A: 0xff}}
	Green  = Color{Name: "green", RGBA: color.NRGBA{G: 0x80, A: 0xff}}
	Orange = Color{Name: "orange", RGBA: color.NRGBA{R: 0xff, G: 0xa5, A: 0xff}}
	Purple = Color{Name: "purple", RGBA: color.NRGBA{R: 0x80, B: 0x80, A: 0xff}}
)

// Eraser is the sentinel color. Stamping with it restores the background.
var Eraser = Color{Name: "eraser", RGBA: Background}

var palette = []Color{Red, Yellow, Green, Orange, Purple}

// Palette returns the five selectable colors in control order.
func Palette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette)
	return out
}

// LookupColor finds a palette color by name, case-insensitively. "eraser"
// and "white" resolve to the eraser sentinel.
func LookupColor(name string) (Color, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == Eraser.Name || name == "white" {
		return Eraser, true
	}
	for _, c := range palette {
		if c.Name == name {
			return c, true
		}
	}
	return Color{}, false
}

// IsEraser reports whether c is the eraser sentinel.
func (c Color) IsEraser() bool {
	return c.Name == Eraser.Name
}

// String returns the color name.
func (c Color) String() string {
	return c.Name
}
