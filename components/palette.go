package components

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette maps each health state to the colour a renderer draws it with.
type Palette [NumHealthStates]color.RGBA

// DefaultPalette is used when config does not override the colours.
var DefaultPalette = Palette{
	Healthy:   {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	Infected:  {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	Recovered: {R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
}

// Color returns the display colour for h. Unknown states render black.
func (p Palette) Color(h Health) color.RGBA {
	if !h.Valid() {
		return color.RGBA{A: 0xff}
	}
	return p[h]
}

// ParseHexColor parses "#rrggbb" or "rrggbb" into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
