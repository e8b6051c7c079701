package model

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Luminance weights and the threshold used to pick a readable text color.
const (
	lumaRed   = 0.299
	lumaGreen = 0.587
	lumaBlue  = 0.114
	// ContrastThreshold splits light from dark backgrounds on the 0-255 luminance scale.
	ContrastThreshold = 186
)

// Color is an 8-bit RGB color. The zero Color is invalid and means "no color".
type Color struct {
	R, G, B uint8
	Valid   bool
}

// Common colors
var (
	Black = RGB(0, 0, 0)
	White = RGB(255, 255, 255)
)

// RGB creates a valid color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

// ParseHex parses "#RRGGBB" (or "#RGB") into a valid color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color, clamping to the RGB gamut.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Colorful converts the color for blending. Invalid colors convert to black.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns "#rrggbb", or "" for an invalid color.
func (c Color) Hex() string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer
func (c Color) String() string {
	if !c.Valid {
		return "invalid"
	}
	return c.Hex()
}

// Luminance returns 0.299R+0.587G+0.114B on the 0-255 scale.
func (c Color) Luminance() float64 {
	return lumaRed*float64(c.R) + lumaGreen*float64(c.G) + lumaBlue*float64(c.B)
}

// ContrastText returns black for light backgrounds and white for dark ones.
// An invalid background is treated as its zero RGB, which yields white.
func ContrastText(background Color) Color {
	if background.Luminance() > ContrastThreshold {
		return Black
	}
	return White
}

// Lerp interpolates each RGB channel linearly, truncating to whole channel
// values. t is clamped to [0,1].
func Lerp(a, b Color, t float64) Color {
	if t != t || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return RGB(lerpChannel(a.R, b.R, t), lerpChannel(a.G, b.G, t), lerpChannel(a.B, b.B, t))
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
