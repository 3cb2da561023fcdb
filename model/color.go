package model

import (
	"fmt"
	"strings"
)

// Color is a 24-bit sRGB color.
type Color struct {
	R, G, B uint8
}

// ParseHex parses a color in "#rrggbb" or "rrggbb" form.
func ParseHex(s string) (Color, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, false
	}
	var c Color
	for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
		hi, ok1 := hexVal(s[i*2])
		lo, ok2 := hexVal(s[i*2+1])
		if !ok1 || !ok2 {
			return Color{}, false
		}
		*dst = hi<<4 | lo
	}
	return c, true
}

func hexVal(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// Hex returns the canonical lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns the perceived brightness on a 0-255 scale using the
// Rec. 601 luma coefficients.
func (c Color) Luminance() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// NearWhiteOrBlack reports whether the color falls outside the [30,225]
// luminance window. Such colors are background noise for brand inference
// and are filtered at extraction time.
func (c Color) NearWhiteOrBlack() bool {
	l := c.Luminance()
	return l < 30 || l > 225
}

// Hue returns the HSL hue in degrees [0,360). Achromatic colors return 0.
func (c Color) Hue() int {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	max, min := r, r
	for _, v := range []float64{g, b} {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	if max == min {
		return 0
	}

	d := max - min
	var h float64
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return int(h*60+0.5) % 360
}

// HueDistance returns the circular distance between two hues in degrees,
// always in [0,180].
func HueDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// NearWhiteOrBlackHex is a convenience for hex-keyed tables. Unparseable
// values are treated as near-white/black so they never enter aggregation.
func NearWhiteOrBlackHex(hex string) bool {
	c, ok := ParseHex(hex)
	if !ok {
		return true
	}
	return c.NearWhiteOrBlack()
}
