// Package palette derives named color sets from a seed color.
package palette

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// hexRegex matches #RGB and #RRGGBB with an optional leading hash.
var hexRegex = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseHex parses a hex color string like "#7aa2f7" or "7aa2f7".
func ParseHex(s string) (colorful.Color, error) {
	m := hexRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
	}

	hex := m[1]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}

	c, err := colorful.Hex("#" + strings.ToLower(hex))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}

// FormatHex renders a color as lowercase "#rrggbb".
func FormatHex(c colorful.Color) string {
	return strings.ToLower(c.Clamped().Hex())
}

// Lighten raises the HSV value of c by amount (0..1).
func Lighten(c colorful.Color, amount float64) colorful.Color {
	h, s, v := c.Hsv()
	return colorful.Hsv(h, s, clamp01(v+amount))
}

// Darken lowers the HSV value of c by amount (0..1).
func Darken(c colorful.Color, amount float64) colorful.Color {
	h, s, v := c.Hsv()
	return colorful.Hsv(h, s, clamp01(v-amount))
}

// Saturate raises the HSV saturation of c by amount (0..1).
func Saturate(c colorful.Color, amount float64) colorful.Color {
	h, s, v := c.Hsv()
	return colorful.Hsv(h, clamp01(s+amount), v)
}

// RotateHue shifts the hue of c by degrees, wrapping at 360.
func RotateHue(c colorful.Color, degrees float64) colorful.Color {
	h, s, v := c.Hsv()
	h = math.Mod(h+degrees, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, s, v)
}

// Generate derives the standard named color set from a seed accent color.
// The result is deterministic for a given seed.
func Generate(seed string) (map[string]string, error) {
	accent, err := ParseHex(seed)
	if err != nil {
		return nil, err
	}

	_, _, v := accent.Hsv()
	dark := v < 0.5

	background := Darken(Saturate(accent, 0.10), 0.75)
	foreground := Lighten(Darken(accent, 0.05), 0.70)
	if dark {
		// Seeds that are already dark invert the roles.
		background = Darken(accent, 0.15)
		foreground = Lighten(accent, 0.65)
	}

	p := map[string]string{
		"accent":          FormatHex(accent),
		"accent_dim":      FormatHex(Darken(accent, 0.20)),
		"accent_bright":   FormatHex(Lighten(accent, 0.15)),
		"background":      FormatHex(background),
		"background_alt":  FormatHex(Lighten(background, 0.06)),
		"foreground":      FormatHex(foreground),
		"foreground_dim":  FormatHex(Darken(foreground, 0.20)),
		"surface":         FormatHex(Lighten(background, 0.10)),
		"border_active":   FormatHex(accent),
		"border_inactive": FormatHex(Darken(accent, 0.35)),
		"urgent":          FormatHex(RotateHue(Saturate(accent, 0.25), 150)),
	}

	return p, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
