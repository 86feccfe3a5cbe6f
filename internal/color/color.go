// Package color provides hex color helpers shared by the renderers.
//
// Colors travel through the store as plain strings and are never validated
// there. Parsing happens only at render time, where an unparsable value falls
// back to Fallback.
package color

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned for strings that are not #RGB or #RRGGBB.
var ErrInvalidHex = errors.New("invalid hex color")

// Fallback is used when a stored color cannot be parsed.
const Fallback = "#808080"

// Text colors chosen for contrast against a keycap.
const (
	TextDark  = "#1f2937"
	TextLight = "#f9fafb"
)

// Parse parses "#RGB", "#RRGGBB", "RGB" or "RRGGBB".
func Parse(hex string) (colorful.Color, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	return c, nil
}

// MustParse parses hex, returning the fallback color on error.
func MustParse(hex string) colorful.Color {
	c, err := Parse(hex)
	if err != nil {
		c, _ = colorful.Hex(Fallback)
	}
	return c
}

// Valid reports whether hex parses.
func Valid(hex string) bool {
	_, err := Parse(hex)
	return err == nil
}

// Normalize returns the lowercase #rrggbb form of hex, or Fallback.
func Normalize(hex string) string {
	return MustParse(hex).Hex()
}

// Lighten mixes hex toward white by percent (0-100).
func Lighten(hex string, percent float64) string {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return MustParse(hex).BlendRgb(white, clampPercent(percent)).Clamped().Hex()
}

// Darken mixes hex toward black by percent (0-100).
func Darken(hex string, percent float64) string {
	black := colorful.Color{}
	return MustParse(hex).BlendRgb(black, clampPercent(percent)).Clamped().Hex()
}

// Mix blends a toward b by t (0-1) in RGB space.
func Mix(a, b string, t float64) string {
	t = max(0, min(1, t))
	return MustParse(a).BlendRgb(MustParse(b), t).Clamped().Hex()
}

// Brightness returns the perceived brightness of hex on a 0-255 scale.
func Brightness(hex string) float64 {
	r, g, b := MustParse(hex).RGB255()
	return (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
}

// TextColor returns the label color that contrasts with a keycap fill.
func TextColor(background string) string {
	if Brightness(background) > 128 {
		return TextDark
	}
	return TextLight
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 1
	default:
		return p / 100
	}
}
