package imaging

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses "#RRGGBB", "#RGB" or the same without the leading
// "#" into an opaque colour.
func ParseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimSpace(hex)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	s = strings.TrimPrefix(s, "#")
	if (len(s) != 3 && len(s) != 6) || strings.Trim(s, "0123456789abcdefABCDEF") != "" {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: want 3 or 6 hex digits", hex)
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants.
func MustParseHexColor(hex string) color.NRGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
