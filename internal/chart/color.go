package chart

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	cc, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	return cc.Hex()
}

// ParseHex parses #rgb or #rrggbb (the # is optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimSpace(s)
	if !strings.HasPrefix(h, "#") {
		h = "#" + h
	}
	if len(h) != 4 && len(h) != 7 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	c, err := colorful.Hex(h)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// ParsePalette parses a list of hex colors.
func ParsePalette(colors []string) ([]color.RGBA, error) {
	palette := make([]color.RGBA, 0, len(colors))
	for _, s := range colors {
		c, err := ParseHex(s)
		if err != nil {
			return nil, err
		}
		palette = append(palette, c)
	}
	return palette, nil
}
