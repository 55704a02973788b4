// Package baseline describes the colours a terminal starts with. Effects are
// computed relative to a Baseline so visuals stay anchored to the user's theme.
package baseline

import (
	"fmt"
	"strings"

	"github.com/guidoenr/oscviz/internal/colormath"
)

// Baseline is the terminal's default foreground, background and 16-colour palette.
// It is captured once at startup and never modified.
type Baseline struct {
	Foreground colormath.RGB
	Background colormath.RGB
	Palette    [16]colormath.RGB
}

// XTermPalette returns the stock xterm 16-colour palette.
func XTermPalette() [16]colormath.RGB {
	return [16]colormath.RGB{
		{R: 0x00, G: 0x00, B: 0x00}, {R: 0xcd, G: 0x00, B: 0x00}, {R: 0x00, G: 0xcd, B: 0x00}, {R: 0xcd, G: 0xcd, B: 0x00},
		{R: 0x00, G: 0x00, B: 0xee}, {R: 0xcd, G: 0x00, B: 0xcd}, {R: 0x00, G: 0xcd, B: 0xcd}, {R: 0xe5, G: 0xe5, B: 0xe5},
		{R: 0x7f, G: 0x7f, B: 0x7f}, {R: 0xff, G: 0x00, B: 0x00}, {R: 0x00, G: 0xff, B: 0x00}, {R: 0xff, G: 0xff, B: 0x00},
		{R: 0x5c, G: 0x5c, B: 0xff}, {R: 0xff, G: 0x00, B: 0xff}, {R: 0x00, G: 0xff, B: 0xff}, {R: 0xff, G: 0xff, B: 0xff},
	}
}

// Fallback is used whenever the real terminal colours are unknown.
func Fallback() Baseline {
	return Baseline{
		Foreground: colormath.RGB{R: 0xd0, G: 0xd0, B: 0xd0},
		Background: colormath.RGB{R: 0x12, G: 0x12, B: 0x12},
		Palette:    XTermPalette(),
	}
}

// WithOverrides replaces the foreground and/or background with hex colours.
// Empty strings leave the value untouched.
func (b Baseline) WithOverrides(fgHex, bgHex string) (Baseline, error) {
	if fgHex != "" {
		c, err := ParseHex(fgHex)
		if err != nil {
			return b, fmt.Errorf("foreground: %w", err)
		}
		b.Foreground = c
	}
	if bgHex != "" {
		c, err := ParseHex(bgHex)
		if err != nil {
			return b, fmt.Errorf("background: %w", err)
		}
		b.Background = c
	}
	return b, nil
}

// ParseHex reads #rrggbb or rrggbb.
func ParseHex(s string) (colormath.RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	if len(s) != 6 {
		return colormath.RGB{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return colormath.RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return colormath.RGB{R: r, G: g, B: b}, nil
}
