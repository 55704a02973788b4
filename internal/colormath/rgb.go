// Package colormath holds the colour arithmetic shared by effects, constraints
// and the OSC backend. Every function is total: inputs are clamped, never rejected.
package colormath

import "fmt"

// RGB is an 8-bit-per-channel colour. Construct it with New when the channel
// values come from arithmetic so they are range-clamped.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// New builds an RGB, clamping each channel to [0,255].
func New(r, g, b int) RGB {
	return RGB{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

// Hex returns the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Triplet returns the colour in the X11 rgb:rr/gg/bb form used by palette sequences.
func (c RGB) Triplet() string {
	return fmt.Sprintf("rgb:%02x/%02x/%02x", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// Luma is the Rec. 709 perceptual brightness of c in [0,1].
func Luma(c RGB) float64 {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// LimitStep moves prev towards target by at most maxDelta per channel.
// A maxDelta of zero or less returns target unchanged.
func LimitStep(prev, target RGB, maxDelta int) RGB {
	if maxDelta <= 0 {
		return target
	}
	return New(
		int(prev.R)+clampInt(int(target.R)-int(prev.R), -maxDelta, maxDelta),
		int(prev.G)+clampInt(int(target.G)-int(prev.G), -maxDelta, maxDelta),
		int(prev.B)+clampInt(int(target.B)-int(prev.B), -maxDelta, maxDelta),
	)
}

// Distance is the Chebyshev distance between two colours.
func Distance(a, b RGB) int {
	return max(absInt(int(a.R)-int(b.R)), absInt(int(a.G)-int(b.G)), absInt(int(a.B)-int(b.B)))
}

func clampChannel(v int) uint8 {
	return uint8(clampInt(v, 0, 255))
}

func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
