package colormath

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ToHSL converts c to hue in [0,360), saturation and lightness in [0,1].
func ToHSL(c RGB) (h, s, l float64) {
	col := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l = col.Hsl()
	return WrapHue(h), Clamp01(s), Clamp01(l)
}

// FromHSL converts back to RGB. Hue wraps, saturation and lightness are
// clamped, and channels are truncated rather than rounded.
func FromHSL(h, s, l float64) RGB {
	col := colorful.Hsl(WrapHue(h), Clamp01(s), Clamp01(l))
	return New(int(col.R*255), int(col.G*255), int(col.B*255))
}

// RotateHue shifts the hue of c by deltaDeg and scales saturation and lightness.
func RotateHue(c RGB, deltaDeg, satScale, lightScale float64) RGB {
	h, s, l := ToHSL(c)
	return FromHSL(h+deltaDeg, Clamp01(s*satScale), Clamp01(l*lightScale))
}

// MixHSL interpolates two HSL colours by t, taking the short way around the hue circle.
func MixHSL(h0, s0, l0, h1, s1, l1, t float64) RGB {
	t = Clamp01(t)
	dh := WrapHue(h1) - WrapHue(h0)
	if dh > 180 {
		dh -= 360
	} else if dh < -180 {
		dh += 360
	}
	return FromHSL(
		h0+dh*t,
		s0+(s1-s0)*t,
		l0+(l1-l0)*t,
	)
}

// WrapHue maps any angle into [0,360).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		return 0
	}
	return h
}

// Clamp01 limits v to [0,1]. NaN collapses to 0.
func Clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v >= 0 {
		return v
	}
	return 0
}

// Smoothstep is the ease curve applied to audio energy before it drives an effect.
func Smoothstep(x float64) float64 {
	x = Clamp01(x)
	return x * x * (3.0 - 2.0*x)
}

// Quantize snaps x to one of levels evenly spaced steps including 0 and 1.
// With levels <= 1 it becomes a threshold at 0.5.
func Quantize(x float64, levels int) float64 {
	x = Clamp01(x)
	if levels <= 1 {
		if x >= 0.5 {
			return 1
		}
		return 0
	}
	steps := float64(levels - 1)
	return Clamp01(math.RoundToEven(x*steps) / steps)
}
