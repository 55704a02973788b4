package effects

import (
	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
)

// hueArc is the span of the colour wheel spectral positions map onto. It stops
// short of 360 so the lowest and highest bands never share a hue.
const hueArc = 300.0

// centroidHue places the spectral centroid on the hue arc in twelve steps.
func centroidHue(s analyzer.Signals) float64 {
	return hueArc * colormath.Quantize(s.Centroid(), 12)
}

func fgSpectrumTint(b baseline.Baseline, s analyzer.Signals, _ Modulators) colormath.RGB {
	_, sat, l := colormath.ToHSL(b.Foreground)
	sat = colormath.Clamp01(sat * (0.85 + 0.55*colormath.Smoothstep(s.Treble)))
	return colormath.FromHSL(centroidHue(s), sat, l)
}

// fgContrastLocked derives lightness from the background's luma so the text
// stays readable without waiting on the contrast correction.
func fgContrastLocked(b baseline.Baseline, s analyzer.Signals, _ Modulators, bg colormath.RGB) colormath.RGB {
	_, sat, _ := colormath.ToHSL(b.Foreground)
	intensity := colormath.Smoothstep(s.Global)
	l := colormath.Clamp01(0.62 + (colormath.Luma(bg)-0.12)*0.35 + 0.10*intensity)
	sat = colormath.Clamp01(sat * (0.90 + 0.15*intensity))
	return colormath.FromHSL(centroidHue(s), sat, l)
}

func fgSaturationGate(b baseline.Baseline, s analyzer.Signals, _ Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Foreground)
	gate := colormath.Quantize(colormath.Smoothstep(s.Global), 6)
	return colormath.FromHSL(h, colormath.Clamp01(sat*(0.65+0.55*gate)), l)
}

// fgMonochromeWash drains saturation as the room gets quieter.
func fgMonochromeWash(b baseline.Baseline, s analyzer.Signals, _ Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Foreground)
	wash := 1.0 - colormath.Quantize(colormath.Smoothstep(s.Global), 7)
	return colormath.FromHSL(h, colormath.Clamp01(sat*(0.25+0.75*(1.0-wash))), l)
}

func fgTrebleSwing(b baseline.Baseline, s analyzer.Signals, _ Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Foreground)
	swing := 32.0 * colormath.Quantize(colormath.Smoothstep(s.Treble), 8)
	return colormath.FromHSL(h+swing, sat, l)
}
