package effects

import (
	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
)

// bgBassPulse brightens the background with bass while keeping it in a dark band.
func bgBassPulse(b baseline.Baseline, s analyzer.Signals, m Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Background)
	amp := colormath.Smoothstep(s.Bass) * (0.65 + 0.35*m.Impact)
	l = min(colormath.Clamp01(l*0.70+0.04+0.12*amp), 0.20)
	sat = colormath.Clamp01(sat * (0.85 + 0.55*amp))
	return colormath.FromHSL(h, sat, l)
}

func bgBassImpactTint(b baseline.Baseline, s analyzer.Signals, m Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Background)
	impact := colormath.Smoothstep(s.Bass) * (0.55 + 0.45*m.Impact)
	sat = colormath.Clamp01(sat * (0.90 + 1.00*impact))
	l = colormath.Clamp01(l*0.80 + 0.03 + 0.10*impact)
	return colormath.FromHSL(h, sat, min(l, 0.22))
}

// bgSaturationBreath lifts saturation in five steps of global energy.
func bgSaturationBreath(b baseline.Baseline, s analyzer.Signals, _ Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Background)
	lift := colormath.Quantize(colormath.Smoothstep(s.Global), 5)
	sat = colormath.Clamp01(sat * (0.70 + 0.45*lift))
	l = colormath.Clamp01(l*0.85 + 0.03 + 0.04*lift)
	return colormath.FromHSL(h, sat, l)
}

// bgTemperatureShift blends between a cooled and a warmed baseline hue by the
// bass/treble balance.
func bgTemperatureShift(b baseline.Baseline, s analyzer.Signals, _ Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Background)
	warmth := colormath.Quantize(warmthOf(s), 7)
	return colormath.MixHSL(h-40, sat, l, h+20, sat, l, warmth)
}

func bgInvertedLoudness(b baseline.Baseline, s analyzer.Signals, _ Modulators) colormath.RGB {
	h, sat, l := colormath.ToHSL(b.Background)
	damp := colormath.Quantize(colormath.Smoothstep(s.Global), 6)
	l = colormath.Clamp01(l * (1.0 - 0.25*damp))
	sat = colormath.Clamp01(sat * (0.85 + 0.10*damp))
	return colormath.FromHSL(h, sat, l)
}

// warmthOf maps bass-minus-treble onto [0,1]; 0 is cool, 1 is warm.
func warmthOf(s analyzer.Signals) float64 {
	return (s.Bass-s.Treble)*0.5 + 0.5
}
