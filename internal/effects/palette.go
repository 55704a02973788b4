package effects

import (
	"math"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
)

const (
	spectrumFloorLightness = 0.18
	spectrumLightnessRange = 0.52
	spectrumBaseSaturation = 0.80
	spectrumImpactSat      = 0.18
)

// paletteSpectrumQuantized gives every index a fixed hue along the arc and lets
// its own band energy drive brightness in seven steps.
func paletteSpectrumQuantized(_ baseline.Baseline, s analyzer.Signals, m Modulators, protect IndexSet) map[int]colormath.RGB {
	out := make(map[int]colormath.RGB, analyzer.BandCount)
	sat := spectrumBaseSaturation + spectrumImpactSat*m.Impact
	for i := 0; i < analyzer.BandCount; i++ {
		if protect.Has(i) {
			continue
		}
		hue := float64(i) / float64(analyzer.BandCount-1) * hueArc
		light := spectrumFloorLightness + spectrumLightnessRange*colormath.Quantize(s.Bands[i], 7)
		out[i] = colormath.FromHSL(hue, sat, light)
	}
	return out
}

// mapPalette applies fn to every unprotected baseline palette entry.
func mapPalette(b baseline.Baseline, protect IndexSet, fn func(i int, h, s, l float64) colormath.RGB) map[int]colormath.RGB {
	out := make(map[int]colormath.RGB, len(b.Palette))
	for i, c := range b.Palette {
		if protect.Has(i) {
			continue
		}
		h, s, l := colormath.ToHSL(c)
		out[i] = fn(i, h, s, l)
	}
	return out
}

func paletteTemperatureShift(b baseline.Baseline, s analyzer.Signals, _ Modulators, protect IndexSet) map[int]colormath.RGB {
	tilt := colormath.Quantize(warmthOf(s), 7)
	return mapPalette(b, protect, func(_ int, h, sat, l float64) colormath.RGB {
		return colormath.MixHSL(h-28, sat, l, h+22, sat, l, tilt)
	})
}

// paletteGammaWave bends each entry's lightness with a gamma that rises with loudness.
func paletteGammaWave(b baseline.Baseline, s analyzer.Signals, _ Modulators, protect IndexSet) map[int]colormath.RGB {
	gamma := 0.90 + 0.35*colormath.Quantize(colormath.Smoothstep(s.Global), 6)
	return mapPalette(b, protect, func(_ int, h, sat, l float64) colormath.RGB {
		return colormath.FromHSL(h, sat, colormath.Clamp01(math.Pow(math.Max(1e-4, l), gamma)))
	})
}

func paletteComplementSparkle(b baseline.Baseline, s analyzer.Signals, _ Modulators, protect IndexSet) map[int]colormath.RGB {
	sparkle := 0.18 * colormath.Quantize(colormath.Smoothstep(s.Treble), 5)
	return mapPalette(b, protect, func(_ int, h, sat, l float64) colormath.RGB {
		return colormath.MixHSL(h, sat, l, h+180, sat, l, sparkle)
	})
}

var (
	dangerIndices  = Indices(1, 9)
	successIndices = Indices(2, 10)
)

// paletteDangerSuccess lets bass push the reds and mids push the greens; the
// other entries are passed through unchanged.
func paletteDangerSuccess(b baseline.Baseline, s analyzer.Signals, _ Modulators, protect IndexSet) map[int]colormath.RGB {
	danger := colormath.Quantize(colormath.Smoothstep(s.Bass), 6)
	success := colormath.Quantize(colormath.Smoothstep(s.Mids), 6)
	return mapPalette(b, protect, func(i int, h, sat, l float64) colormath.RGB {
		switch {
		case dangerIndices.Has(i):
			sat = colormath.Clamp01(sat * (0.80 + 0.50*danger))
			l = colormath.Clamp01(l * (0.90 + 0.25*danger))
		case successIndices.Has(i):
			sat = colormath.Clamp01(sat * (0.80 + 0.40*success))
			l = colormath.Clamp01(l * (0.92 + 0.22*success))
		}
		return colormath.FromHSL(h, sat, l)
	})
}
