// Package effects maps baseline colours and audio signals to colours. Every
// effect is a pure function; registries look them up by typed name per family.
package effects

import (
	"sort"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
)

// Modulators carries values derived by the engine rather than the extractor.
type Modulators struct {
	// Impact is the attack/release envelope over global energy, in [0,1].
	Impact float64
}

// NewModulators clamps its inputs.
func NewModulators(impact float64) Modulators {
	return Modulators{Impact: colormath.Clamp01(impact)}
}

type (
	// BackgroundFunc computes the default background colour.
	BackgroundFunc func(b baseline.Baseline, s analyzer.Signals, m Modulators) colormath.RGB
	// ForegroundFunc computes the default foreground colour independently of the background.
	ForegroundFunc func(b baseline.Baseline, s analyzer.Signals, m Modulators) colormath.RGB
	// LockedForegroundFunc computes the foreground from the already resolved background.
	LockedForegroundFunc func(b baseline.Baseline, s analyzer.Signals, m Modulators, bg colormath.RGB) colormath.RGB
	// PaletteFunc returns colours for the palette indices it changes; protected indices never appear.
	PaletteFunc func(b baseline.Baseline, s analyzer.Signals, m Modulators, protect IndexSet) map[int]colormath.RGB
)

// Background, Foreground and Palette name effects within their family.
// The empty name selects no effect.
type (
	Background string
	Foreground string
	Palette    string
)

const (
	BgNone             Background = ""
	BgBassPulse        Background = "bass_pulse"
	BgBassImpactTint   Background = "bass_impact_tint"
	BgSaturationBreath Background = "saturation_breath"
	BgTemperatureShift Background = "temperature_shift"
	BgInvertedLoudness Background = "inverted_loudness"
)

const (
	FgNone           Foreground = ""
	FgSpectrumTint   Foreground = "spectrum_tint"
	FgContrastLocked Foreground = "contrast_locked"
	FgSaturationGate Foreground = "saturation_gate"
	FgMonochromeWash Foreground = "monochrome_wash"
	FgTrebleSwing    Foreground = "treble_swing"
)

const (
	PalNone              Palette = ""
	PalSpectrumQuantized Palette = "spectrum_quantized"
	// PalRoleHueRotate and PalSatBloom are older names for PalSpectrumQuantized.
	PalRoleHueRotate     Palette = "role_hue_rotate"
	PalSatBloom          Palette = "sat_bloom"
	PalTemperatureShift  Palette = "temperature_shift"
	PalGammaWave         Palette = "gamma_wave"
	PalComplementSparkle Palette = "complement_sparkle"
	PalDangerSuccess     Palette = "danger_success"
)

var backgroundRegistry = map[Background]BackgroundFunc{
	BgBassPulse:        bgBassPulse,
	BgBassImpactTint:   bgBassImpactTint,
	BgSaturationBreath: bgSaturationBreath,
	BgTemperatureShift: bgTemperatureShift,
	BgInvertedLoudness: bgInvertedLoudness,
}

var foregroundRegistry = map[Foreground]ForegroundFunc{
	FgSpectrumTint:   fgSpectrumTint,
	FgSaturationGate: fgSaturationGate,
	FgMonochromeWash: fgMonochromeWash,
	FgTrebleSwing:    fgTrebleSwing,
}

var lockedForegroundRegistry = map[Foreground]LockedForegroundFunc{
	FgContrastLocked: fgContrastLocked,
}

var paletteRegistry = map[Palette]PaletteFunc{
	PalSpectrumQuantized: paletteSpectrumQuantized,
	PalRoleHueRotate:     paletteSpectrumQuantized,
	PalSatBloom:          paletteSpectrumQuantized,
	PalTemperatureShift:  paletteTemperatureShift,
	PalGammaWave:         paletteGammaWave,
	PalComplementSparkle: paletteComplementSparkle,
	PalDangerSuccess:     paletteDangerSuccess,
}

// BackgroundFor looks up a background effect. Unknown or empty names report false.
func BackgroundFor(name Background) (BackgroundFunc, bool) {
	fn, ok := backgroundRegistry[name]
	return fn, ok
}

// ForegroundFor looks up an independent foreground effect.
func ForegroundFor(name Foreground) (ForegroundFunc, bool) {
	fn, ok := foregroundRegistry[name]
	return fn, ok
}

// LockedForegroundFor looks up a foreground effect that needs the resolved background.
func LockedForegroundFor(name Foreground) (LockedForegroundFunc, bool) {
	fn, ok := lockedForegroundRegistry[name]
	return fn, ok
}

// PaletteFor looks up a palette effect.
func PaletteFor(name Palette) (PaletteFunc, bool) {
	fn, ok := paletteRegistry[name]
	return fn, ok
}

// Known reports whether a name is registered (or empty, meaning "no effect").
func (n Background) Known() bool {
	_, ok := backgroundRegistry[n]
	return ok || n == BgNone
}

// Known reports whether a name is registered (or empty, meaning "no effect").
func (n Foreground) Known() bool {
	_, plain := foregroundRegistry[n]
	_, locked := lockedForegroundRegistry[n]
	return plain || locked || n == FgNone
}

// Known reports whether a name is registered (or empty, meaning "no effect").
func (n Palette) Known() bool {
	_, ok := paletteRegistry[n]
	return ok || n == PalNone
}

// BackgroundNames returns the registered background effects.
func BackgroundNames() []string { return sortedKeys(backgroundRegistry) }

// ForegroundNames returns the registered foreground effects, locked ones included.
func ForegroundNames() []string {
	names := sortedKeys(foregroundRegistry)
	names = append(names, sortedKeys(lockedForegroundRegistry)...)
	sort.Strings(names)
	return names
}

// PaletteNames returns the registered palette effects.
func PaletteNames() []string { return sortedKeys(paletteRegistry) }

func sortedKeys[K ~string, V any](m map[K]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// IndexSet is a set of palette indices 0..15.
type IndexSet uint16

// Indices builds a set; values outside 0..15 are ignored.
func Indices(idx ...int) IndexSet {
	var s IndexSet
	for _, i := range idx {
		if i >= 0 && i < 16 {
			s |= 1 << uint(i)
		}
	}
	return s
}

// Has reports whether i is in the set.
func (s IndexSet) Has(i int) bool {
	return i >= 0 && i < 16 && s&(1<<uint(i)) != 0
}

// Slice returns the members in ascending order.
func (s IndexSet) Slice() []int {
	var out []int
	for i := 0; i < 16; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}
