// Package scene bundles effect choices with the safety constraints applied to
// their output.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/guidoenr/oscviz/internal/effects"
)

// ErrUnknownScene is returned by Lookup for names missing from the catalogue.
var ErrUnknownScene = errors.New("unknown scene")

// Constraints keep a scene readable and calm no matter what the effects produce.
type Constraints struct {
	// MinContrastDelta is the minimum luma gap between foreground and background.
	MinContrastDelta float64
	// Protect lists palette indices that are never recoloured.
	Protect         effects.IndexSet
	MaxBgLightness  float64
	MaxFgSaturation float64
	// DeltaLimit caps per-channel movement of fg/bg per tick; zero disables it.
	DeltaLimit int
}

// Scene names one effect per channel plus its constraints.
type Scene struct {
	Name        string
	Background  effects.Background
	Foreground  effects.Foreground
	Palette     effects.Palette
	Constraints Constraints
}

// Validate reports effect names that no registry knows about.
func (s Scene) Validate() error {
	var errs []error
	if !s.Background.Known() {
		errs = append(errs, fmt.Errorf("background effect %q", s.Background))
	}
	if !s.Foreground.Known() {
		errs = append(errs, fmt.Errorf("foreground effect %q", s.Foreground))
	}
	if !s.Palette.Known() {
		errs = append(errs, fmt.Errorf("palette effect %q", s.Palette))
	}
	if len(errs) > 0 {
		return fmt.Errorf("scene %s: unregistered %w", s.Name, errors.Join(errs...))
	}
	return nil
}

// ansiNeutrals are black, white, bright black and bright white.
var ansiNeutrals = effects.Indices(0, 7, 8, 15)

// Catalog returns a fresh copy of the built-in scenes.
func Catalog() map[string]Scene {
	return map[string]Scene{
		"mood": {
			Name:       "mood",
			Background: effects.BgBassPulse,
			Foreground: effects.FgSpectrumTint,
			Palette:    effects.PalSpectrumQuantized,
			Constraints: Constraints{
				MinContrastDelta: 0.22,
				Protect:          ansiNeutrals,
				MaxBgLightness:   0.18,
				MaxFgSaturation:  0.85,
				DeltaLimit:       18,
			},
		},
		"punchy": {
			Name:       "punchy",
			Background: effects.BgBassImpactTint,
			Foreground: effects.FgContrastLocked,
			Palette:    effects.PalSpectrumQuantized,
			Constraints: Constraints{
				MinContrastDelta: 0.26,
				Protect:          ansiNeutrals,
				MaxBgLightness:   0.17,
				MaxFgSaturation:  0.80,
				DeltaLimit:       14,
			},
		},
		"spectrum": {
			Name:       "spectrum",
			Background: effects.BgBassPulse,
			Foreground: effects.FgContrastLocked,
			Palette:    effects.PalSpectrumQuantized,
			Constraints: Constraints{
				MinContrastDelta: 0.24,
				MaxBgLightness:   0.18,
				MaxFgSaturation:  0.85,
				DeltaLimit:       18,
			},
		},
		"warmcool": {
			Name:       "warmcool",
			Background: effects.BgTemperatureShift,
			Foreground: effects.FgSaturationGate,
			Palette:    effects.PalTemperatureShift,
			Constraints: Constraints{
				MinContrastDelta: 0.24,
				Protect:          ansiNeutrals,
				MaxBgLightness:   0.20,
				MaxFgSaturation:  0.85,
				DeltaLimit:       16,
			},
		},
		"focus": {
			Name:       "focus",
			Background: effects.BgInvertedLoudness,
			Foreground: effects.FgMonochromeWash,
			Palette:    effects.PalGammaWave,
			Constraints: Constraints{
				MinContrastDelta: 0.26,
				Protect:          ansiNeutrals,
				MaxBgLightness:   0.16,
				MaxFgSaturation:  0.75,
				DeltaLimit:       14,
			},
		},
	}
}

// DefaultName is the scene used when none is configured.
const DefaultName = "mood"

// Names lists the built-in scenes alphabetically.
func Names() []string {
	catalog := Catalog()
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named scene or an error wrapping ErrUnknownScene.
func Lookup(name string) (Scene, error) {
	s, ok := Catalog()[name]
	if !ok {
		return Scene{}, fmt.Errorf("%w %q (available: %v)", ErrUnknownScene, name, Names())
	}
	return s, nil
}
