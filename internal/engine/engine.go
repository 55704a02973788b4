// Package engine turns one set of audio signals into a desired terminal frame
// under a scene's constraints.
package engine

import (
	"math"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
	"github.com/guidoenr/oscviz/internal/effects"
	"github.com/guidoenr/oscviz/internal/scene"
)

const (
	impactAttack  = 0.08
	impactRelease = 0.30
)

// State is carried from one tick to the next.
type State struct {
	ImpactEnv float64
}

// Input is everything Tick reads. PrevFg and PrevBg are the colours last sent
// to the terminal, nil when unknown.
type Input struct {
	Dt       float64
	Signals  analyzer.Signals
	Baseline baseline.Baseline
	Scene    scene.Scene
	State    State
	PrevFg   *colormath.RGB
	PrevBg   *colormath.RGB
}

// Tick computes the frame for one step. It has no side effects.
func Tick(in Input) (DesiredFrame, State) {
	env := updateEnvelope(in.State.ImpactEnv, in.Signals.Global, in.Dt)
	mods := effects.NewModulators(env)

	var frame DesiredFrame
	if fn, ok := effects.BackgroundFor(in.Scene.Background); ok {
		frame.Bg = ptr(fn(in.Baseline, in.Signals, mods))
	}

	if fn, ok := effects.LockedForegroundFor(in.Scene.Foreground); ok {
		bg := firstColor(frame.Bg, in.PrevBg, in.Baseline.Background)
		frame.Fg = ptr(fn(in.Baseline, in.Signals, mods, bg))
	} else if fn, ok := effects.ForegroundFor(in.Scene.Foreground); ok {
		frame.Fg = ptr(fn(in.Baseline, in.Signals, mods))
	}

	if fn, ok := effects.PaletteFor(in.Scene.Palette); ok {
		frame.Palette = fn(in.Baseline, in.Signals, mods, in.Scene.Constraints.Protect)
	}

	frame = Enforce(frame, in.Scene.Constraints, in.Baseline, in.PrevFg, in.PrevBg)
	return frame, State{ImpactEnv: env}
}

// updateEnvelope follows x quickly on the way up and slowly on the way down.
func updateEnvelope(prev, x, dt float64) float64 {
	x = colormath.Clamp01(x)
	if dt <= 0 {
		return math.Max(prev, x)
	}
	tau := impactRelease
	if x > prev {
		tau = impactAttack
	}
	alpha := 1 - math.Exp(-dt/tau)
	return prev + (x-prev)*alpha
}

func firstColor(a, b *colormath.RGB, fallback colormath.RGB) colormath.RGB {
	switch {
	case a != nil:
		return *a
	case b != nil:
		return *b
	default:
		return fallback
	}
}
