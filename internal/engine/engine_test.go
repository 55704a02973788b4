package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
	"github.com/guidoenr/oscviz/internal/effects"
	"github.com/guidoenr/oscviz/internal/scene"
)

func mustScene(t *testing.T, name string) scene.Scene {
	t.Helper()
	s, err := scene.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", name, err)
	}
	return s
}

func TestUpdateEnvelope(t *testing.T) {
	if got := updateEnvelope(0.3, 0.8, 0); got != 0.8 {
		t.Fatalf("dt=0 rising: got %f", got)
	}
	if got := updateEnvelope(0.3, 0.1, -1); got != 0.3 {
		t.Fatalf("dt<0 falling should hold: got %f", got)
	}
	if got := updateEnvelope(0, 5, 0); got != 1 {
		t.Fatalf("input should clamp to 1, got %f", got)
	}

	up := updateEnvelope(0, 1, 0.05)
	down := 1 - updateEnvelope(1, 0, 0.05)
	if up <= down {
		t.Fatalf("attack (%f) should outpace release (%f)", up, down)
	}
	want := 1 - math.Exp(-0.05/impactAttack)
	if math.Abs(up-want) > 1e-12 {
		t.Fatalf("attack step=%f want %f", up, want)
	}

	env := 0.0
	for i := 0; i < 100; i++ {
		env = updateEnvelope(env, 0.6, 0.05)
	}
	if math.Abs(env-0.6) > 1e-6 {
		t.Fatalf("envelope did not converge: %f", env)
	}
}

func TestMoodBassConvergesToCeiling(t *testing.T) {
	mood := mustScene(t, "mood")
	b := baseline.Fallback()
	signals := analyzer.Signals{Bass: 1, Global: 0.45}

	var state State
	prevBg := b.Background
	prevL := -1.0
	for i := 0; i < 30; i++ {
		var frame DesiredFrame
		frame, state = Tick(Input{Dt: 0.05, Signals: signals, Baseline: b, Scene: mood, State: state, PrevBg: &prevBg})
		if frame.Bg == nil {
			t.Fatalf("tick %d: mood scene produced no background", i)
		}
		_, _, l := colormath.ToHSL(*frame.Bg)
		if l > mood.Constraints.MaxBgLightness+1e-9 {
			t.Fatalf("tick %d: lightness %f exceeds ceiling", i, l)
		}
		if l < prevL-1e-9 {
			t.Fatalf("tick %d: lightness fell from %f to %f", i, prevL, l)
		}
		if d := colormath.Distance(prevBg, *frame.Bg); d > mood.Constraints.DeltaLimit {
			t.Fatalf("tick %d: background moved %d", i, d)
		}
		prevL = l
		prevBg = *frame.Bg
	}
	if math.Abs(prevL-mood.Constraints.MaxBgLightness) > 1.0/255 {
		t.Fatalf("lightness settled at %f, want about %f", prevL, mood.Constraints.MaxBgLightness)
	}
}

func TestTickNeverEmitsProtectedIndices(t *testing.T) {
	b := baseline.Fallback()
	rng := rand.New(rand.NewSource(7))
	for _, name := range scene.Names() {
		sc := mustScene(t, name)
		var state State
		for i := 0; i < 50; i++ {
			var s analyzer.Signals
			for j := range s.Bands {
				s.Bands[j] = rng.Float64()
			}
			s.Bass, s.Mids, s.Treble, s.Global = rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()

			var frame DesiredFrame
			frame, state = Tick(Input{Dt: 0.05, Signals: s, Baseline: b, Scene: sc, State: state})
			for idx := range frame.Palette {
				if sc.Constraints.Protect.Has(idx) {
					t.Fatalf("%s: protected index %d emitted", name, idx)
				}
			}
		}
	}
}

func TestTickSkipsUnknownEffects(t *testing.T) {
	sc := scene.Scene{Name: "empty", Background: "missing"}
	frame, state := Tick(Input{Dt: 0.1, Signals: analyzer.Signals{Global: 1}, Baseline: baseline.Fallback(), Scene: sc})
	if !frame.Empty() {
		t.Fatalf("expected empty frame, got %+v", frame)
	}
	if state.ImpactEnv <= 0 {
		t.Fatalf("envelope should still advance")
	}
}

func TestContrastLockedUsesPreviousBackground(t *testing.T) {
	sc := scene.Scene{
		Name:        "locked",
		Foreground:  effects.FgContrastLocked,
		Constraints: scene.Constraints{MaxBgLightness: 1, MaxFgSaturation: 1},
	}
	b := baseline.Fallback()
	light := colormath.RGB{R: 0x70, G: 0x70, B: 0x70}

	withBaseline, _ := Tick(Input{Signals: analyzer.Signals{Global: 0.5}, Baseline: b, Scene: sc})
	withPrev, _ := Tick(Input{Signals: analyzer.Signals{Global: 0.5}, Baseline: b, Scene: sc, PrevBg: &light})
	if withBaseline.Fg == nil || withPrev.Fg == nil {
		t.Fatalf("expected foreground output")
	}
	if *withBaseline.Fg == *withPrev.Fg {
		t.Fatalf("foreground ignored the previous background")
	}
}
