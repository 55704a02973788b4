package analyzer

import (
	"math"
	"testing"
)

func frameOf(bars int, value byte) []byte {
	f := make([]byte, bars)
	for i := range f {
		f[i] = value
	}
	return f
}

func TestRangeIndicesNeverEmpty(t *testing.T) {
	cases := []struct {
		r          Range
		bars       int
		wantLo, hi int
	}{
		{Range{0, 0.18}, 64, 0, 11},
		{Range{0.55, 1}, 64, 35, 64},
		{Range{0.5, 0.5}, 64, 32, 33},
		{Range{0.9, 0.1}, 10, 1, 9},
		{Range{-1, 2}, 8, 0, 8},
	}
	for _, tc := range cases {
		lo, hi := tc.r.indices(tc.bars)
		if lo != tc.wantLo || hi != tc.hi {
			t.Fatalf("indices(%+v, %d)=(%d,%d) want (%d,%d)", tc.r, tc.bars, lo, hi, tc.wantLo, tc.hi)
		}
	}
}

func TestBandGroupsCoverAllBars(t *testing.T) {
	e := New(Config{Bars: 70, Smoothing: 0.5})
	if e.bands[0].lo != 0 {
		t.Fatalf("first band starts at %d", e.bands[0].lo)
	}
	for i := 1; i < BandCount; i++ {
		if e.bands[i].lo != e.bands[i-1].hi {
			t.Fatalf("gap between band %d and %d", i-1, i)
		}
	}
	if last := e.bands[BandCount-1]; last.hi != 70 || last.lo != 60 {
		t.Fatalf("last band=%+v want [60,70)", last)
	}
}

func TestBandEnergy(t *testing.T) {
	frame := []byte{0, 255, 255, 0}
	if got := bandEnergy(frame, span{1, 3}); got != 1 {
		t.Fatalf("full band=%f", got)
	}
	if got := bandEnergy(frame, span{0, 4}); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("half band=%f", got)
	}
	if got := bandEnergy(frame, span{3, 10}); got != 0 {
		t.Fatalf("clipped band=%f", got)
	}
	if got := bandEnergy(frame, span{6, 10}); got != 0 {
		t.Fatalf("out of range band=%f", got)
	}
}

func TestExtractSmoothsTowardsInput(t *testing.T) {
	e := New(Config{
		Bars:          64,
		Bass:          Range{0, 0.18},
		Mids:          Range{0.18, 0.55},
		Treble:        Range{0.55, 1},
		Smoothing:     0.22,
		BeatThreshold: 0.78,
	})
	full := frameOf(64, 255)

	first := e.Extract(full)
	if math.Abs(first.Bass-0.22) > 1e-9 {
		t.Fatalf("first bass=%f want 0.22", first.Bass)
	}
	if math.Abs(first.Global-0.22) > 1e-9 {
		t.Fatalf("first global=%f want 0.22", first.Global)
	}
	if first.Beat {
		t.Fatalf("beat must not fire on first frame")
	}

	var s Signals
	for i := 0; i < 60; i++ {
		s = e.Extract(full)
	}
	if s.Bass < 0.99 || s.Global < 0.99 {
		t.Fatalf("filters did not converge: %+v", s)
	}
	for i, b := range s.Bands {
		if b < 0.99 || b > 1 {
			t.Fatalf("band %d=%f", i, b)
		}
	}
	if !s.Beat {
		t.Fatalf("expected beat on sustained full frame")
	}
}

func TestBeatNeedsGlobalFloor(t *testing.T) {
	e := New(Config{
		Bars:          64,
		Bass:          Range{0, 0.18},
		Mids:          Range{0.18, 0.55},
		Treble:        Range{0.55, 1},
		Smoothing:     1,
		BeatThreshold: 0.78,
	})
	frame := make([]byte, 64)
	for i := 0; i < 11; i++ {
		frame[i] = 255
	}
	s := e.Extract(frame)
	if s.Bass != 1 {
		t.Fatalf("bass=%f", s.Bass)
	}
	// global = 0.45 which clears the 0.40 floor.
	if !s.Beat {
		t.Fatalf("expected beat with bass=1 global=%f", s.Global)
	}

	e = New(Config{
		Bars:          64,
		Bass:          Range{0, 0.18},
		Mids:          Range{0.18, 0.55},
		Treble:        Range{0.55, 1},
		Smoothing:     1,
		BeatThreshold: 0.78,
	})
	for i := 0; i < 11; i++ {
		frame[i] = 200
	}
	s = e.Extract(frame)
	if s.Beat {
		t.Fatalf("beat must not fire when global=%f is under the floor", s.Global)
	}
}

func TestExtractSilenceStaysZero(t *testing.T) {
	e := New(DefaultConfig())
	s := e.Extract(make([]byte, 64))
	if s.Global != 0 || s.Bass != 0 || s.Beat {
		t.Fatalf("silence produced %+v", s)
	}
}

func TestExtractShortFrame(t *testing.T) {
	e := New(DefaultConfig())
	s := e.Extract([]byte{255, 255})
	if s.Bands[0] <= 0 {
		t.Fatalf("first band should see the bars present")
	}
	if s.Bands[15] != 0 {
		t.Fatalf("last band should be empty, got %f", s.Bands[15])
	}
}

func TestCentroid(t *testing.T) {
	var s Signals
	if c := s.Centroid(); c != 0 {
		t.Fatalf("empty centroid=%f", c)
	}
	s.Bands[15] = 1
	if c := s.Centroid(); math.Abs(c-1) > 1e-6 {
		t.Fatalf("top centroid=%f", c)
	}
	s = Signals{}
	s.Bands[0] = 1
	s.Bands[15] = 1
	if c := s.Centroid(); math.Abs(c-0.5) > 1e-6 {
		t.Fatalf("split centroid=%f", c)
	}
}

func TestRangeNormalize(t *testing.T) {
	got := Range{Lo: 1.4, Hi: -0.2}.Normalize()
	if got.Lo != 0 || got.Hi != 1 {
		t.Fatalf("Normalize=%+v", got)
	}
}
