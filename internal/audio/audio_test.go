package audio

import (
	"math"
	"testing"
)

func TestNextPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 3: 4, 5: 8, 16: 16, 257: 512}
	for input, want := range cases {
		if got := nextPow2(input); got != want {
			t.Fatalf("nextPow2(%d)=%d want=%d", input, got, want)
		}
	}
}

func TestBinEdgesStrictlyIncreasing(t *testing.T) {
	for _, bars := range []int{8, 64, 200, 600} {
		s := NewSpectrum(SpectrumConfig{Bars: bars, Size: 512, SampleRate: 48_000})
		if len(s.edges) != bars+1 {
			t.Fatalf("bars=%d: %d edges", bars, len(s.edges))
		}
		if s.edges[0] < 1 || s.edges[bars] > s.size/2 {
			t.Fatalf("bars=%d: edges out of range [%d,%d]", bars, s.edges[0], s.edges[bars])
		}
		for i := 1; i <= bars; i++ {
			if s.edges[i] <= s.edges[i-1] {
				t.Fatalf("bars=%d: edge %d=%d not above %d", bars, i, s.edges[i], s.edges[i-1])
			}
		}
	}
}

func TestSpectrumSilenceIsZero(t *testing.T) {
	s := NewSpectrum(SpectrumConfig{Bars: 32, SampleRate: 44_100})
	frame := s.Frame(make([]float32, s.Size()), nil)
	if len(frame) != 32 {
		t.Fatalf("frame len=%d", len(frame))
	}
	for i, v := range frame {
		if v != 0 {
			t.Fatalf("bar %d=%d on silence", i, v)
		}
	}
}

func TestSpectrumSinePeaksInItsBar(t *testing.T) {
	const rate = 44_100.0
	const freq = 1_000.0
	s := NewSpectrum(SpectrumConfig{Bars: 32, SampleRate: rate})
	samples := make([]float32, s.Size())
	for i := range samples {
		samples[i] = float32(0.8 * math.Sin(2*math.Pi*freq*float64(i)/rate))
	}
	frame := s.Frame(samples, make([]byte, 32))

	loudest := 0
	for i, v := range frame {
		if v > frame[loudest] {
			loudest = i
		}
	}
	if frame[loudest] != 255 {
		t.Fatalf("loudest bar=%d, want full scale", frame[loudest])
	}
	resolution := rate / float64(s.Size())
	bin := int(math.Round(freq / resolution))
	lo, hi := s.edges[loudest], s.edges[loudest+1]
	if bin < lo-1 || bin > hi {
		t.Fatalf("1kHz bin %d landed in bar %d covering [%d,%d)", bin, loudest, lo, hi)
	}
}

func TestCopyLatestUnrollsRing(t *testing.T) {
	ring := []float32{5, 6, 3, 4}
	dst := make([]float32, 3)
	// next write goes to index 2, so the newest sample is 6.
	copyLatest(dst, ring, 2)
	want := []float32{4, 5, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst=%v want %v", dst, want)
		}
	}

	long := make([]float32, 6)
	copyLatest(long, ring, 0)
	if long[0] != 0 || long[1] != 0 || long[2] != 5 || long[5] != 4 {
		t.Fatalf("long dst=%v", long)
	}
}
