package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum turns blocks of mono samples into cava-style bar frames: one byte
// per bar, log-spaced between MinHz and MaxHz, auto-gained against a decaying peak.
type Spectrum struct {
	bars       int
	size       int
	sampleRate float64
	minHz      float64
	maxHz      float64

	window []float64
	buffer []float64
	edges  []int
	peak   float64
}

// SpectrumConfig controls Spectrum.
type SpectrumConfig struct {
	Bars       int
	Size       int
	SampleRate float64
	MinHz      float64
	MaxHz      float64
}

const (
	defaultFFTSize = 2048
	peakRelease    = 0.995
	peakFloor      = 1e-4
)

// NewSpectrum precomputes the window and bin edges for the configured bar count.
func NewSpectrum(cfg SpectrumConfig) *Spectrum {
	if cfg.Bars <= 0 {
		cfg.Bars = 64
	}
	if cfg.Size <= 0 {
		cfg.Size = defaultFFTSize
	}
	cfg.Size = nextPow2(cfg.Size)
	for cfg.Size/2 <= cfg.Bars+1 {
		cfg.Size *= 2
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44_100
	}
	if cfg.MinHz <= 0 {
		cfg.MinHz = 40
	}
	if cfg.MaxHz <= cfg.MinHz {
		cfg.MaxHz = math.Min(12_000, cfg.SampleRate/2)
	}

	s := &Spectrum{
		bars:       cfg.Bars,
		size:       cfg.Size,
		sampleRate: cfg.SampleRate,
		minHz:      cfg.MinHz,
		maxHz:      cfg.MaxHz,
		window:     window.Hann(cfg.Size),
		buffer:     make([]float64, cfg.Size),
	}
	s.edges = s.binEdges()
	return s
}

// Size is the number of samples Frame consumes.
func (s *Spectrum) Size() int { return s.size }

// Frame writes one bar frame for the given samples into dst (len >= bars) and returns it.
func (s *Spectrum) Frame(samples []float32, dst []byte) []byte {
	if cap(dst) < s.bars {
		dst = make([]byte, s.bars)
	}
	dst = dst[:s.bars]

	offset := max(0, len(samples)-s.size)
	for i := range s.buffer {
		v := 0.0
		if offset+i < len(samples) {
			v = float64(samples[offset+i])
		}
		s.buffer[i] = v * s.window[i]
	}

	coeffs := fft.FFTReal(s.buffer)

	mags := make([]float64, s.bars)
	frameMax := 0.0
	for b := 0; b < s.bars; b++ {
		lo, hi := s.edges[b], s.edges[b+1]
		sum := 0.0
		for i := lo; i < hi; i++ {
			sum += cmplx.Abs(coeffs[i])
		}
		mags[b] = sum / float64(hi-lo)
		frameMax = math.Max(frameMax, mags[b])
	}

	if frameMax > s.peak {
		s.peak = frameMax
	} else {
		s.peak = math.Max(peakFloor, s.peak*peakRelease)
	}
	for b, m := range mags {
		dst[b] = byte(math.Round(clamp01(m/s.peak) * 255))
	}
	return dst
}

// binEdges returns bars+1 strictly increasing FFT bin boundaries, log-spaced
// between minHz and maxHz, within [1, size/2].
func (s *Spectrum) binEdges() []int {
	resolution := s.sampleRate / float64(s.size)
	maxBin := s.size / 2
	ratio := s.maxHz / s.minHz

	edges := make([]int, s.bars+1)
	for b := range edges {
		hz := s.minHz * math.Pow(ratio, float64(b)/float64(s.bars))
		bin := max(1, int(math.Round(hz/resolution)))
		if b > 0 {
			bin = max(bin, edges[b-1]+1)
		}
		edges[b] = bin
	}
	if edges[s.bars] > maxBin {
		edges[s.bars] = maxBin
		for b := s.bars - 1; b >= 0; b-- {
			edges[b] = min(edges[b], edges[b+1]-1)
		}
	}
	return edges
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
