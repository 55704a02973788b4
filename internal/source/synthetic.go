package source

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Synthetic fakes a spectrum with three drifting sine "instruments" plus noise.
// It needs no audio hardware and no external visualiser.
type Synthetic struct {
	rng      *rand.Rand
	bars     int
	interval time.Duration

	phaseBass float64
	phaseMid  float64
	phaseHigh float64
}

// NewSynthetic produces bars-wide frames every interval. A zero interval
// returns frames as fast as Next is called; seed 0 picks a time-based seed.
func NewSynthetic(bars int, interval time.Duration, seed int64) *Synthetic {
	if bars <= 0 {
		bars = 64
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Synthetic{
		rng:      rand.New(rand.NewSource(seed)),
		bars:     bars,
		interval: interval,
	}
}

// Next sleeps one interval and returns a frame.
func (s *Synthetic) Next(ctx context.Context) ([]byte, error) {
	if err := sleep(ctx, s.interval); err != nil {
		return nil, err
	}
	step := s.interval.Seconds()
	if step <= 0 {
		step = 1.0 / 60
	}
	return s.frame(step), nil
}

func (s *Synthetic) frame(delta float64) []byte {
	s.phaseBass += delta * 0.7 * 2 * math.Pi
	s.phaseMid += delta * 1.2 * 2 * math.Pi
	s.phaseHigh += delta * 2.1 * 2 * math.Pi

	bass := 0.5 + 0.5*math.Sin(s.phaseBass)
	mid := 0.4 + 0.4*math.Sin(s.phaseMid+0.5)
	treble := 0.3 + 0.3*math.Sin(s.phaseHigh+1.0)
	if s.rng.Float64() < 0.02 {
		bass = 1
	}

	out := make([]byte, s.bars)
	for i := range out {
		x := float64(i) / float64(max(1, s.bars-1))
		// each instrument is a bump centred on its part of the spectrum
		v := bass*bump(x, 0.08, 0.12) + mid*bump(x, 0.35, 0.18) + treble*bump(x, 0.75, 0.25)
		v += s.rng.Float64() * 0.08
		out[i] = byte(math.Round(math.Min(1, math.Max(0, v)) * 255))
	}
	return out
}

func bump(x, centre, width float64) float64 {
	d := (x - centre) / width
	return math.Exp(-d * d)
}

// Close is a no-op.
func (s *Synthetic) Close() error { return nil }
