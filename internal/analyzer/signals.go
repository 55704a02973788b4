package analyzer

// BandCount is the number of spectrum bands published per tick, one per palette index.
const BandCount = 16

// Signals is one tick's worth of smoothed audio state. All values are in [0,1].
type Signals struct {
	Bands  [BandCount]float64
	Bass   float64
	Mids   float64
	Treble float64
	Global float64
	// Beat is published for extension effects; no shipped effect reads it yet.
	Beat bool
}

// Centroid returns the energy-weighted mean band position in [0,1].
func (s Signals) Centroid() float64 {
	total := 1e-9
	weighted := 0.0
	for i, w := range s.Bands {
		total += w
		weighted += float64(i) / float64(BandCount-1) * w
	}
	return weighted / total
}

// Range is a fractional slice [Lo,Hi) of the bar array.
type Range struct {
	Lo float64
	Hi float64
}

// Normalize clamps both ends into [0,1] and swaps them when inverted.
func (r Range) Normalize() Range {
	lo, hi := clamp(r.Lo, 0, 1), clamp(r.Hi, 0, 1)
	if hi < lo {
		lo, hi = hi, lo
	}
	return Range{Lo: lo, Hi: hi}
}

// indices resolves the range against a bar count; the result is never empty.
func (r Range) indices(bars int) (lo, hi int) {
	n := r.Normalize()
	lo = int(n.Lo * float64(bars))
	hi = int(n.Hi * float64(bars))
	return lo, max(lo+1, hi)
}
