package analyzer

// Config controls Extractor behavior.
type Config struct {
	Bars          int
	Bass          Range
	Mids          Range
	Treble        Range
	Smoothing     float64
	BeatThreshold float64
}

const (
	// DefaultBars is the cava bar count the extractor expects when unset.
	DefaultBars          = 64
	DefaultSmoothing     = 0.22
	DefaultBeatThreshold = 0.78

	beatGlobalFloor = 0.40

	globalBassWeight   = 0.45
	globalMidsWeight   = 0.35
	globalTrebleWeight = 0.20
)

// DefaultConfig returns the band split used by the cava presets.
func DefaultConfig() Config {
	return Config{
		Bars:          DefaultBars,
		Bass:          Range{Lo: 0.00, Hi: 0.18},
		Mids:          Range{Lo: 0.18, Hi: 0.55},
		Treble:        Range{Lo: 0.55, Hi: 1.00},
		Smoothing:     DefaultSmoothing,
		BeatThreshold: DefaultBeatThreshold,
	}
}

type span struct{ lo, hi int }

// Extractor reduces raw spectrum frames to smoothed Signals.
// It keeps one exponential moving average per published value.
type Extractor struct {
	bars          int
	beatThreshold float64

	bands  [BandCount]span
	bass   span
	mids   span
	treble span

	bandEMA   [BandCount]ema
	bassEMA   ema
	midsEMA   ema
	trebleEMA ema
	globalEMA ema
}

// New creates an Extractor with every derived range resolved up front.
func New(cfg Config) *Extractor {
	if cfg.Bars <= 0 {
		cfg.Bars = DefaultBars
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = DefaultSmoothing
	}

	e := &Extractor{
		bars:          cfg.Bars,
		beatThreshold: cfg.BeatThreshold,
	}

	group := max(1, cfg.Bars/BandCount)
	for i := range e.bands {
		hi := (i + 1) * group
		if i == BandCount-1 {
			hi = cfg.Bars
		}
		e.bands[i] = span{lo: i * group, hi: hi}
		e.bandEMA[i] = ema{alpha: cfg.Smoothing}
	}

	e.bass = newSpan(cfg.Bass, cfg.Bars)
	e.mids = newSpan(cfg.Mids, cfg.Bars)
	e.treble = newSpan(cfg.Treble, cfg.Bars)

	e.bassEMA = ema{alpha: cfg.Smoothing}
	e.midsEMA = ema{alpha: cfg.Smoothing}
	e.trebleEMA = ema{alpha: cfg.Smoothing}
	e.globalEMA = ema{alpha: cfg.Smoothing}
	return e
}

// Bars returns the frame width the extractor was built for.
func (e *Extractor) Bars() int { return e.bars }

// Extract advances every filter by one frame and returns the published signals.
// Bars missing from a short frame are left out of each band average.
func (e *Extractor) Extract(frame []byte) Signals {
	var out Signals
	for i, b := range e.bands {
		out.Bands[i] = clamp(e.bandEMA[i].update(bandEnergy(frame, b)), 0, 1)
	}

	bass := bandEnergy(frame, e.bass)
	mids := bandEnergy(frame, e.mids)
	treble := bandEnergy(frame, e.treble)
	global := bass*globalBassWeight + mids*globalMidsWeight + treble*globalTrebleWeight

	bassS := e.bassEMA.update(bass)
	midsS := e.midsEMA.update(mids)
	trebleS := e.trebleEMA.update(treble)
	globalS := e.globalEMA.update(global)

	out.Bass = clamp(bassS, 0, 1)
	out.Mids = clamp(midsS, 0, 1)
	out.Treble = clamp(trebleS, 0, 1)
	out.Global = clamp(globalS, 0, 1)
	out.Beat = bassS > e.beatThreshold && globalS > beatGlobalFloor
	return out
}

func newSpan(r Range, bars int) span {
	lo, hi := r.indices(bars)
	return span{lo: lo, hi: hi}
}

// bandEnergy is the mean byte value over the span, normalised to [0,1].
func bandEnergy(frame []byte, s span) float64 {
	lo := max(0, s.lo)
	hi := min(len(frame), s.hi)
	if hi <= lo {
		return 0
	}
	sum := 0
	for _, v := range frame[lo:hi] {
		sum += int(v)
	}
	return float64(sum) / float64(hi-lo) / 255.0
}

type ema struct {
	alpha float64
	value float64
}

func (f *ema) update(x float64) float64 {
	f.value = (1-f.alpha)*f.value + f.alpha*x
	return f.value
}

func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
