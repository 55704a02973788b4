package app

import "time"

// silenceGate reports when a level has stayed below a threshold long enough.
type silenceGate struct {
	threshold float64
	hold      time.Duration

	below  bool
	since  time.Time
	silent bool
}

func newSilenceGate(threshold float64, hold time.Duration) *silenceGate {
	return &silenceGate{threshold: threshold, hold: hold}
}

// update feeds one level reading and reports whether this reading is the one
// that made the gate go silent. Any reading at or above the threshold reopens it.
func (g *silenceGate) update(level float64, now time.Time) (entered bool) {
	if level >= g.threshold {
		g.below = false
		g.silent = false
		return false
	}
	if !g.below {
		g.below = true
		g.since = now
	}
	if g.silent || now.Sub(g.since) < g.hold {
		return false
	}
	g.silent = true
	return true
}

func (g *silenceGate) isSilent() bool { return g.silent }
