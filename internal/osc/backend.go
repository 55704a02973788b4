package osc

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/guidoenr/oscviz/internal/colormath"
	"github.com/guidoenr/oscviz/internal/engine"
)

// Channels selects which terminal colour slots the backend may touch.
type Channels uint8

const (
	Foreground Channels = 1 << iota
	Background
	Palette

	AllChannels = Foreground | Background | Palette
)

// Has reports whether every channel in c is enabled.
func (ch Channels) Has(c Channels) bool { return ch&c == c }

func (ch Channels) String() string {
	var parts []string
	if ch.Has(Foreground) {
		parts = append(parts, "fg")
	}
	if ch.Has(Background) {
		parts = append(parts, "bg")
	}
	if ch.Has(Palette) {
		parts = append(parts, "palette")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// Options configures a Backend.
type Options struct {
	Channels   Channels
	Terminator Terminator
	// FPSCap limits how often Apply may emit; zero or less means uncapped.
	FPSCap float64
	// MinDelta is the Chebyshev distance a channel must move before it is resent.
	MinDelta int
}

// State is everything the backend remembers between ticks.
type State struct {
	Fg       colormath.RGB
	Bg       colormath.RGB
	Palette  [16]colormath.RGB
	LastEmit time.Time
}

// NewState seeds the last-sent cache with the colours the terminal starts with.
func NewState(fg, bg colormath.RGB, palette [16]colormath.RGB) State {
	return State{Fg: fg, Bg: bg, Palette: palette}
}

// Plan computes the bytes to send for frame and the state that results once
// they are written. ok is false when the FPS cap drops the whole call.
func Plan(state State, opts Options, frame engine.DesiredFrame, now time.Time) (payload []byte, next State, ok bool) {
	if opts.FPSCap > 0 && !state.LastEmit.IsZero() {
		minInterval := time.Duration(float64(time.Second) / opts.FPSCap)
		if now.Sub(state.LastEmit) < minInterval {
			return nil, state, false
		}
	}

	next = state
	term := opts.Terminator

	if opts.Channels.Has(Background) && frame.Bg != nil {
		if colormath.Distance(state.Bg, *frame.Bg) >= opts.MinDelta {
			payload = AppendBackground(payload, *frame.Bg, term)
			next.Bg = *frame.Bg
		}
	}

	if opts.Channels.Has(Foreground) && frame.Fg != nil {
		if colormath.Distance(state.Fg, *frame.Fg) >= opts.MinDelta {
			payload = AppendForeground(payload, *frame.Fg, term)
			next.Fg = *frame.Fg
		}
	}

	if opts.Channels.Has(Palette) && len(frame.Palette) > 0 {
		indices := make([]int, 0, len(frame.Palette))
		for i := range frame.Palette {
			if i >= 0 && i < len(state.Palette) {
				indices = append(indices, i)
			}
		}
		sort.Ints(indices)
		for _, i := range indices {
			c := frame.Palette[i]
			if colormath.Distance(state.Palette[i], c) >= opts.MinDelta {
				payload = AppendPalette(payload, i, c, term)
				next.Palette[i] = c
			}
		}
	}

	next.LastEmit = now
	return payload, next, true
}

// Backend writes the minimal set of colour sequences needed to reach each frame.
// It is owned by a single loop and is not safe for concurrent use.
type Backend struct {
	w     io.Writer
	opts  Options
	seed  State
	state State
	now   func() time.Time
}

// NewBackend returns a Backend writing to w whose cache starts at seed.
func NewBackend(w io.Writer, opts Options, seed State) *Backend {
	if opts.Terminator == Auto || opts.Terminator == "" {
		opts.Terminator = BEL
	}
	return &Backend{w: w, opts: opts, seed: seed, state: seed, now: time.Now}
}

// Options returns the effective options.
func (b *Backend) Options() Options { return b.opts }

// State returns a copy of the last-sent cache.
func (b *Backend) State() State { return b.state }

// Apply sends whatever part of frame differs enough from the cache, stamped with the current time.
func (b *Backend) Apply(frame engine.DesiredFrame) (int, error) {
	return b.ApplyAt(b.now(), frame)
}

// ApplyAt is Apply with an explicit timestamp. Every changed channel goes out
// in a single write; the cache only advances when that write succeeds.
func (b *Backend) ApplyAt(now time.Time, frame engine.DesiredFrame) (int, error) {
	payload, next, ok := Plan(b.state, b.opts, frame, now)
	if !ok {
		return 0, nil
	}
	if len(payload) > 0 {
		n, err := b.w.Write(payload)
		if err != nil {
			return n, fmt.Errorf("write colours: %w", err)
		}
	}
	b.state = next
	return len(payload), nil
}

// Reset restores the terminal defaults regardless of the cache, and points the
// cache back at the starting colours.
func (b *Backend) Reset() error {
	payload := AppendReset(nil, b.opts.Terminator)
	if _, err := b.w.Write(payload); err != nil {
		return fmt.Errorf("write reset: %w", err)
	}
	lastEmit := b.state.LastEmit
	b.state = b.seed
	b.state.LastEmit = lastEmit
	return nil
}
