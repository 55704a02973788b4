// Package params holds the runtime settings shared by the CLI and the app,
// with their defaults and normalisation.
package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/osc"
	"github.com/guidoenr/oscviz/internal/scene"
)

// SilenceMode decides what happens when the music stops.
type SilenceMode string

const (
	// SilenceReset restores the terminal defaults once.
	SilenceReset SilenceMode = "reset"
	// SilenceHold leaves the last colours on screen.
	SilenceHold SilenceMode = "hold"
)

// Input selects where spectrum frames come from.
type Input string

const (
	InputFIFO      Input = "fifo"
	InputLive      Input = "live"
	InputSynthetic Input = "synthetic"
)

// Settings is the complete runtime configuration.
type Settings struct {
	Input      Input
	FIFOPath   string
	Device     string
	BufferSize int

	Bars          int
	Bass          analyzer.Range
	Mids          analyzer.Range
	Treble        analyzer.Range
	Smoothing     float64
	BeatThreshold float64

	Scene      string
	TTY        string
	Terminator string
	FPS        float64
	MinDelta   int
	NoFg       bool
	NoBg       bool
	NoPalette  bool

	BaselineFg string
	BaselineBg string

	SilenceThreshold float64
	SilenceDuration  time.Duration
	SilenceMode      SilenceMode

	Keys    bool
	Preview bool
	WebAddr string
	Profile string
}

// Defaults returns the settings used when no flag overrides them.
func Defaults() Settings {
	return Settings{
		Input:            InputFIFO,
		FIFOPath:         "/tmp/cava.fifo",
		Bars:             analyzer.DefaultBars,
		Bass:             analyzer.Range{Lo: 0.00, Hi: 0.18},
		Mids:             analyzer.Range{Lo: 0.18, Hi: 0.55},
		Treble:           analyzer.Range{Lo: 0.55, Hi: 1.00},
		Smoothing:        analyzer.DefaultSmoothing,
		BeatThreshold:    analyzer.DefaultBeatThreshold,
		Scene:            scene.DefaultName,
		TTY:              "/dev/tty",
		Terminator:       string(osc.Auto),
		FPS:              20,
		MinDelta:         4,
		SilenceThreshold: 0.04,
		SilenceDuration:  600 * time.Millisecond,
		SilenceMode:      SilenceReset,
		Keys:             true,
	}
}

// Normalize repairs out-of-range values in place of rejecting them.
func (s *Settings) Normalize() {
	if s.Bars <= 0 {
		s.Bars = analyzer.DefaultBars
	}
	s.Bass = s.Bass.Normalize()
	s.Mids = s.Mids.Normalize()
	s.Treble = s.Treble.Normalize()
	if s.Smoothing <= 0 || s.Smoothing > 1 || math.IsNaN(s.Smoothing) {
		s.Smoothing = analyzer.DefaultSmoothing
	}
	if s.FPS < 0 || math.IsNaN(s.FPS) {
		s.FPS = 0
	}
	if s.MinDelta < 0 {
		s.MinDelta = 0
	}
	if s.SilenceDuration < 0 {
		s.SilenceDuration = 0
	}
	switch s.SilenceMode {
	case SilenceReset, SilenceHold:
	default:
		s.SilenceMode = SilenceReset
	}
	s.Scene = strings.ToLower(strings.TrimSpace(s.Scene))
	if s.Scene == "" {
		s.Scene = scene.DefaultName
	}
}

// Validate reports settings that cannot be repaired.
func (s Settings) Validate() error {
	var errs []error
	switch s.Input {
	case InputFIFO, InputLive, InputSynthetic:
	default:
		errs = append(errs, fmt.Errorf("unknown input %q (want fifo, live or synthetic)", s.Input))
	}
	if _, err := osc.ParseTerminator(s.Terminator); err != nil {
		errs = append(errs, err)
	}
	if _, err := scene.Lookup(s.Scene); err != nil {
		errs = append(errs, err)
	}
	if s.Channels() == 0 {
		errs = append(errs, errors.New("all output channels are disabled"))
	}
	return errors.Join(errs...)
}

// AnalyzerConfig maps the settings onto the signal extractor.
func (s Settings) AnalyzerConfig() analyzer.Config {
	return analyzer.Config{
		Bars:          s.Bars,
		Bass:          s.Bass,
		Mids:          s.Mids,
		Treble:        s.Treble,
		Smoothing:     s.Smoothing,
		BeatThreshold: s.BeatThreshold,
	}
}

// Channels returns the enabled output channels.
func (s Settings) Channels() osc.Channels {
	ch := osc.AllChannels
	if s.NoFg {
		ch &^= osc.Foreground
	}
	if s.NoBg {
		ch &^= osc.Background
	}
	if s.NoPalette {
		ch &^= osc.Palette
	}
	return ch
}

// ParseRange reads "lo:hi" with both ends as fractions of the bar count.
func ParseRange(text string) (analyzer.Range, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(text), ":")
	if !ok {
		return analyzer.Range{}, fmt.Errorf("invalid range %q: want lo:hi", text)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return analyzer.Range{}, fmt.Errorf("invalid range %q: %w", text, err)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return analyzer.Range{}, fmt.Errorf("invalid range %q: %w", text, err)
	}
	return analyzer.Range{Lo: a, Hi: b}, nil
}

// RangeValue adapts an analyzer.Range to pflag.Value.
type RangeValue struct{ r *analyzer.Range }

// NewRangeValue binds v to r.
func NewRangeValue(r *analyzer.Range) *RangeValue { return &RangeValue{r: r} }

func (v *RangeValue) String() string {
	if v == nil || v.r == nil {
		return ""
	}
	return fmt.Sprintf("%.2f:%.2f", v.r.Lo, v.r.Hi)
}

func (v *RangeValue) Set(text string) error {
	r, err := ParseRange(text)
	if err != nil {
		return err
	}
	*v.r = r
	return nil
}

func (v *RangeValue) Type() string { return "range" }
