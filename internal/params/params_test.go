package params

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/osc"
)

func TestDefaultsAreValid(t *testing.T) {
	s := Defaults()
	s.Normalize()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if s.SilenceDuration != 600*time.Millisecond || s.SilenceThreshold != 0.04 {
		t.Fatalf("unexpected silence defaults: %v %v", s.SilenceDuration, s.SilenceThreshold)
	}
	cfg := s.AnalyzerConfig()
	if cfg.Bars != 64 || cfg.Smoothing != 0.22 || cfg.Mids != (analyzer.Range{Lo: 0.18, Hi: 0.55}) {
		t.Fatalf("unexpected analyzer config: %+v", cfg)
	}
}

func TestNormalizeRepairs(t *testing.T) {
	s := Settings{
		Bars:        -3,
		Bass:        analyzer.Range{Lo: 0.5, Hi: -1},
		Smoothing:   7,
		FPS:         -5,
		MinDelta:    -1,
		SilenceMode: "sleep",
		Scene:       "  PUNCHY ",
	}
	s.Normalize()
	if s.Bars != 64 || s.Smoothing != 0.22 || s.FPS != 0 || s.MinDelta != 0 {
		t.Fatalf("numeric repair failed: %+v", s)
	}
	if s.Bass != (analyzer.Range{Lo: 0, Hi: 0.5}) {
		t.Fatalf("range not normalised: %+v", s.Bass)
	}
	if s.SilenceMode != SilenceReset || s.Scene != "punchy" {
		t.Fatalf("mode=%q scene=%q", s.SilenceMode, s.Scene)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	s := Defaults()
	s.Input = "radio"
	s.Terminator = "nul"
	s.Scene = "disco"
	s.NoFg, s.NoBg, s.NoPalette = true, true, true
	err := s.Validate()
	if err == nil {
		t.Fatalf("expected errors")
	}
	for _, want := range []string{"radio", "nul", "disco", "disabled"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestChannels(t *testing.T) {
	s := Defaults()
	s.NoBg = true
	if ch := s.Channels(); ch != osc.Foreground|osc.Palette {
		t.Fatalf("channels=%v", ch)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    analyzer.Range
		wantErr bool
	}{
		{"0:0.18", analyzer.Range{Lo: 0, Hi: 0.18}, false},
		{" 0.2 : 0.6 ", analyzer.Range{Lo: 0.2, Hi: 0.6}, false},
		{"0.9:0.1", analyzer.Range{Lo: 0.9, Hi: 0.1}, false},
		{"0.5", analyzer.Range{}, true},
		{"a:b", analyzer.Range{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseRange(%q) err=%v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRange(%q)=%+v want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRangeValueBindsToFlags(t *testing.T) {
	s := Defaults()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(NewRangeValue(&s.Treble), "treble", "treble range")
	if err := fs.Parse([]string{"--treble", "0.6:0.95"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Treble != (analyzer.Range{Lo: 0.6, Hi: 0.95}) {
		t.Fatalf("treble=%+v", s.Treble)
	}
	if got := fs.Lookup("treble").Value.String(); got != "0.60:0.95" {
		t.Fatalf("String()=%q", got)
	}
	if err := fs.Parse([]string{"--treble", "nope"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
