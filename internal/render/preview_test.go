package render

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
)

var sgrPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func visibleWidth(s string) int {
	return utf8.RuneCountInString(sgrPattern.ReplaceAllString(s, ""))
}

func sampleStatus() Status {
	b := baseline.Fallback()
	s := analyzer.Signals{Bass: 0.5, Mids: 0.25, Treble: 1, Beat: true}
	s.Bands[0] = 1
	return Status{Scene: "mood", Signals: s, Fg: b.Foreground, Bg: b.Background, Palette: b.Palette, FPS: 20}
}

func TestPreviewLineContent(t *testing.T) {
	line := NewPreview(0).Line(sampleStatus())
	for _, want := range []string{
		"\x1b[48;2;18;18;18m\x1b[38;2;208;208;208m Aa ",
		"\x1b[48;2;205;0;0m",
		" mood | █",
		"bass 0.50 mid 0.25 treble 1.00 beat fps 20.0",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, resetANSI) {
		t.Fatalf("line must end with a reset")
	}
}

func TestPreviewRespectsWidth(t *testing.T) {
	p := NewPreview(40)
	for _, width := range []int{40, 25, 3, 1} {
		p.Resize(width)
		if got := visibleWidth(p.Line(sampleStatus())); got > width {
			t.Fatalf("width %d: rendered %d columns", width, got)
		}
	}
}

func TestPreviewStates(t *testing.T) {
	s := sampleStatus()
	s.Silent = true
	if line := NewPreview(0).Line(s); !strings.Contains(line, " silent") {
		t.Fatalf("silent state missing: %q", line)
	}
	s.Paused = true
	if line := NewPreview(0).Line(s); !strings.Contains(line, " paused") || strings.Contains(line, " silent") {
		t.Fatalf("paused should take precedence: %q", line)
	}
}

func TestMeterGlyph(t *testing.T) {
	if meterGlyph(-1) != ' ' || meterGlyph(0) != ' ' || meterGlyph(1) != '█' || meterGlyph(2) != '█' {
		t.Fatalf("meter ramp ends wrong")
	}
	if got := sgrColor(38, colormath.RGB{R: 1, G: 2, B: 3}); got != "\x1b[38;2;1;2;3m" {
		t.Fatalf("sgrColor=%q", got)
	}
}
