// Package render draws a one-line truecolor preview of what the terminal is
// being recoloured to, for use on a second terminal or in the status line.
package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/colormath"
)

const resetANSI = "\x1b[0m"

// meterRamp maps a level in [0,1] to a glyph.
var meterRamp = []rune(" ▁▂▃▄▅▆▇█")

// Status is what one preview line shows.
type Status struct {
	Scene   string
	Signals analyzer.Signals
	Fg      colormath.RGB
	Bg      colormath.RGB
	Palette [16]colormath.RGB
	Silent  bool
	Paused  bool
	FPS     float64
}

// Preview renders Status lines no wider than its width.
type Preview struct {
	width   int
	builder strings.Builder
	visible int
}

// NewPreview returns a Preview for a terminal width columns wide; zero or less
// means unlimited.
func NewPreview(width int) *Preview {
	return &Preview{width: width}
}

// Resize changes the column limit.
func (p *Preview) Resize(width int) { p.width = width }

// Width returns the column limit.
func (p *Preview) Width() int { return p.width }

// Line renders s. The result ends with an attribute reset and carries no newline.
func (p *Preview) Line(s Status) string {
	p.builder.Reset()
	p.visible = 0

	p.swatch(s.Bg, s.Fg, " Aa ")
	for _, c := range s.Palette {
		p.swatch(c, c, " ")
	}
	p.text(" ")
	p.text(s.Scene)
	switch {
	case s.Paused:
		p.text(" paused")
	case s.Silent:
		p.text(" silent")
	}

	p.text(" | ")
	for _, v := range s.Signals.Bands {
		p.text(string(meterGlyph(v)))
	}
	p.text(" | bass ")
	p.float(s.Signals.Bass, 2)
	p.text(" mid ")
	p.float(s.Signals.Mids, 2)
	p.text(" treble ")
	p.float(s.Signals.Treble, 2)
	if s.Signals.Beat {
		p.text(" beat")
	}
	if s.FPS > 0 {
		p.text(" fps ")
		p.float(s.FPS, 1)
	}
	p.builder.WriteString(resetANSI)
	return p.builder.String()
}

func (p *Preview) fits(n int) bool {
	return p.width <= 0 || p.visible+n <= p.width
}

func (p *Preview) text(t string) {
	n := utf8.RuneCountInString(t)
	if !p.fits(n) {
		if p.width <= p.visible {
			return
		}
		runes := []rune(t)
		t = string(runes[:p.width-p.visible])
		n = p.width - p.visible
	}
	p.builder.WriteString(t)
	p.visible += n
}

// swatch writes label with bg as background colour and fg as foreground, then resets.
func (p *Preview) swatch(bg, fg colormath.RGB, label string) {
	if !p.fits(utf8.RuneCountInString(label)) {
		return
	}
	p.builder.WriteString(sgrColor(48, bg))
	p.builder.WriteString(sgrColor(38, fg))
	p.text(label)
	p.builder.WriteString(resetANSI)
}

func (p *Preview) float(v float64, precision int) {
	var buf [32]byte
	p.text(string(strconv.AppendFloat(buf[:0], v, 'f', precision, 64)))
}

// sgrColor returns the 24-bit select-graphic-rendition sequence; layer is 38
// for foreground or 48 for background.
func sgrColor(layer int, c colormath.RGB) string {
	var b strings.Builder
	b.Grow(20)
	b.WriteString("\x1b[")
	b.WriteString(strconv.Itoa(layer))
	b.WriteString(";2;")
	b.WriteString(strconv.Itoa(int(c.R)))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(int(c.G)))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(int(c.B)))
	b.WriteByte('m')
	return b.String()
}

func meterGlyph(v float64) rune {
	v = colormath.Clamp01(v)
	return meterRamp[int(v*float64(len(meterRamp)-1)+0.5)]
}
