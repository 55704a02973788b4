// Package osc encodes terminal colour-control sequences and owns the
// diffing, rate-limited writer that sends them.
package osc

import (
	"fmt"
	"strings"

	"github.com/guidoenr/oscviz/internal/colormath"
)

// Terminator ends an operating system command.
type Terminator string

const (
	// ST is the two-byte string terminator ESC \.
	ST Terminator = "st"
	// BEL is the one-byte terminator 0x07, understood by more terminals.
	BEL Terminator = "bel"
	// Auto defers the choice to whatever baseline discovery reports.
	Auto Terminator = "auto"
)

// ParseTerminator accepts st, bel or auto (case-insensitive).
func ParseTerminator(s string) (Terminator, error) {
	switch t := Terminator(strings.ToLower(strings.TrimSpace(s))); t {
	case ST, BEL, Auto:
		return t, nil
	case "":
		return Auto, nil
	default:
		return "", fmt.Errorf("unknown terminator %q (want st, bel or auto)", s)
	}
}

// Bytes returns the terminator's wire form. Anything but ST encodes as BEL.
func (t Terminator) Bytes() string {
	if t == ST {
		return "\x1b\\"
	}
	return "\x07"
}

const (
	oscPrefix = "\x1b]"

	codePalette      = 4
	codeForeground   = 10
	codeBackground   = 11
	codeResetPalette = 104
	codeResetFg      = 110
	codeResetBg      = 111
	codeResetCursor  = 112
)

func appendOSC(dst []byte, body string, term Terminator) []byte {
	dst = append(dst, oscPrefix...)
	dst = append(dst, body...)
	return append(dst, term.Bytes()...)
}

// AppendForeground appends the "set default foreground" sequence.
func AppendForeground(dst []byte, c colormath.RGB, term Terminator) []byte {
	return appendOSC(dst, fmt.Sprintf("%d;%s", codeForeground, c.Hex()), term)
}

// AppendBackground appends the "set default background" sequence.
func AppendBackground(dst []byte, c colormath.RGB, term Terminator) []byte {
	return appendOSC(dst, fmt.Sprintf("%d;%s", codeBackground, c.Hex()), term)
}

// AppendPalette appends the "set palette entry" sequence for index i.
func AppendPalette(dst []byte, i int, c colormath.RGB, term Terminator) []byte {
	return appendOSC(dst, fmt.Sprintf("%d;%d;%s", codePalette, i, c.Triplet()), term)
}

// AppendReset appends the four restore-default sequences: palette, foreground,
// background and cursor colour.
func AppendReset(dst []byte, term Terminator) []byte {
	for _, code := range []int{codeResetPalette, codeResetFg, codeResetBg, codeResetCursor} {
		dst = appendOSC(dst, fmt.Sprintf("%d", code), term)
	}
	return dst
}
