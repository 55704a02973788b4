package baseline

import (
	"testing"

	"github.com/guidoenr/oscviz/internal/colormath"
)

func TestFallback(t *testing.T) {
	b := Fallback()
	if b.Background.Hex() != "#121212" || b.Foreground.Hex() != "#d0d0d0" {
		t.Fatalf("unexpected fallback fg=%s bg=%s", b.Foreground, b.Background)
	}
	if b.Palette[1] != (colormath.RGB{R: 0xcd}) || b.Palette[15] != (colormath.RGB{R: 0xff, G: 0xff, B: 0xff}) {
		t.Fatalf("unexpected palette %v", b.Palette)
	}
}

func TestFallbackIsACopy(t *testing.T) {
	a := Fallback()
	a.Palette[0] = colormath.RGB{R: 1}
	if Fallback().Palette[0] != (colormath.RGB{}) {
		t.Fatalf("Fallback shares palette storage")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1a2B3c")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c != (colormath.RGB{R: 0x1a, G: 0x2b, B: 0x3c}) {
		t.Fatalf("ParseHex=%v", c)
	}
	for _, bad := range []string{"", "#12345", "#zzzzzz", "1234567"} {
		if _, err := ParseHex(bad); err == nil {
			t.Fatalf("ParseHex(%q) should fail", bad)
		}
	}
}

func TestWithOverrides(t *testing.T) {
	b, err := Fallback().WithOverrides("", "#000000")
	if err != nil {
		t.Fatalf("WithOverrides: %v", err)
	}
	if b.Background != (colormath.RGB{}) || b.Foreground != Fallback().Foreground {
		t.Fatalf("overrides not applied: %+v", b)
	}
	if _, err := Fallback().WithOverrides("nope", ""); err == nil {
		t.Fatalf("expected error for bad foreground")
	}
}
