package engine

import (
	"math"

	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/colormath"
	"github.com/guidoenr/oscviz/internal/scene"
)

// contrastNudge is how far foreground lightness moves when contrast is too low.
const contrastNudge = 0.22

// Enforce applies the scene constraints to frame and returns a new frame; the
// input palette map is never modified. The steps run in a fixed order: the
// background is settled first because the contrast fix measures against it.
func Enforce(frame DesiredFrame, c scene.Constraints, b baseline.Baseline, prevFg, prevBg *colormath.RGB) DesiredFrame {
	var out DesiredFrame

	if frame.Bg != nil {
		bg := clampLightness(*frame.Bg, c.MaxBgLightness)
		if prevBg != nil {
			bg = colormath.LimitStep(*prevBg, bg, c.DeltaLimit)
		}
		out.Bg = &bg
	}

	if frame.Fg != nil {
		fg := clampSaturation(*frame.Fg, c.MaxFgSaturation)
		ref := firstColor(out.Bg, prevBg, b.Background)
		fg = ensureContrast(fg, ref, c.MinContrastDelta)
		if prevFg != nil {
			fg = colormath.LimitStep(*prevFg, fg, c.DeltaLimit)
		}
		out.Fg = &fg
	}

	if len(frame.Palette) > 0 {
		out.Palette = make(map[int]colormath.RGB, len(frame.Palette))
		for i, col := range frame.Palette {
			if !c.Protect.Has(i) {
				out.Palette[i] = col
			}
		}
	}
	return out
}

// clampLightness leaves colours already within bounds untouched so repeated
// enforcement does not drift through HSL round trips.
func clampLightness(c colormath.RGB, limit float64) colormath.RGB {
	h, s, l := colormath.ToHSL(c)
	if l <= limit {
		return c
	}
	return colormath.FromHSL(h, s, limit)
}

func clampSaturation(c colormath.RGB, limit float64) colormath.RGB {
	h, s, l := colormath.ToHSL(c)
	if s <= limit {
		return c
	}
	return colormath.FromHSL(h, limit, l)
}

func ensureContrast(fg, bg colormath.RGB, minDelta float64) colormath.RGB {
	fgLuma, bgLuma := colormath.Luma(fg), colormath.Luma(bg)
	if math.Abs(fgLuma-bgLuma) >= minDelta {
		return fg
	}
	h, s, l := colormath.ToHSL(fg)
	if fgLuma >= bgLuma {
		l = colormath.Clamp01(l + contrastNudge)
	} else {
		l = colormath.Clamp01(l - contrastNudge)
	}
	return colormath.FromHSL(h, s, l)
}
