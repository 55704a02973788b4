package engine

import "github.com/guidoenr/oscviz/internal/colormath"

// DesiredFrame is what one tick would like the terminal to show. A nil colour
// or a missing palette index means "leave that slot alone".
type DesiredFrame struct {
	Fg      *colormath.RGB
	Bg      *colormath.RGB
	Palette map[int]colormath.RGB
}

// Empty reports whether the frame asks for no change at all.
func (f DesiredFrame) Empty() bool {
	return f.Fg == nil && f.Bg == nil && len(f.Palette) == 0
}

func ptr(c colormath.RGB) *colormath.RGB { return &c }
