package xlgrid

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Measurer measures rendered text in column width units (the width of one
// digit of the default font).
type Measurer interface {
	MeasureWidth(text string, font Font) float64
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string, font Font) float64

// MeasureWidth calls f(text, font).
func (f MeasurerFunc) MeasureWidth(text string, font Font) float64 { return f(text, font) }

// RuneWidthMeasurer approximates text width from terminal cell widths:
// wide East Asian runes count as two units, combining marks as zero. The
// result is scaled by font size relative to DefaultFont and widened for
// bold text. Multi-line text measures as its widest line.
type RuneWidthMeasurer struct {
	cond *runewidth.Condition
}

// NewRuneWidthMeasurer creates a measurer that treats ambiguous-width runes as narrow.
func NewRuneWidthMeasurer() *RuneWidthMeasurer {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return &RuneWidthMeasurer{cond: cond}
}

// MeasureWidth returns the width of the widest line of text.
func (m *RuneWidthMeasurer) MeasureWidth(text string, font Font) float64 {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := m.cond.StringWidth(line); w > widest {
			widest = w
		}
	}
	width := float64(widest)
	if font.Size > 0 {
		width *= font.Size / DefaultFont.Size
	}
	if font.Bold {
		width *= 1.1
	}
	return width
}
