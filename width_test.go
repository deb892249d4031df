package xlgrid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// charMeasurer counts bytes, doubled for bold text.
var charMeasurer = MeasurerFunc(func(text string, font Font) float64 {
	w := float64(len(text))
	if font.Bold {
		w *= 2
	}
	return w
})

func newWidthSheet(t *testing.T) *Worksheet {
	t.Helper()
	ws, _ := newTestSheet(t,
		WithMeasurer(charMeasurer),
		WithWidthPadding(1),
		WithWidthBounds(1, 50),
	)
	return ws
}

func TestAdjustToContents(t *testing.T) {
	ws := newWidthSheet(t)
	require.NoError(t, ws.SetValue(1, 2, "abc"))
	require.NoError(t, ws.SetValue(2, 2, "abcdefg"))
	require.NoError(t, ws.SetValue(3, 2, 12.5))
	c := column(t, ws, 2)

	require.NoError(t, c.AdjustToContents())
	assert.Equal(t, 8.0, c.Width())

	require.NoError(t, c.AdjustToContents())
	assert.Equal(t, 8.0, c.Width(), "second fit changes nothing")
}

func TestAdjustToContents_Idempotent(t *testing.T) {
	ws, _ := newTestSheet(t)
	fillRow(t, ws, "header", "数量と単価", 1234.5, true)
	require.NoError(t, ws.SetValue(2, 1, "a\nsecond, longer line"))
	require.NoError(t, ws.Cell(1, 2).SetFont(Font{Family: "Calibri", Size: 14, Bold: true}))
	_, err := ws.MergeCells("C3:D3")
	require.NoError(t, err)
	require.NoError(t, ws.SetValue(3, 3, "merged across two"))

	for n := 1; n <= 5; n++ {
		c := column(t, ws, n)
		require.NoError(t, c.AdjustToContents())
		first := c.Width()
		require.NoError(t, c.AdjustToContents())
		assert.Equal(t, first, c.Width(), "column %s", c.ColumnLetter())
	}
}

func TestAdjustToContents_BoldFont(t *testing.T) {
	ws := newWidthSheet(t)
	require.NoError(t, ws.SetValue(1, 1, "abcd"))
	require.NoError(t, ws.SetValue(2, 1, "xyz"))
	require.NoError(t, ws.Cell(2, 1).SetFont(Font{Family: "Calibri", Size: 11, Bold: true}))
	c := column(t, ws, 1)

	require.NoError(t, c.AdjustToContents())
	assert.Equal(t, 7.0, c.Width())
}

func TestAdjustToContents_DefaultFontBold(t *testing.T) {
	ws, _ := newTestSheet(t,
		WithMeasurer(charMeasurer),
		WithWidthPadding(0),
		WithDefaultFont(Font{Family: "Arial", Size: 10, Bold: true}),
	)
	require.NoError(t, ws.SetValue(1, 1, "abc"))
	c := column(t, ws, 1)

	require.NoError(t, c.AdjustToContents())
	assert.Equal(t, 6.0, c.Width())
}

func TestAdjustToContents_EmptyColumnKeepsWidth(t *testing.T) {
	ws := newWidthSheet(t)
	c := column(t, ws, 3)
	require.NoError(t, c.SetWidth(20))

	require.NoError(t, c.AdjustToContents())
	assert.Equal(t, 20.0, c.Width())

	d := column(t, ws, 4)
	require.NoError(t, d.AdjustToContents())
	assert.Equal(t, DefaultColumnWidth, d.Width())
	assert.Equal(t, 3, ws.ColumnCount(), "nothing measured, no record created")
}

func TestAdjustToContents_RowRange(t *testing.T) {
	ws := newWidthSheet(t)
	require.NoError(t, ws.SetValue(1, 1, "a much longer header"))
	require.NoError(t, ws.SetValue(2, 1, "ab"))
	require.NoError(t, ws.SetValue(3, 1, "abcd"))
	require.NoError(t, ws.SetValue(4, 1, "abcdefghij"))
	c := column(t, ws, 1)

	require.NoError(t, c.AdjustToContentsRange(2, 3))
	assert.Equal(t, 5.0, c.Width())

	require.NoError(t, c.AdjustToContentsFrom(2))
	assert.Equal(t, 11.0, c.Width())

	assert.ErrorIs(t, c.AdjustToContentsRange(5, 3), ErrInvalidRange)
	assert.ErrorIs(t, c.AdjustToContentsRange(0, 3), ErrInvalidRange)
	assert.Equal(t, 11.0, c.Width())
}

func TestAdjustToContents_Clamped(t *testing.T) {
	ws := newWidthSheet(t)
	require.NoError(t, ws.SetValue(1, 1, strings.Repeat("x", 80)))
	require.NoError(t, ws.SetValue(1, 2, ""))
	require.NoError(t, ws.SetValue(1, 3, "."))
	require.NoError(t, ws.SetValue(1, 4, true))

	ceiling := column(t, ws, 1)
	require.NoError(t, ceiling.AdjustToContents())
	assert.Equal(t, 50.0, ceiling.Width())

	ws2, _ := newTestSheet(t, WithMeasurer(charMeasurer), WithWidthPadding(0), WithWidthBounds(3, 50))
	require.NoError(t, ws2.SetValue(1, 1, "."))
	floor := column(t, ws2, 1)
	require.NoError(t, floor.AdjustToContents())
	assert.Equal(t, 3.0, floor.Width())

	boolean := column(t, ws, 4)
	require.NoError(t, boolean.AdjustToContents())
	assert.Equal(t, 5.0, boolean.Width(), "TRUE plus padding")
}

func TestAdjustToContents_SkipsWideMerges(t *testing.T) {
	ws := newWidthSheet(t)
	require.NoError(t, ws.SetValue(1, 1, "a title spanning three columns"))
	require.NoError(t, ws.SetValue(2, 1, "abc"))
	require.NoError(t, ws.SetValue(3, 1, "tall merge"))
	_, err := ws.MergeCells("A1:C1")
	require.NoError(t, err)
	_, err = ws.MergeCells("A3:A4")
	require.NoError(t, err)
	c := column(t, ws, 1)

	require.NoError(t, c.AdjustToContents())
	assert.Equal(t, 11.0, c.Width(), "a single-column merge is still measured")
}

func TestAdjustToContents_CustomRenderer(t *testing.T) {
	ws, _ := newTestSheet(t,
		WithMeasurer(charMeasurer),
		WithWidthPadding(0),
		WithRenderer(func(cd *CellData) string {
			if v, ok := cd.Value.(float64); ok && v > 1000 {
				return "#######"
			}
			return RenderValue(cd)
		}),
	)
	require.NoError(t, ws.SetValue(1, 1, 123456.0))
	c := column(t, ws, 1)

	require.NoError(t, c.AdjustToContents())
	assert.Equal(t, 7.0, c.Width())
}
