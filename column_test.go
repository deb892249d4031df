package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsOf(cells []*Cell) []int {
	rows := make([]int, len(cells))
	for i, c := range cells {
		rows[i] = c.Row()
	}
	return rows
}

func TestColumn_Bounds(t *testing.T) {
	ws, _ := newTestSheet(t)

	_, err := ws.Column(0)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = ws.Column(MaxColumns + 1)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	c, err := ws.Column(MaxColumns)
	require.NoError(t, err)
	assert.Equal(t, "XFD", c.ColumnLetter())

	small, _ := newTestSheet(t, WithMaxColumns(10))
	_, err = small.Column(11)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = small.ColumnByLetter("K")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestColumnByLetter(t *testing.T) {
	ws, _ := newTestSheet(t)

	c, err := ws.ColumnByLetter("aa")
	require.NoError(t, err)
	assert.Equal(t, 27, c.ColumnNumber())
	assert.Equal(t, "AA", c.String())

	_, err = ws.ColumnByLetter("A1")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = ws.ColumnByLetter("")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestColumn_Cells(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 2)

	cells, err := c.Cells("1,3:5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5}, rowsOf(cells))
	for _, cell := range cells {
		assert.Equal(t, 2, cell.Col())
	}

	cells, err = c.Cells(" 7 : 8 ")
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, rowsOf(cells))

	for _, bad := range []string{"a", "5:3", "", "0", "1,,2", "1:2:3"} {
		_, err := c.Cells(bad)
		assert.ErrorIs(t, err, ErrInvalidRangeSpec, "spec %q", bad)
	}
}

func TestColumn_CellsBetween(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 1)

	cells, err := c.CellsBetween(2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, rowsOf(cells))

	_, err = c.CellsBetween(4, 2)
	assert.ErrorIs(t, err, ErrInvalidRangeSpec)
}

func TestColumn_CellsUsed(t *testing.T) {
	ws, _ := newTestSheet(t)
	require.NoError(t, ws.SetValue(5, 3, "five"))
	require.NoError(t, ws.SetValue(2, 3, 2))
	require.NoError(t, ws.SetFormula(9, 3, "=C2*2"))
	require.NoError(t, ws.Cell(7, 3).SetFont(Font{Family: "Arial", Size: 10, Bold: true}))
	require.NoError(t, ws.SetValue(1, 4, "other column"))

	used := column(t, ws, 3).CellsUsed()
	assert.Equal(t, []int{2, 5, 9}, rowsOf(used))
	assert.Equal(t, "C2*2", used[2].Formula())
	assert.Equal(t, CellFormula, used[2].Type())
}

func TestColumn_SetWidth(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 2)
	assert.Equal(t, DefaultColumnWidth, c.Width())

	require.NoError(t, c.SetWidth(30))
	assert.Equal(t, 30.0, c.Width())

	assert.ErrorIs(t, c.SetWidth(-1), ErrInvalidRange)
	assert.ErrorIs(t, c.SetWidth(256), ErrInvalidRange)
	assert.Equal(t, 30.0, c.Width())

	require.NoError(t, c.SetWidth(0))
	assert.Equal(t, 0.0, c.Width())
}

func TestColumn_AsRangeFollowsContent(t *testing.T) {
	ws, _ := newTestSheet(t)
	fillRow(t, ws, "a", "b", "c")
	b := column(t, ws, 2)
	r, err := b.AsRange()
	require.NoError(t, err)

	require.NoError(t, ws.InsertColumns(1, 2))

	ref, err := r.Address()
	require.NoError(t, err)
	assert.Equal(t, 4, ref.First.Col)
	assert.Equal(t, 4, ref.Last.Col)
	assert.Equal(t, 1, ref.First.Row)
	assert.Equal(t, MaxRows, ref.Last.Row)

	used, err := r.CellsUsed()
	require.NoError(t, err)
	require.Len(t, used, 1)
	assert.Equal(t, "b", used[0].Value())

	// The view stays at ordinal 2, which is now one of the inserted columns.
	assert.Equal(t, 2, b.ColumnNumber())
	assert.Empty(t, b.CellsUsed())
}

func TestColumn_InsertBeforeAfter(t *testing.T) {
	ws, _ := newTestSheet(t)
	fillRow(t, ws, "a", "b", "c")
	b := column(t, ws, 2)

	after, err := b.InsertColumnsAfter(2)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, 3, after[0].ColumnNumber())
	assert.Equal(t, 4, after[1].ColumnNumber())
	assert.Equal(t, "c", ws.Cell(1, 5).Value())

	before, err := b.InsertColumnsBefore(1)
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, 2, before[0].ColumnNumber())
	assert.Equal(t, "b", ws.Cell(1, 3).Value())
	assert.True(t, b.Cell(1).IsEmpty())

	assert.Equal(t, 6, ws.ColumnCount())
}

func TestColumn_Delete(t *testing.T) {
	ws, _ := newTestSheet(t)
	fillRow(t, ws, "a", "b", "c")

	require.NoError(t, column(t, ws, 1).Delete())
	assert.Equal(t, "b", ws.Cell(1, 1).Value())
	assert.Equal(t, "c", ws.Cell(1, 2).Value())
	assert.Equal(t, 2, ws.ColumnCount())
}

func TestCell_ValueAndFormula(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := ws.Cell(2, 2)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "Sheet1!B2", c.String())

	require.NoError(t, c.SetFormula("=A1+1"))
	assert.Equal(t, "A1+1", c.Formula())
	assert.Nil(t, c.Value())
	require.NoError(t, c.SetCachedValue(3.0))
	assert.Equal(t, 3.0, c.Value())
	assert.Equal(t, "3", c.Text())

	require.NoError(t, c.SetValue("plain"))
	assert.Empty(t, c.Formula())
	assert.Equal(t, CellString, c.Type())
	assert.Error(t, c.SetCachedValue(1))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, DefaultFont, c.Font())

	assert.ErrorIs(t, ws.Cell(0, 1).SetValue(1), ErrInvalidAddress)
	assert.ErrorIs(t, ws.SetFormula(1, MaxColumns+1, "1"), ErrInvalidAddress)
}
