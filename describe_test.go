package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Empty(t *testing.T) {
	ws := NewWorksheet("Empty")
	assert.Equal(t, "Sheet: Empty (0 columns, 0 rows)\n", ws.Describe())
}

func TestDescribe_AfterDelete(t *testing.T) {
	ws, _ := newTestSheet(t)
	fillRow(t, ws, "a", "b")
	require.NoError(t, ws.SetFormula(1, 3, "A1+B1"))
	b := column(t, ws, 2)
	require.NoError(t, b.SetWidth(20))
	require.NoError(t, b.GroupLevelCollapse(1, true))
	_, err := ws.RangeOf("A1:B2")
	require.NoError(t, err)
	_, err = ws.RangeOf("A5")
	require.NoError(t, err)
	_, err = ws.MergeCells("D1:E1")
	require.NoError(t, err)

	require.NoError(t, ws.DeleteColumns(1, 1))

	want := `Sheet: Sheet1 (2 columns, 1 rows)
  Columns:
    A    width=20.00    outline=1 collapsed hidden cells=1
    B    width=9.14     cells=1
  Ranges:
    Sheet1!A1:A2
    #REF! (invalidated)
  Merged:
    C1:D1
  Broken references:
    B1: =#REF!+A1
`
	assert.Equal(t, want, ws.Describe())
}
