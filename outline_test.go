package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_StopsAtMaxLevel(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 2)

	for i := 1; i <= 10; i++ {
		err := c.Group()
		if i <= MaxOutlineLevel {
			require.NoError(t, err, "group call %d", i)
		} else {
			assert.ErrorIs(t, err, ErrOutlineLimitExceeded, "group call %d", i)
		}
	}
	assert.Equal(t, MaxOutlineLevel, c.OutlineLevel())

	for i := 0; i < 10; i++ {
		c.Ungroup()
	}
	assert.Equal(t, 0, c.OutlineLevel())
}

func TestGroupLevel_Bounds(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 1)

	require.NoError(t, c.GroupLevel(3))
	assert.Equal(t, 3, c.OutlineLevel())

	assert.ErrorIs(t, c.GroupLevel(8), ErrInvalidOutlineLevel)
	assert.ErrorIs(t, c.GroupLevel(-1), ErrInvalidOutlineLevel)
	assert.ErrorIs(t, c.SetOutlineLevel(99), ErrInvalidOutlineLevel)
	assert.Equal(t, 3, c.OutlineLevel())
}

func TestCollapse_LevelZeroIsNoop(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 4)

	c.Collapse()
	assert.False(t, c.IsCollapsed())
	assert.False(t, c.IsHidden())
	assert.Equal(t, 0, ws.ColumnCount())
}

func TestGroupCollapse_HidesUntilExpanded(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 2)

	require.NoError(t, c.GroupCollapse(true))
	assert.Equal(t, 1, c.OutlineLevel())
	assert.True(t, c.IsCollapsed())
	assert.True(t, c.IsHidden())

	c.Expand()
	assert.False(t, c.IsCollapsed())
	assert.False(t, c.IsHidden())
}

func TestIsHidden_NestedGroups(t *testing.T) {
	ws, _ := newTestSheet(t)
	b, c, d := column(t, ws, 2), column(t, ws, 3), column(t, ws, 4)
	require.NoError(t, b.GroupLevel(1))
	require.NoError(t, c.GroupLevelCollapse(2, true))
	require.NoError(t, d.GroupLevel(1))

	// C's parent is D, which is still expanded.
	assert.False(t, c.IsHidden())

	d.Collapse()
	assert.True(t, c.IsHidden())
	assert.True(t, d.IsHidden())
	assert.False(t, b.IsHidden(), "B itself is not collapsed")

	d.Expand()
	assert.False(t, c.IsHidden())
}

func TestIsHidden_CollapsedGrandparent(t *testing.T) {
	ws, _ := newTestSheet(t)
	c, d, e := column(t, ws, 3), column(t, ws, 4), column(t, ws, 5)
	require.NoError(t, c.GroupLevelCollapse(3, true))
	require.NoError(t, d.GroupLevel(2))
	require.NoError(t, e.GroupLevel(1))
	assert.False(t, c.IsHidden())

	// D stays expanded; E above it collapses.
	e.Collapse()
	assert.True(t, c.IsHidden())
	assert.False(t, d.IsHidden(), "D itself is not collapsed")

	e.Expand()
	assert.False(t, c.IsHidden())
}

func TestHide_Explicit(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 3)

	c.Hide()
	assert.True(t, c.IsHidden())
	assert.Equal(t, 0, c.OutlineLevel())

	c.Unhide()
	assert.False(t, c.IsHidden())
}

func TestUnhide_KeepsOutlineHidden(t *testing.T) {
	ws, _ := newTestSheet(t)
	c := column(t, ws, 3)
	require.NoError(t, c.GroupCollapse(true))
	c.Hide()

	c.Unhide()
	assert.True(t, c.IsHidden(), "still inside a collapsed group")

	c.UngroupFromAll()
	assert.False(t, c.IsHidden())
	assert.False(t, c.IsCollapsed())
	assert.Equal(t, 0, c.OutlineLevel())
}

func TestOutline_ShiftsWithInsert(t *testing.T) {
	ws, _ := newTestSheet(t)
	require.NoError(t, column(t, ws, 3).GroupLevelCollapse(2, true))
	column(t, ws, 5).Hide()

	require.NoError(t, ws.InsertColumns(1, 1))

	assert.Equal(t, 0, column(t, ws, 3).OutlineLevel())
	assert.Equal(t, 2, column(t, ws, 4).OutlineLevel())
	assert.True(t, column(t, ws, 4).IsCollapsed())
	assert.False(t, column(t, ws, 5).IsHidden())
	assert.True(t, column(t, ws, 6).IsHidden())
}

func TestOutline_DroppedWithDelete(t *testing.T) {
	ws, _ := newTestSheet(t)
	require.NoError(t, column(t, ws, 2).GroupLevel(1))
	require.NoError(t, column(t, ws, 3).GroupLevel(2))

	require.NoError(t, ws.DeleteColumns(2, 1))

	assert.Equal(t, 2, column(t, ws, 2).OutlineLevel())
	assert.Equal(t, 0, column(t, ws, 3).OutlineLevel())
}
