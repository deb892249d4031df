package xlgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Column is a view bound to one column ordinal of a worksheet. It is
// positional: after columns are inserted before it, the view addresses
// whatever column now sits at its ordinal. Use AsRange to follow content.
type Column struct {
	ws *Worksheet
	n  int
}

// Worksheet returns the sheet the column belongs to.
func (c *Column) Worksheet() *Worksheet { return c.ws }

// ColumnNumber returns the 1-based ordinal.
func (c *Column) ColumnNumber() int { return c.n }

// ColumnLetter returns the label, e.g. "AA" for 27.
func (c *Column) ColumnLetter() string { return ColumnLetter(c.n) }

// Width returns the column width in character units.
func (c *Column) Width() float64 {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	if l := c.ws.grid.line(Columns, c.n); l != nil {
		return l.size
	}
	return c.ws.opts.defaultWidth
}

// SetWidth sets the column width. Widths outside 0..255 are rejected.
func (c *Column) SetWidth(w float64) error {
	if w < 0 || w > DefaultMaxWidth {
		return fmt.Errorf("column %s width %v: %w", c.ColumnLetter(), w, ErrInvalidRange)
	}
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	l := c.ws.grid.ensureLine(Columns, c.n, c.ws.opts.defaultWidth)
	l.size = w
	l.custom = true
	return nil
}

// Delete removes the column; every column to its right shifts left by one.
func (c *Column) Delete() error {
	return c.ws.DeleteColumns(c.n, 1)
}

// InsertColumnsAfter inserts count blank columns right of this one and returns them.
func (c *Column) InsertColumnsAfter(count int) ([]*Column, error) {
	return c.insert(c.n+1, count)
}

// InsertColumnsBefore inserts count blank columns left of this one and
// returns them. This view then addresses the first inserted column.
func (c *Column) InsertColumnsBefore(count int) ([]*Column, error) {
	return c.insert(c.n, count)
}

func (c *Column) insert(at, count int) ([]*Column, error) {
	if err := c.ws.InsertColumns(at, count); err != nil {
		return nil, err
	}
	cols := make([]*Column, count)
	for i := range cols {
		cols[i] = &Column{ws: c.ws, n: at + i}
	}
	return cols, nil
}

// Clear removes every cell in the column and resets its width, outline
// and visibility. No column moves.
func (c *Column) Clear() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.clearLine(Columns, c.n)
}

// Cell returns the cell at row in this column.
func (c *Column) Cell(row int) *Cell {
	return c.ws.Cell(row, c.n)
}

// Cells returns the cells of the rows listed in spec, a comma-separated
// list of rows and row ranges such as "1", "1:5" or "1,3:5".
func (c *Column) Cells(spec string) ([]*Cell, error) {
	var cells []*Cell
	for _, part := range strings.Split(spec, ",") {
		first, last, err := c.parseRows(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("rows %q: %w", spec, err)
		}
		for row := first; row <= last; row++ {
			cells = append(cells, c.Cell(row))
		}
	}
	return cells, nil
}

func (c *Column) parseRows(part string) (int, int, error) {
	bounds := strings.SplitN(part, ":", 2)
	nums := make([]int, len(bounds))
	for i, b := range bounds {
		n, err := strconv.Atoi(strings.TrimSpace(b))
		if err != nil || n < 1 || n > c.ws.opts.maxRows {
			return 0, 0, fmt.Errorf("row %q: %w", b, ErrInvalidRangeSpec)
		}
		nums[i] = n
	}
	first, last := nums[0], nums[len(nums)-1]
	if first > last {
		return 0, 0, fmt.Errorf("rows %d:%d reversed: %w", first, last, ErrInvalidRangeSpec)
	}
	return first, last, nil
}

// CellsBetween returns the cells of rows firstRow..lastRow.
func (c *Column) CellsBetween(firstRow, lastRow int) ([]*Cell, error) {
	return c.Cells(strconv.Itoa(firstRow) + ":" + strconv.Itoa(lastRow))
}

// CellsUsed returns the non-empty cells of the column in row order.
func (c *Column) CellsUsed() []*Cell {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	var cells []*Cell
	for _, row := range c.ws.grid.columnRows(c.n) {
		if !c.ws.grid.cell(row, c.n).IsEmpty() {
			cells = append(cells, c.ws.Cell(row, c.n))
		}
	}
	return cells
}

// AsRange registers a range covering the whole column. Unlike the view,
// the range follows the column when other columns are inserted or deleted.
func (c *Column) AsRange() (*Range, error) {
	return c.ws.MakeRange(1, c.n, c.ws.opts.maxRows, c.n)
}

// AdjustToContents fits the width to every cell in the column.
func (c *Column) AdjustToContents() error {
	return c.AdjustToContentsRange(1, c.ws.opts.maxRows)
}

// AdjustToContentsFrom fits the width to the cells from startRow down.
func (c *Column) AdjustToContentsFrom(startRow int) error {
	return c.AdjustToContentsRange(startRow, c.ws.opts.maxRows)
}

// AdjustToContentsRange fits the width to the cells of rows startRow..endRow.
func (c *Column) AdjustToContentsRange(startRow, endRow int) error {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	return c.ws.adjustToContents(c.n, startRow, endRow)
}

// Hide sets the explicit hidden flag.
func (c *Column) Hide() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.setHidden(Columns, c.n, true)
}

// Unhide clears the explicit hidden flag. A column inside a collapsed
// group stays hidden.
func (c *Column) Unhide() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.setHidden(Columns, c.n, false)
}

// IsHidden reports whether the column is hidden, explicitly or by a collapsed
// outline: the column is collapsed and so is any group it sits inside.
func (c *Column) IsHidden() bool {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	return c.ws.isHidden(Columns, c.n)
}

// OutlineLevel returns the outline level, 0..7.
func (c *Column) OutlineLevel() int {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	level, _ := c.ws.outline(Columns, c.n)
	return level
}

// SetOutlineLevel sets the outline level.
func (c *Column) SetOutlineLevel(level int) error {
	return c.GroupLevel(level)
}

// IsCollapsed reports the collapsed flag.
func (c *Column) IsCollapsed() bool {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	_, collapsed := c.ws.outline(Columns, c.n)
	return collapsed
}

// Group raises the outline level by one.
func (c *Column) Group() error {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	return c.ws.group(Columns, c.n, nil)
}

// GroupCollapse raises the outline level by one and sets the collapsed flag.
func (c *Column) GroupCollapse(collapse bool) error {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	return c.ws.group(Columns, c.n, &collapse)
}

// GroupLevel sets the outline level directly.
func (c *Column) GroupLevel(level int) error {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	return c.ws.setOutlineLevel(Columns, c.n, level, nil)
}

// GroupLevelCollapse sets the outline level and the collapsed flag.
func (c *Column) GroupLevelCollapse(level int, collapse bool) error {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	return c.ws.setOutlineLevel(Columns, c.n, level, &collapse)
}

// Ungroup lowers the outline level by one, stopping at 0.
func (c *Column) Ungroup() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.ungroup(Columns, c.n, false)
}

// UngroupFromAll removes the column from every outline group and expands it.
func (c *Column) UngroupFromAll() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.ungroup(Columns, c.n, true)
}

// Collapse sets the collapsed flag. It does nothing at outline level 0.
func (c *Column) Collapse() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.setCollapsed(Columns, c.n, true)
}

// Expand clears the collapsed flag.
func (c *Column) Expand() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.setCollapsed(Columns, c.n, false)
}

// String returns the column label.
func (c *Column) String() string { return c.ColumnLetter() }
