package xlgrid

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Worksheet is the structural model of one sheet: its grid of cells, the
// attributes of its rows and columns, and the ranges registered on it.
// All methods are safe for concurrent use; edits are serialized.
type Worksheet struct {
	mu     sync.RWMutex
	name   string
	opts   *Options
	grid   *gridIndex
	ranges rangeArena

	source     *excelize.File // workbook the sheet was loaded from
	ownsSource bool           // opened by OpenWorksheet, closed by Close
	pending    []edit         // structural edits not yet replayed into source
}

// NewWorksheet creates an empty worksheet.
func NewWorksheet(name string, opts ...Option) *Worksheet {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Worksheet{
		name: name,
		opts: o,
		grid: newGridIndex(),
	}
}

// Name returns the sheet name.
func (ws *Worksheet) Name() string { return ws.name }

func (ws *Worksheet) limit(axis Axis) int {
	if axis == Columns {
		return ws.opts.maxColumns
	}
	return ws.opts.maxRows
}

func (ws *Worksheet) defaultSize(axis Axis) float64 {
	if axis == Columns {
		return ws.opts.defaultWidth
	}
	return ws.opts.defaultHeight
}

func (ws *Worksheet) logger() logrus.FieldLogger {
	return ws.opts.logger.WithField("sheet", ws.name)
}

func (ws *Worksheet) checkOrdinal(axis Axis, n int) error {
	if n < 1 || n > ws.limit(axis) {
		return fmt.Errorf("%s ordinal %d outside 1..%d: %w", axis, n, ws.limit(axis), ErrInvalidAddress)
	}
	return nil
}

func (ws *Worksheet) checkCell(row, col int) error {
	if err := ws.checkOrdinal(Rows, row); err != nil {
		return err
	}
	return ws.checkOrdinal(Columns, col)
}

// Column returns the column view for ordinal n.
func (ws *Worksheet) Column(n int) (*Column, error) {
	if err := ws.checkOrdinal(Columns, n); err != nil {
		return nil, err
	}
	return &Column{ws: ws, n: n}, nil
}

// ColumnByLetter returns the column view for a label such as "C" or "aa".
func (ws *Worksheet) ColumnByLetter(label string) (*Column, error) {
	n, err := ws.ColumnNumber(label)
	if err != nil {
		return nil, err
	}
	return &Column{ws: ws, n: n}, nil
}

// ColumnNumber converts a label to an ordinal bounded by the sheet's column limit.
func (ws *Worksheet) ColumnNumber(label string) (int, error) {
	return columnNumber(label, ws.opts.maxColumns)
}

// ColumnCount returns the highest column ordinal in use, or 0 for an empty sheet.
func (ws *Worksheet) ColumnCount() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.grid.maxOrdinal(Columns)
}

// RowCount returns the highest row ordinal in use, or 0 for an empty sheet.
func (ws *Worksheet) RowCount() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.grid.maxOrdinal(Rows)
}

// Cell returns a view of the cell at (row, col). The cell is not created
// until something is written to it.
func (ws *Worksheet) Cell(row, col int) *Cell {
	return &Cell{ws: ws, ref: NewCellRef(ws.name, row, col)}
}

// SetValue stores a literal value, replacing any formula.
func (ws *Worksheet) SetValue(row, col int, v any) error {
	return ws.Cell(row, col).SetValue(v)
}

// SetFormula stores a formula; a leading "=" is dropped.
func (ws *Worksheet) SetFormula(row, col int, formula string) error {
	return ws.Cell(row, col).SetFormula(formula)
}

// InsertColumns inserts count blank columns before column at.
func (ws *Worksheet) InsertColumns(at, count int) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.insertLines(Columns, at, count)
}

// DeleteColumns removes count columns starting at column at.
func (ws *Worksheet) DeleteColumns(at, count int) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.deleteLines(Columns, at, count)
}

// InsertRows inserts count blank rows before row at.
func (ws *Worksheet) InsertRows(at, count int) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.insertLines(Rows, at, count)
}

// DeleteRows removes count rows starting at row at.
func (ws *Worksheet) DeleteRows(at, count int) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.deleteLines(Rows, at, count)
}

// RowHeight returns the height of row n.
func (ws *Worksheet) RowHeight(n int) float64 {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	if l := ws.grid.line(Rows, n); l != nil {
		return l.size
	}
	return ws.opts.defaultHeight
}

// SetRowHeight sets the height of row n.
func (ws *Worksheet) SetRowHeight(n int, height float64) error {
	if err := ws.checkOrdinal(Rows, n); err != nil {
		return err
	}
	if height < 0 {
		return fmt.Errorf("row %d height %v: %w", n, height, ErrInvalidRange)
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	l := ws.grid.ensureLine(Rows, n, ws.opts.defaultHeight)
	l.size = height
	l.custom = true
	return nil
}

// usedColumns returns the sorted ordinals of columns holding a record or a cell.
func (ws *Worksheet) usedColumns() []int {
	seen := make(map[int]bool)
	for _, n := range ws.grid.sortedLines(Columns) {
		seen[n] = true
	}
	for col := range ws.grid.cells {
		seen[col] = true
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
