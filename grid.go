package xlgrid

import "sort"

// lineRecord holds the attributes of one row or column.
type lineRecord struct {
	size      float64 // column width or row height
	custom    bool    // size was set explicitly
	outline   int
	collapsed bool
	hidden    bool
}

func (l *lineRecord) isDefault() bool {
	return !l.custom && l.outline == 0 && !l.collapsed && !l.hidden
}

// gridIndex is the authoritative store of what exists where on a sheet.
// Records and cells are allocated on first write.
type gridIndex struct {
	lines [2]map[int]*lineRecord    // indexed by Axis
	cells map[int]map[int]*CellData // column → row → cell
}

func newGridIndex() *gridIndex {
	return &gridIndex{
		lines: [2]map[int]*lineRecord{make(map[int]*lineRecord), make(map[int]*lineRecord)},
		cells: make(map[int]map[int]*CellData),
	}
}

// line returns the stored record or nil.
func (g *gridIndex) line(axis Axis, n int) *lineRecord {
	return g.lines[axis][n]
}

func (g *gridIndex) ensureLine(axis Axis, n int, defaultSize float64) *lineRecord {
	l, ok := g.lines[axis][n]
	if !ok {
		l = &lineRecord{size: defaultSize}
		g.lines[axis][n] = l
	}
	return l
}

func (g *gridIndex) cell(row, col int) *CellData {
	return g.cells[col][row]
}

func (g *gridIndex) ensureCell(row, col int) *CellData {
	rows, ok := g.cells[col]
	if !ok {
		rows = make(map[int]*CellData)
		g.cells[col] = rows
	}
	cd, ok := rows[row]
	if !ok {
		cd = &CellData{}
		rows[row] = cd
	}
	return cd
}

func (g *gridIndex) removeCell(row, col int) {
	rows, ok := g.cells[col]
	if !ok {
		return
	}
	delete(rows, row)
	if len(rows) == 0 {
		delete(g.cells, col)
	}
}

// columnRows returns the sorted row ordinals stored in a column.
func (g *gridIndex) columnRows(col int) []int {
	rows := make([]int, 0, len(g.cells[col]))
	for r := range g.cells[col] {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}

// eachCell visits every stored cell.
func (g *gridIndex) eachCell(fn func(ref CellRef, cd *CellData)) {
	for col, rows := range g.cells {
		for row, cd := range rows {
			fn(CellRef{Row: row, Col: col}, cd)
		}
	}
}

// maxOrdinal returns the highest ordinal along the axis that holds a record
// or a cell, or 0 for an empty grid.
func (g *gridIndex) maxOrdinal(axis Axis) int {
	highest := 0
	for n := range g.lines[axis] {
		if n > highest {
			highest = n
		}
	}
	if axis == Columns {
		for col := range g.cells {
			if col > highest {
				highest = col
			}
		}
		return highest
	}
	for _, rows := range g.cells {
		for row := range rows {
			if row > highest {
				highest = row
			}
		}
	}
	return highest
}

// sortedLines returns the ordinals of stored records along the axis.
func (g *gridIndex) sortedLines(axis Axis) []int {
	ns := make([]int, 0, len(g.lines[axis]))
	for n := range g.lines[axis] {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

// relocate renumbers every record and cell along the edit's axis. Records
// and cells removed by a delete are dropped.
func (g *gridIndex) relocate(e edit) {
	lines := make(map[int]*lineRecord, len(g.lines[e.axis]))
	for n, l := range g.lines[e.axis] {
		if m, ok := e.moveOrdinal(n); ok {
			lines[m] = l
		}
	}
	g.lines[e.axis] = lines

	cells := make(map[int]map[int]*CellData, len(g.cells))
	g.eachCell(func(ref CellRef, cd *CellData) {
		m, ok := e.moveOrdinal(e.axis.of(ref))
		if !ok {
			return
		}
		ref = e.axis.with(ref, m)
		rows, ok := cells[ref.Col]
		if !ok {
			rows = make(map[int]*CellData)
			cells[ref.Col] = rows
		}
		rows[ref.Row] = cd
	})
	g.cells = cells
}

// clearLine removes every cell on the line and its record.
func (g *gridIndex) clearLine(axis Axis, n int) {
	delete(g.lines[axis], n)
	if axis == Columns {
		delete(g.cells, n)
		return
	}
	for col, rows := range g.cells {
		delete(rows, n)
		if len(rows) == 0 {
			delete(g.cells, col)
		}
	}
}
