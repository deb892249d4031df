package xlgrid

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// adjustToContents sizes column col to the widest rendered text between
// startRow and endRow (inclusive). Cells covered by a merge that spans more
// than one column are ignored. When nothing is measured the width is left
// as it is. Callers hold the write lock.
func (ws *Worksheet) adjustToContents(col, startRow, endRow int) error {
	if startRow < 1 || endRow < startRow {
		return fmt.Errorf("rows %d..%d: %w", startRow, endRow, ErrInvalidRange)
	}

	var wide []RangeRef
	for _, m := range ws.mergedRegions() {
		if m.Width() > 1 && m.First.Col <= col && col <= m.Last.Col {
			wide = append(wide, m)
		}
	}

	widest, measured := 0.0, 0
	for _, row := range ws.grid.columnRows(col) {
		if row < startRow || row > endRow {
			continue
		}
		cd := ws.grid.cell(row, col)
		if cd.IsEmpty() || inAny(wide, row, col) {
			continue
		}
		text := ws.opts.renderer(cd)
		if text == "" {
			continue
		}
		font := ws.opts.defaultFont
		if cd.Font != nil {
			font = *cd.Font
		}
		if w := ws.opts.measurer.MeasureWidth(text, font); w > widest {
			widest = w
		}
		measured++
	}
	if measured == 0 {
		return nil
	}

	width := widest + ws.opts.widthPadding
	if width < ws.opts.minWidth {
		width = ws.opts.minWidth
	}
	if width > ws.opts.maxWidth {
		width = ws.opts.maxWidth
	}
	l := ws.grid.ensureLine(Columns, col, ws.opts.defaultWidth)
	l.size = width
	l.custom = true

	ws.logger().WithFields(logrus.Fields{
		"column": ColumnLetter(col),
		"cells":  measured,
		"width":  width,
	}).Debug("adjust to contents")
	return nil
}

func inAny(refs []RangeRef, row, col int) bool {
	for _, r := range refs {
		if r.Contains(CellRef{Row: row, Col: col}) {
			return true
		}
	}
	return false
}
