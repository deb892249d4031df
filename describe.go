package xlgrid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Describe returns a human-readable summary of the sheet: one line per
// column in use with its width, outline state and cell count, followed by
// registered ranges, merged regions and formulas holding #REF!.
// Useful for debugging structural edits.
func (ws *Worksheet) Describe() string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s (%d columns, %d rows)\n",
		ws.name, ws.grid.maxOrdinal(Columns), ws.grid.maxOrdinal(Rows))

	cols := ws.usedColumns()
	if len(cols) > 0 {
		b.WriteString("  Columns:\n")
	}
	for _, n := range cols {
		width := ws.opts.defaultWidth
		var attrs []string
		if l := ws.grid.line(Columns, n); l != nil {
			width = l.size
			if l.outline > 0 {
				attrs = append(attrs, "outline="+strconv.Itoa(l.outline))
			}
			if l.collapsed {
				attrs = append(attrs, "collapsed")
			}
		}
		if ws.isHidden(Columns, n) {
			attrs = append(attrs, "hidden")
		}
		used := 0
		for _, cd := range ws.grid.cells[n] {
			if !cd.IsEmpty() {
				used++
			}
		}
		attrs = append(attrs, "cells="+strconv.Itoa(used))
		fmt.Fprintf(&b, "    %-4s width=%-8s %s\n",
			ColumnLetter(n), strconv.FormatFloat(width, 'f', 2, 64), strings.Join(attrs, " "))
	}

	var ranges []string
	ws.ranges.each(func(_ int, s *rangeSlot) {
		if s.merged {
			return
		}
		if s.valid {
			ranges = append(ranges, s.ref(ws.name).String())
		} else {
			ranges = append(ranges, "#REF! (invalidated)")
		}
	})
	writeSection(&b, "Ranges", ranges)

	var merged []string
	for _, m := range ws.mergedRegions() {
		merged = append(merged, m.First.CellName()+":"+m.Last.CellName())
	}
	writeSection(&b, "Merged", merged)

	var broken []CellRef
	ws.grid.eachCell(func(ref CellRef, cd *CellData) {
		if cd.IsFormulaCell() && strings.Contains(cd.Formula, "#REF!") {
			broken = append(broken, ref)
		}
	})
	sort.Slice(broken, func(i, j int) bool {
		if broken[i].Row != broken[j].Row {
			return broken[i].Row < broken[j].Row
		}
		return broken[i].Col < broken[j].Col
	})
	var lines []string
	for _, ref := range broken {
		lines = append(lines, ref.CellName()+": ="+ws.grid.cell(ref.Row, ref.Col).Formula)
	}
	writeSection(&b, "Broken references", lines)
	return b.String()
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", title)
	for _, l := range lines {
		b.WriteString("    ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
}
