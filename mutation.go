package xlgrid

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// insertLines inserts count blank lines before ordinal at. Callers hold the write lock.
func (ws *Worksheet) insertLines(axis Axis, at, count int) error {
	limit := ws.limit(axis)
	if at < 1 || at > limit+1 {
		return fmt.Errorf("insert %s at %d outside 1..%d: %w", axis, at, limit+1, ErrInvalidAddress)
	}
	if count < 0 {
		return fmt.Errorf("insert %d %s: %w", count, axis, ErrInvalidRange)
	}
	if count == 0 {
		return nil
	}
	if at+count-1 > limit {
		return fmt.Errorf("insert %d %s at %d past %d: %w", count, axis, at, limit, ErrCapacityExceeded)
	}
	if last := ws.grid.maxOrdinal(axis); last >= at && last+count > limit {
		return fmt.Errorf("insert %d %s at %d would move %s %d past %d: %w",
			count, axis, at, axis, last, limit, ErrCapacityExceeded)
	}

	e := edit{axis: axis, at: at, count: count, insert: true}
	ws.apply(e)
	for n := at; n <= e.end(); n++ {
		ws.grid.ensureLine(axis, n, ws.defaultSize(axis))
	}
	return nil
}

// deleteLines removes count lines starting at ordinal at. Callers hold the write lock.
func (ws *Worksheet) deleteLines(axis Axis, at, count int) error {
	if err := ws.checkOrdinal(axis, at); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("delete %d %s: %w", count, axis, ErrInvalidRange)
	}
	if count == 0 {
		return nil
	}
	if end := at + count - 1; end > ws.limit(axis) {
		return fmt.Errorf("delete %s %d..%d past %d: %w", axis, at, end, ws.limit(axis), ErrInvalidAddress)
	}
	ws.apply(edit{axis: axis, at: at, count: count})
	return nil
}

// apply carries out a validated edit: it renumbers records and cells, moves
// registered ranges, rewrites formulas, then reports what was invalidated.
// Nothing in here can fail.
func (ws *Worksheet) apply(e edit) {
	verb := e.verb()
	log := ws.logger().WithFields(logrus.Fields{
		"axis":  e.axis.String(),
		"at":    e.at,
		"count": e.count,
	})
	log.Debug(verb)

	cause := fmt.Errorf("%s %s %d..%d: %w", verb, e.axis, e.at, e.end(), ErrReferenceInvalidated)
	ws.grid.relocate(e)
	if ws.source != nil {
		ws.pending = append(ws.pending, e)
	}
	events := ws.shiftRanges(e, cause)
	events = append(events, ws.rewriteFormulas(e, cause)...)

	for _, ev := range events {
		fields := logrus.Fields{"kind": ev.Kind.String(), "reference": ev.Reference}
		if ev.Kind == FormulaReference {
			fields["cell"] = ev.Cell.CellName()
		}
		log.WithFields(fields).Warn("reference invalidated")
		for _, l := range ws.opts.listeners {
			l.ReferenceInvalidated(ev)
		}
	}
}

// shiftRanges moves every valid registered range along the edit's axis.
func (ws *Worksheet) shiftRanges(e edit, cause error) []ReferenceEvent {
	var events []ReferenceEvent
	limit := ws.limit(e.axis)
	ws.ranges.each(func(idx int, s *rangeSlot) {
		if !s.valid {
			return
		}
		before := s.ref(ws.name)
		first, last, ok := e.moveSpan(s.first[e.axis], s.last[e.axis], limit)
		if !ok {
			s.valid = false
			events = append(events, ReferenceEvent{
				Kind:      RangeReference,
				Sheet:     ws.name,
				Range:     &Range{ws: ws, slot: idx, gen: s.gen},
				Reference: before.String(),
				Err:       cause,
			})
			return
		}
		s.first[e.axis] = first
		s.last[e.axis] = last
	})
	return events
}

// clearLine empties a line without renumbering anything. The line keeps a
// record at default size so it still counts as part of the sheet.
func (ws *Worksheet) clearLine(axis Axis, n int) {
	_, existed := ws.grid.lines[axis][n]
	ws.grid.clearLine(axis, n)
	if existed {
		ws.grid.ensureLine(axis, n, ws.defaultSize(axis))
	}
	ws.logger().WithFields(logrus.Fields{"axis": axis.String(), "at": n}).Debug("clear")
}
