package xlgrid

import "fmt"

// Outline state lives on line records. Every function here takes the axis
// so rows and columns share one implementation; callers hold the lock.

func (ws *Worksheet) outline(axis Axis, n int) (level int, collapsed bool) {
	if l := ws.grid.line(axis, n); l != nil {
		return l.outline, l.collapsed
	}
	return 0, false
}

func (ws *Worksheet) outlineRecord(axis Axis, n int) *lineRecord {
	return ws.grid.ensureLine(axis, n, ws.defaultSize(axis))
}

// group raises the outline level by one and optionally sets the collapsed flag.
func (ws *Worksheet) group(axis Axis, n int, collapse *bool) error {
	level, _ := ws.outline(axis, n)
	if level >= MaxOutlineLevel {
		return fmt.Errorf("%s %d already at level %d: %w", axis, n, level, ErrOutlineLimitExceeded)
	}
	l := ws.outlineRecord(axis, n)
	l.outline++
	if collapse != nil {
		l.collapsed = *collapse
	}
	return nil
}

// setOutlineLevel sets the level directly and optionally the collapsed flag.
func (ws *Worksheet) setOutlineLevel(axis Axis, n, level int, collapse *bool) error {
	if level < 0 || level > MaxOutlineLevel {
		return fmt.Errorf("%s %d level %d outside 0..%d: %w", axis, n, level, MaxOutlineLevel, ErrInvalidOutlineLevel)
	}
	l := ws.outlineRecord(axis, n)
	l.outline = level
	if collapse != nil {
		l.collapsed = *collapse
	}
	return nil
}

// ungroup lowers the level by one, or clears all outline state when fromAll is set.
func (ws *Worksheet) ungroup(axis Axis, n int, fromAll bool) {
	l := ws.grid.line(axis, n)
	if l == nil {
		return
	}
	if fromAll {
		l.outline = 0
		l.collapsed = false
		return
	}
	if l.outline > 0 {
		l.outline--
	}
}

// setCollapsed sets the collapsed flag. Collapsing a line at level 0 does nothing.
func (ws *Worksheet) setCollapsed(axis Axis, n int, collapsed bool) {
	if collapsed {
		if level, _ := ws.outline(axis, n); level == 0 {
			return
		}
		ws.outlineRecord(axis, n).collapsed = true
		return
	}
	if l := ws.grid.line(axis, n); l != nil {
		l.collapsed = false
	}
}

func (ws *Worksheet) setHidden(axis Axis, n int, hidden bool) {
	if hidden {
		ws.outlineRecord(axis, n).hidden = true
		return
	}
	if l := ws.grid.line(axis, n); l != nil {
		l.hidden = false
	}
}

// isHidden derives visibility: a line is hidden when its own flag is set, or
// when it is collapsed and so is one of its ancestors in the outline tree.
//
// The parent of line n at level L is found the way outlines are drawn with
// summary lines after the detail: take the run of adjacent lines around n
// whose level is at least L, and the parent is the line right after that run.
// A collapsed line whose parent is the root (level 0 or past the last line)
// is hidden; otherwise the chain of parents is walked up to the root and any
// collapsed ancestor hides the line.
func (ws *Worksheet) isHidden(axis Axis, n int) bool {
	l := ws.grid.line(axis, n)
	if l == nil {
		return false
	}
	if l.hidden {
		return true
	}
	if l.outline == 0 || !l.collapsed {
		return false
	}
	parent, level := ws.outlineParent(axis, n, l.outline)
	if parent == 0 || level == 0 {
		return true
	}
	for parent != 0 && level > 0 {
		if _, collapsed := ws.outline(axis, parent); collapsed {
			return true
		}
		parent, level = ws.outlineParent(axis, parent, level)
	}
	return false
}

// outlineParent returns the summary line for the run of lines at level or
// deeper that contains n, with that line's level. It returns 0 when the run
// reaches the last line of the sheet.
func (ws *Worksheet) outlineParent(axis Axis, n, level int) (parent, parentLevel int) {
	limit := ws.limit(axis)
	end := n
	for end < limit {
		next, _ := ws.outline(axis, end+1)
		if next < level {
			break
		}
		end++
	}
	if end == limit {
		return 0, 0
	}
	parentLevel, _ = ws.outline(axis, end+1)
	return end + 1, parentLevel
}
