package xlgrid

// Axis selects the primary axis of a structural edit. Insert and delete are
// implemented once against an Axis; rows and columns only differ in which
// coordinate of a CellRef the edit renumbers.
type Axis int

const (
	Rows Axis = iota
	Columns
)

// String returns "rows" or "columns".
func (a Axis) String() string {
	if a == Columns {
		return "columns"
	}
	return "rows"
}

// of returns the ref's ordinal along the axis.
func (a Axis) of(ref CellRef) int {
	if a == Columns {
		return ref.Col
	}
	return ref.Row
}

// with returns ref with its ordinal along the axis replaced by n.
func (a Axis) with(ref CellRef, n int) CellRef {
	if a == Columns {
		ref.Col = n
	} else {
		ref.Row = n
	}
	return ref
}

// edit describes one structural change along an axis: count lines inserted
// before ordinal at, or count lines deleted starting at ordinal at.
type edit struct {
	axis   Axis
	at     int
	count  int
	insert bool
}

func (e edit) end() int { return e.at + e.count - 1 }

func (e edit) verb() string {
	if e.insert {
		return "insert"
	}
	return "delete"
}

// moveOrdinal maps a stored ordinal to its position after the edit.
// It reports false when the ordinal is removed by a delete.
func (e edit) moveOrdinal(n int) (int, bool) {
	if e.insert {
		if n >= e.at {
			return n + e.count, true
		}
		return n, true
	}
	switch {
	case n < e.at:
		return n, true
	case n > e.end():
		return n - e.count, true
	default:
		return 0, false
	}
}

// moveSpan maps the inclusive span [first, last] along the axis. Inserting
// widens spans that straddle the insertion point and shifts spans after it;
// deleting shrinks spans that overlap the deleted lines. It reports false
// when the span no longer exists.
func (e edit) moveSpan(first, last, limit int) (int, int, bool) {
	if e.insert {
		if first >= e.at {
			first += e.count
		}
		if last >= e.at {
			last += e.count
		}
		if first > limit {
			return 0, 0, false
		}
		if last > limit {
			last = limit
		}
		return first, last, true
	}

	end := e.end()
	switch {
	case last < e.at:
		return first, last, true
	case first > end:
		return first - e.count, last - e.count, true
	case first >= e.at && last <= end:
		return 0, 0, false
	}
	if first > e.at {
		first = e.at
	}
	if last > end {
		last -= e.count
	} else {
		last = e.at - 1
	}
	return first, last, true
}
