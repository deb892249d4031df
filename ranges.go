package xlgrid

import "fmt"

// rangeSlot stores the coordinates of one registered range. Corners are
// indexed by Axis so edits can address them without caring about direction.
type rangeSlot struct {
	first  [2]int
	last   [2]int
	gen    uint32
	live   bool
	valid  bool
	merged bool
}

func (s *rangeSlot) ref(sheet string) RangeRef {
	return NewRangeRef(sheet, s.first[Rows], s.first[Columns], s.last[Rows], s.last[Columns])
}

// rangeArena is the side index of registered ranges. Handles address a slot
// by index and generation, so a released and reused slot is never mistaken
// for the range that used to live there.
type rangeArena struct {
	slots []rangeSlot
	free  []int
}

func (a *rangeArena) add(r RangeRef, merged bool) (int, uint32) {
	slot := rangeSlot{
		first:  [2]int{r.First.Row, r.First.Col},
		last:   [2]int{r.Last.Row, r.Last.Col},
		live:   true,
		valid:  true,
		merged: merged,
	}
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		slot.gen = a.slots[idx].gen + 1
		a.slots[idx] = slot
		return idx, slot.gen
	}
	a.slots = append(a.slots, slot)
	return len(a.slots) - 1, 0
}

// get returns the live slot for a handle, or nil once it was released.
func (a *rangeArena) get(idx int, gen uint32) *rangeSlot {
	if idx < 0 || idx >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if !s.live || s.gen != gen {
		return nil
	}
	return s
}

func (a *rangeArena) release(idx int, gen uint32) {
	if s := a.get(idx, gen); s != nil {
		s.live = false
		a.free = append(a.free, idx)
	}
}

// each visits every live slot in registration order.
func (a *rangeArena) each(fn func(idx int, s *rangeSlot)) {
	for i := range a.slots {
		if a.slots[i].live {
			fn(i, &a.slots[i])
		}
	}
}

// Range is a rectangular region registered with a worksheet. Its corners
// follow every insert and delete on the sheet. A Range holds no cell data.
type Range struct {
	ws   *Worksheet
	slot int
	gen  uint32
}

// Worksheet returns the sheet the range is registered with.
func (r *Range) Worksheet() *Worksheet { return r.ws }

// Address returns the current corners of the range. It fails with
// ErrReferenceInvalidated once an edit removed every line the range spanned,
// and with ErrInvalidRange after Release.
func (r *Range) Address() (RangeRef, error) {
	r.ws.mu.RLock()
	defer r.ws.mu.RUnlock()
	return r.address()
}

func (r *Range) address() (RangeRef, error) {
	s := r.ws.ranges.get(r.slot, r.gen)
	if s == nil {
		return RangeRef{}, fmt.Errorf("range was released: %w", ErrInvalidRange)
	}
	if !s.valid {
		return RangeRef{}, fmt.Errorf("range on sheet %q: %w", r.ws.name, ErrReferenceInvalidated)
	}
	return s.ref(r.ws.name), nil
}

// Valid reports whether the range still refers to cells on the sheet.
func (r *Range) Valid() bool {
	_, err := r.Address()
	return err == nil
}

// Release unregisters the range. Later calls on the handle fail.
func (r *Range) Release() {
	r.ws.mu.Lock()
	defer r.ws.mu.Unlock()
	r.ws.ranges.release(r.slot, r.gen)
}

// String formats the range as "Sheet1!A1:C5", or "#REF!" once invalidated.
func (r *Range) String() string {
	ref, err := r.Address()
	if err != nil {
		return "#REF!"
	}
	return ref.String()
}

// CellsUsed returns the non-empty cells inside the range, column by column.
func (r *Range) CellsUsed() ([]*Cell, error) {
	r.ws.mu.RLock()
	defer r.ws.mu.RUnlock()
	ref, err := r.address()
	if err != nil {
		return nil, err
	}
	var cells []*Cell
	for col := ref.First.Col; col <= ref.Last.Col; col++ {
		if _, ok := r.ws.grid.cells[col]; !ok {
			continue
		}
		for _, row := range r.ws.grid.columnRows(col) {
			if row < ref.First.Row || row > ref.Last.Row {
				continue
			}
			if r.ws.grid.cell(row, col).IsEmpty() {
				continue
			}
			cells = append(cells, &Cell{ws: r.ws, ref: NewCellRef(r.ws.name, row, col)})
		}
	}
	return cells, nil
}

// MakeRange registers the region (firstRow, firstCol)–(lastRow, lastCol).
func (ws *Worksheet) MakeRange(firstRow, firstCol, lastRow, lastCol int) (*Range, error) {
	ref := NewRangeRef(ws.name, firstRow, firstCol, lastRow, lastCol)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.register(ref, false)
}

// RangeOf parses a reference such as "B2:F9", "C:E" or "3:4" and registers it.
func (ws *Worksheet) RangeOf(reference string) (*Range, error) {
	ref, err := ws.parseRange(reference)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.register(ref, false)
}

// parseRange parses a reference and stretches whole-line forms to the sheet limits.
func (ws *Worksheet) parseRange(reference string) (RangeRef, error) {
	ref, err := ParseRangeRef(reference)
	if err != nil {
		return RangeRef{}, err
	}
	if ref.Last.Row == MaxRows && ref.First.Row == 1 {
		ref.Last.Row = ws.opts.maxRows
	}
	if ref.Last.Col == MaxColumns && ref.First.Col == 1 {
		ref.Last.Col = ws.opts.maxColumns
	}
	return ref, nil
}

func (ws *Worksheet) register(ref RangeRef, merged bool) (*Range, error) {
	if err := ws.checkRange(ref); err != nil {
		return nil, err
	}
	idx, gen := ws.ranges.add(ref, merged)
	return &Range{ws: ws, slot: idx, gen: gen}, nil
}

func (ws *Worksheet) checkRange(ref RangeRef) error {
	if ref.First.Row < 1 || ref.Last.Row > ws.opts.maxRows ||
		ref.First.Col < 1 || ref.Last.Col > ws.opts.maxColumns {
		return fmt.Errorf("range %s outside sheet %q: %w", ref, ws.name, ErrInvalidRange)
	}
	return nil
}

// Ranges returns handles to every registered range, including invalidated ones.
func (ws *Worksheet) Ranges() []*Range {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	var out []*Range
	ws.ranges.each(func(idx int, s *rangeSlot) {
		if !s.merged {
			out = append(out, &Range{ws: ws, slot: idx, gen: s.gen})
		}
	})
	return out
}

// MergeCells registers a merged region. Merged regions shift with the grid
// like any other range; a merge that overlaps an existing one is rejected.
func (ws *Worksheet) MergeCells(reference string) (*Range, error) {
	ref, err := ws.parseRange(reference)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	var overlap error
	ws.ranges.each(func(_ int, s *rangeSlot) {
		if !s.merged || !s.valid || overlap != nil {
			return
		}
		other := s.ref(ws.name)
		if ref.First.Row <= other.Last.Row && other.First.Row <= ref.Last.Row &&
			ref.First.Col <= other.Last.Col && other.First.Col <= ref.Last.Col {
			overlap = fmt.Errorf("merge %s overlaps %s: %w", ref, other, ErrInvalidRange)
		}
	})
	if overlap != nil {
		return nil, overlap
	}
	return ws.register(ref, true)
}

// MergedRegions returns the current corners of every merged region still on the sheet.
func (ws *Worksheet) MergedRegions() []RangeRef {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.mergedRegions()
}

func (ws *Worksheet) mergedRegions() []RangeRef {
	var out []RangeRef
	ws.ranges.each(func(_ int, s *rangeSlot) {
		if s.merged && s.valid {
			out = append(out, s.ref(ws.name))
		}
	})
	return out
}
