package xlgrid

// ReferenceKind tells what kind of dependent an invalidation hit.
type ReferenceKind int

const (
	RangeReference ReferenceKind = iota
	FormulaReference
)

// String returns "range" or "formula".
func (k ReferenceKind) String() string {
	if k == FormulaReference {
		return "formula"
	}
	return "range"
}

// ReferenceEvent describes one reference that a structural edit invalidated.
type ReferenceEvent struct {
	Kind  ReferenceKind
	Sheet string
	// Range is set for RangeReference events.
	Range *Range
	// Cell is the formula cell (at its post-edit position) for FormulaReference events.
	Cell CellRef
	// Reference is the text of the reference before the edit.
	Reference string
	// Err is always ErrReferenceInvalidated, wrapped with the edit that caused it.
	Err error
}

// ReferenceListener is notified after an insert or delete invalidates a
// reference. Listeners run under the worksheet's write lock and must not
// call back into the worksheet.
type ReferenceListener interface {
	ReferenceInvalidated(ev ReferenceEvent)
}

// ReferenceListenerFunc adapts a function to ReferenceListener.
type ReferenceListenerFunc func(ev ReferenceEvent)

// ReferenceInvalidated calls f(ev).
func (f ReferenceListenerFunc) ReferenceInvalidated(ev ReferenceEvent) { f(ev) }
