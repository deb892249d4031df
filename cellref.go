package xlgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Host format limits.
const (
	MaxColumns      = 16384
	MaxRows         = 1048576
	MaxOutlineLevel = 7
)

// CellRef represents a single cell reference in a worksheet.
type CellRef struct {
	Sheet string // sheet name (empty = current sheet)
	Row   int    // 1-based row ordinal
	Col   int    // 1-based column ordinal
}

// NewCellRef creates a CellRef with explicit sheet, row, col.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// ParseCellRef parses a cell reference string like "A1", "Sheet1!B5", or "$A$1".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference: %w", ErrInvalidAddress)
	}

	sheet, cellPart := splitSheet(s)
	cellPart = strings.ReplaceAll(cellPart, "$", "")
	if cellPart == "" {
		return CellRef{}, fmt.Errorf("cell reference %q: %w", s, ErrInvalidAddress)
	}

	col, row, err := parseCellName(cellPart)
	if err != nil {
		return CellRef{}, fmt.Errorf("cell reference %q: %w", s, err)
	}
	return CellRef{Sheet: sheet, Row: row, Col: col}, nil
}

// splitSheet separates an optional "Sheet!" or "'My Sheet'!" prefix.
func splitSheet(s string) (sheet, rest string) {
	idx := strings.LastIndex(s, "!")
	if idx < 0 {
		return "", s
	}
	sheet = s[:idx]
	if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, s[idx+1:]
}

// parseCellName parses "A1" into col=1, row=1.
func parseCellName(name string) (col, row int, err error) {
	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return 0, 0, fmt.Errorf("cell name %q: %w", name, ErrInvalidAddress)
	}

	col, err = ColumnNumber(name[:i])
	if err != nil {
		return 0, 0, err
	}
	row, err = parseRowNumber(name[i:], MaxRows)
	if err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

func parseRowNumber(s string, limit int) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("row %q: %w", s, ErrInvalidAddress)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > limit {
		return 0, fmt.Errorf("row %q: %w", s, ErrInvalidAddress)
	}
	return n, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// String formats the CellRef as "Sheet1!A1" or "A1" if no sheet.
func (c CellRef) String() string {
	name := c.CellName()
	if c.Sheet != "" {
		return quoteSheet(c.Sheet) + "!" + name
	}
	return name
}

// CellName returns just the cell part like "A1" without sheet name.
func (c CellRef) CellName() string {
	return ColumnLetter(c.Col) + strconv.Itoa(c.Row)
}

// quoteSheet wraps a sheet name in single quotes when it is not a plain identifier.
func quoteSheet(name string) string {
	for _, r := range name {
		if !(r == '_' || r == '.' || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}
	return name
}

// ColumnLetter converts a 1-based column ordinal to its label.
// 1→"A", 26→"Z", 27→"AA", 703→"AAA". Ordinals below 1 yield "".
func ColumnLetter(n int) string {
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// ColumnNumber converts a column label to its 1-based ordinal, bounded by MaxColumns.
// "A"→1, "Z"→26, "AA"→27
func ColumnNumber(label string) (int, error) {
	return columnNumber(label, MaxColumns)
}

func columnNumber(label string, limit int) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("empty column label: %w", ErrInvalidAddress)
	}
	n := 0
	for i := 0; i < len(label); i++ {
		ch := label[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("column label %q: %w", label, ErrInvalidAddress)
		}
		n = n*26 + int(ch-'A') + 1
		if n > limit {
			return 0, fmt.Errorf("column label %q exceeds %d columns: %w", label, limit, ErrInvalidAddress)
		}
	}
	return n, nil
}

// RangeRef represents a rectangular area defined by two cell references.
type RangeRef struct {
	First CellRef
	Last  CellRef
}

// NewRangeRef creates a RangeRef from corner ordinals, normalizing the corners.
func NewRangeRef(sheet string, firstRow, firstCol, lastRow, lastCol int) RangeRef {
	if firstRow > lastRow {
		firstRow, lastRow = lastRow, firstRow
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}
	return RangeRef{
		First: NewCellRef(sheet, firstRow, firstCol),
		Last:  NewCellRef(sheet, lastRow, lastCol),
	}
}

// ParseRangeRef parses "A1:C5", "Sheet1!A1:C5", whole columns "A:C",
// whole rows "2:4", or a single cell "B3".
func ParseRangeRef(s string) (RangeRef, error) {
	s = strings.TrimSpace(s)
	sheet, body := splitSheet(s)
	body = strings.ReplaceAll(body, "$", "")
	parts := strings.SplitN(body, ":", 2)
	if len(parts) == 1 {
		ref, err := ParseCellRef(body)
		if err != nil {
			return RangeRef{}, fmt.Errorf("range reference %q: %w", s, err)
		}
		ref.Sheet = sheet
		return RangeRef{First: ref, Last: ref}, nil
	}

	a, b := parts[0], parts[1]
	switch {
	case isLetters(a) && isLetters(b):
		c1, err := ColumnNumber(a)
		if err != nil {
			return RangeRef{}, fmt.Errorf("range reference %q: %w", s, err)
		}
		c2, err := ColumnNumber(b)
		if err != nil {
			return RangeRef{}, fmt.Errorf("range reference %q: %w", s, err)
		}
		return NewRangeRef(sheet, 1, c1, MaxRows, c2), nil
	case isDigits(a) && isDigits(b):
		r1, err := parseRowNumber(a, MaxRows)
		if err != nil {
			return RangeRef{}, fmt.Errorf("range reference %q: %w", s, err)
		}
		r2, err := parseRowNumber(b, MaxRows)
		if err != nil {
			return RangeRef{}, fmt.Errorf("range reference %q: %w", s, err)
		}
		return NewRangeRef(sheet, r1, 1, r2, MaxColumns), nil
	}

	first, err := ParseCellRef(a)
	if err != nil {
		return RangeRef{}, fmt.Errorf("range reference %q: %w", s, err)
	}
	last, err := ParseCellRef(b)
	if err != nil {
		return RangeRef{}, fmt.Errorf("range reference %q: %w", s, err)
	}
	return NewRangeRef(sheet, first.Row, first.Col, last.Row, last.Col), nil
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String formats the RangeRef as "Sheet1!A1:C5" or "A1:C5".
func (r RangeRef) String() string {
	s := r.First.CellName() + ":" + r.Last.CellName()
	if r.First.Sheet != "" {
		return quoteSheet(r.First.Sheet) + "!" + s
	}
	return s
}

// Width returns the number of columns in the range.
func (r RangeRef) Width() int { return r.Last.Col - r.First.Col + 1 }

// Height returns the number of rows in the range.
func (r RangeRef) Height() int { return r.Last.Row - r.First.Row + 1 }

// Contains returns true if the given cell reference is within this range.
func (r RangeRef) Contains(ref CellRef) bool {
	return ref.Row >= r.First.Row && ref.Row <= r.Last.Row &&
		ref.Col >= r.First.Col && ref.Col <= r.Last.Col
}
