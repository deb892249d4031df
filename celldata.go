package xlgrid

import (
	"fmt"
	"strconv"
	"time"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	CellBlank CellType = iota
	CellString
	CellNumber
	CellBoolean
	CellDate
	CellFormula
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellDate:
		return "Date"
	case CellFormula:
		return "Formula"
	default:
		return "Unknown"
	}
}

// Font is the effective font of a cell, used when measuring its text.
type Font struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// DefaultFont matches the host format's default body font.
var DefaultFont = Font{Family: "Calibri", Size: 11}

// CellData holds everything stored for a single cell.
type CellData struct {
	Value   any    // literal value, or the cached result of Formula
	Formula string // formula without leading =
	Font    *Font  // nil means the worksheet default font
}

// Type derives the cell type from its value and formula.
func (cd *CellData) Type() CellType {
	if cd == nil {
		return CellBlank
	}
	if cd.Formula != "" {
		return CellFormula
	}
	switch v := cd.Value.(type) {
	case nil:
		return CellBlank
	case string:
		if v == "" {
			return CellBlank
		}
		return CellString
	case bool:
		return CellBoolean
	case time.Time:
		return CellDate
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return CellNumber
	default:
		return CellString
	}
}

// IsFormulaCell returns true if this cell contains a formula.
func (cd *CellData) IsFormulaCell() bool {
	return cd != nil && cd.Formula != ""
}

// IsEmpty reports whether the cell holds neither a value nor a formula.
func (cd *CellData) IsEmpty() bool {
	return cd.Type() == CellBlank
}

// Renderer turns stored cell data into the text a user would see.
type Renderer func(cd *CellData) string

// RenderValue is the default Renderer. It formats the value without any
// number format applied.
func RenderValue(cd *CellData) string {
	if cd == nil {
		return ""
	}
	switch v := cd.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}
