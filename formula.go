package xlgrid

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// refPartRegex matches one side of an A1 reference: "$B$7", "B7", "B" or "7".
var refPartRegex = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})?(\$?)([0-9]+)?$`)

// refPart is one corner of a reference operand with its anchoring preserved.
type refPart struct {
	colAbs, rowAbs bool
	col, row       int // 0 when absent
}

func parseRefPart(s string) (refPart, bool) {
	m := refPartRegex.FindStringSubmatch(s)
	if m == nil || (m[2] == "" && m[4] == "") {
		return refPart{}, false
	}
	var p refPart
	if m[2] != "" {
		col, err := ColumnNumber(m[2])
		if err != nil {
			return refPart{}, false
		}
		p.col = col
		p.colAbs = m[1] == "$"
	} else if m[1] == "$" {
		p.rowAbs = true
	}
	if m[4] != "" {
		row, err := strconv.Atoi(m[4])
		if err != nil || row < 1 {
			return refPart{}, false
		}
		p.row = row
		p.rowAbs = p.rowAbs || m[3] == "$"
	}
	return p, true
}

func (p refPart) get(axis Axis) int {
	if axis == Columns {
		return p.col
	}
	return p.row
}

func (p *refPart) set(axis Axis, n int) {
	if axis == Columns {
		p.col = n
	} else {
		p.row = n
	}
}

func (p refPart) String() string {
	var b strings.Builder
	if p.col > 0 {
		if p.colAbs {
			b.WriteByte('$')
		}
		b.WriteString(ColumnLetter(p.col))
	}
	if p.row > 0 {
		if p.rowAbs {
			b.WriteByte('$')
		}
		b.WriteString(strconv.Itoa(p.row))
	}
	return b.String()
}

// adjustFormula rewrites the references in formula that point at sheet so
// they follow the edit. It returns the rewritten formula and the original
// text of every reference the edit removed; those are replaced by #REF!.
// Formulas efp cannot tokenize are returned unchanged.
func adjustFormula(formula, sheet string, e edit, limit int) (string, []string) {
	if formula == "" {
		return formula, nil
	}
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	changed := false
	var lost []string
	for i, t := range tokens {
		if t.TType == efp.TokenTypeUnknown {
			return formula, nil
		}
		if t.TType != efp.TokenTypeOperand || t.TSubType != efp.TokenSubTypeRange {
			continue
		}
		out, ok, moved := adjustOperand(t.TValue, sheet, e, limit)
		if !ok {
			lost = append(lost, t.TValue)
		}
		if moved {
			tokens[i].TValue = out
			changed = true
		}
		if !ok {
			tokens[i].TSubType = efp.TokenSubTypeError
		}
	}
	if !changed {
		return formula, nil
	}
	return renderTokens(tokens), lost
}

// adjustOperand maps one range operand. ok is false when the reference was
// removed; moved reports whether the text changed at all.
func adjustOperand(value, sheet string, e edit, limit int) (out string, ok, moved bool) {
	if strings.ContainsAny(value, "[]") {
		return value, true, false
	}
	refSheet, body := splitSheet(value)
	prefix := ""
	if strings.Contains(value, "!") {
		if !strings.EqualFold(refSheet, sheet) {
			return value, true, false
		}
		prefix = quoteSheet(refSheet) + "!"
	}

	raw := strings.SplitN(body, ":", 2)
	parts := make([]refPart, len(raw))
	for i, s := range raw {
		p, valid := parseRefPart(s)
		if !valid {
			// defined name or something efp classified loosely
			return value, true, false
		}
		parts[i] = p
	}
	if len(parts) == 1 && (parts[0].col == 0 || parts[0].row == 0) {
		return value, true, false
	}

	first := parts[0].get(e.axis)
	last := parts[len(parts)-1].get(e.axis)
	if first == 0 || last == 0 {
		// whole rows under a column edit, or whole columns under a row edit
		return value, true, false
	}
	lo, hi := first, last
	if lo > hi {
		lo, hi = hi, lo
	}
	nlo, nhi, valid := e.moveSpan(lo, hi, limit)
	if !valid {
		return "#REF!", false, true
	}
	if nlo == lo && nhi == hi {
		return value, true, false
	}
	if first <= last {
		parts[0].set(e.axis, nlo)
		parts[len(parts)-1].set(e.axis, nhi)
	} else {
		parts[0].set(e.axis, nhi)
		parts[len(parts)-1].set(e.axis, nlo)
	}

	var b strings.Builder
	b.WriteString(prefix)
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(p.String())
	}
	return b.String(), true, true
}

// renderTokens writes efp tokens back to formula text. It restores what the
// tokenizer drops: string quoting, array braces and row separators.
func renderTokens(tokens []efp.Token) string {
	var b strings.Builder
	var stack []string
	for i, t := range tokens {
		switch t.TType {
		case efp.TokenTypeFunction:
			if t.TSubType == efp.TokenSubTypeStart {
				stack = append(stack, t.TValue)
				switch t.TValue {
				case "ARRAY":
					b.WriteByte('{')
				case "ARRAYROW":
				default:
					b.WriteString(t.TValue)
					b.WriteByte('(')
				}
				continue
			}
			name := ""
			if n := len(stack); n > 0 {
				name = stack[n-1]
				stack = stack[:n-1]
			}
			switch name {
			case "ARRAY":
				b.WriteByte('}')
			case "ARRAYROW":
			default:
				b.WriteByte(')')
			}
		case efp.TokenTypeSubexpression:
			if t.TSubType == efp.TokenSubTypeStart {
				stack = append(stack, "")
				b.WriteByte('(')
				continue
			}
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			b.WriteByte(')')
		case efp.TokenTypeArgument:
			if i+1 < len(tokens) && tokens[i+1].TType == efp.TokenTypeFunction &&
				tokens[i+1].TSubType == efp.TokenSubTypeStart && tokens[i+1].TValue == "ARRAYROW" {
				b.WriteByte(';')
				continue
			}
			b.WriteByte(',')
		case efp.TokenTypeOperand:
			if t.TSubType == efp.TokenSubTypeText {
				b.WriteByte('"')
				b.WriteString(strings.ReplaceAll(t.TValue, `"`, `""`))
				b.WriteByte('"')
				continue
			}
			if t.TSubType == efp.TokenSubTypeRange && needsQuotedSheet(t.TValue) {
				sheet, body := splitSheet(t.TValue)
				b.WriteString(quoteSheet(sheet) + "!" + body)
				continue
			}
			b.WriteString(t.TValue)
		case efp.TokenTypeOperatorInfix:
			if t.TSubType == efp.TokenSubTypeIntersection {
				b.WriteByte(' ')
				continue
			}
			if i == 0 && t.TValue == "=" {
				continue
			}
			b.WriteString(t.TValue)
		default:
			b.WriteString(t.TValue)
		}
	}
	return b.String()
}

// needsQuotedSheet reports whether an untouched operand lost the quotes
// around its sheet name during tokenizing.
func needsQuotedSheet(value string) bool {
	idx := strings.LastIndex(value, "!")
	if idx <= 0 || strings.HasPrefix(value, "'") {
		return false
	}
	return quoteSheet(value[:idx]) != value[:idx]
}

// rewriteFormulas applies an edit to every stored formula on the sheet and
// returns one event per reference the edit removed. Cells must already sit
// at their post-edit positions.
func (ws *Worksheet) rewriteFormulas(e edit, cause error) []ReferenceEvent {
	var events []ReferenceEvent
	ws.grid.eachCell(func(ref CellRef, cd *CellData) {
		if !cd.IsFormulaCell() {
			return
		}
		out, lost := adjustFormula(cd.Formula, ws.name, e, ws.limit(e.axis))
		cd.Formula = out
		for _, r := range lost {
			events = append(events, ReferenceEvent{
				Kind:      FormulaReference,
				Sheet:     ws.name,
				Cell:      NewCellRef(ws.name, ref.Row, ref.Col),
				Reference: r,
				Err:       cause,
			})
		}
	})
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i].Cell, events[j].Cell
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return events
}
