package xlgrid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/efp"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Formula cannot be evaluated as stored
	SeverityWarning                 // Sheet may not display what its data says
)

// ValidationIssue represents a single problem found on a worksheet.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef // Row and Col are 0 for sheet-level issues
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	where := v.CellRef.String()
	if v.CellRef.Row == 0 {
		where = quoteSheet(v.CellRef.Sheet)
	}
	return fmt.Sprintf("[%s] %s: %s", sev, where, v.Message)
}

// Validate checks the sheet for damage that structural edits leave behind
// or that a loaded file already carried: formulas that do not parse,
// formulas holding #REF!, references past the sheet limits, registered
// ranges that were invalidated, and values hidden under merged regions.
func (ws *Worksheet) Validate() []ValidationIssue {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	var issues []ValidationIssue
	issues = append(issues, ws.validateRanges()...)

	var cells []ValidationIssue
	ws.grid.eachCell(func(ref CellRef, cd *CellData) {
		ref.Sheet = ws.name
		if cd.IsFormulaCell() {
			cells = append(cells, ws.validateFormula(ref, cd.Formula)...)
		}
	})
	cells = append(cells, ws.validateMerges()...)
	sort.SliceStable(cells, func(i, j int) bool {
		a, b := cells[i].CellRef, cells[j].CellRef
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return append(issues, cells...)
}

// validateRanges reports registered ranges an edit invalidated.
func (ws *Worksheet) validateRanges() []ValidationIssue {
	invalid := 0
	ws.ranges.each(func(_ int, s *rangeSlot) {
		if !s.valid {
			invalid++
		}
	})
	if invalid == 0 {
		return nil
	}
	return []ValidationIssue{{
		Severity: SeverityWarning,
		CellRef:  CellRef{Sheet: ws.name},
		Message:  fmt.Sprintf("%d registered range(s) no longer refer to any cell", invalid),
	}}
}

// validateFormula tokenizes one formula and reports what is wrong with it.
func (ws *Worksheet) validateFormula(ref CellRef, formula string) []ValidationIssue {
	var issues []ValidationIssue
	ps := efp.ExcelParser()
	for _, t := range ps.Parse(formula) {
		switch {
		case t.TType == efp.TokenTypeUnknown:
			return []ValidationIssue{{
				Severity: SeverityError,
				CellRef:  ref,
				Message:  fmt.Sprintf("formula %q does not parse", formula),
			}}
		case t.TType != efp.TokenTypeOperand:
		case t.TSubType == efp.TokenSubTypeError && t.TValue == "#REF!":
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				CellRef:  ref,
				Message:  fmt.Sprintf("formula %q has a broken reference", formula),
			})
		case t.TSubType == efp.TokenSubTypeRange:
			if outside := ws.outsideLimits(t.TValue); outside != "" {
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					CellRef:  ref,
					Message:  fmt.Sprintf("reference %s is outside the sheet (%s)", t.TValue, outside),
				})
			}
		}
	}
	return issues
}

// outsideLimits describes how a same-sheet reference exceeds the configured
// limits, or returns "" when it fits or is not a plain A1 reference.
func (ws *Worksheet) outsideLimits(operand string) string {
	if strings.ContainsAny(operand, "[]") {
		return ""
	}
	sheet, body := splitSheet(operand)
	if strings.Contains(operand, "!") && !strings.EqualFold(sheet, ws.name) {
		return ""
	}
	for _, s := range strings.SplitN(body, ":", 2) {
		p, ok := parseRefPart(s)
		if !ok {
			return ""
		}
		if p.col > ws.opts.maxColumns {
			return fmt.Sprintf("column limit %d", ws.opts.maxColumns)
		}
		if p.row > ws.opts.maxRows {
			return fmt.Sprintf("row limit %d", ws.opts.maxRows)
		}
	}
	return ""
}

// validateMerges reports non-empty cells covered by a merged region other
// than its anchor; only the anchor is displayed.
func (ws *Worksheet) validateMerges() []ValidationIssue {
	var issues []ValidationIssue
	for _, m := range ws.mergedRegions() {
		for col := m.First.Col; col <= m.Last.Col; col++ {
			for _, row := range ws.grid.columnRows(col) {
				if row < m.First.Row || row > m.Last.Row {
					continue
				}
				if row == m.First.Row && col == m.First.Col {
					continue
				}
				if ws.grid.cell(row, col).IsEmpty() {
					continue
				}
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					CellRef:  NewCellRef(ws.name, row, col),
					Message:  fmt.Sprintf("value hidden by merged region %s", m.First.CellName()+":"+m.Last.CellName()),
				})
			}
		}
	}
	return issues
}
