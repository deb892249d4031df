package xlgrid

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// OpenWorksheet opens an xlsx file and loads one sheet. An empty sheet name
// selects the first sheet of the workbook. The worksheet keeps the workbook
// open until Close.
func OpenWorksheet(path, sheet string, opts ...Option) (*Worksheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	ws, err := Load(f, sheet, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	ws.ownsSource = true
	return ws, nil
}

// Load reads one sheet of an excelize workbook into a new Worksheet: cell
// values, formulas, fonts, column widths, outline levels, visibility,
// custom row heights and merged regions.
//
// The worksheet remembers f. File, WriteTo and SaveAs write its state back
// into f, so the other sheets and everything the grid does not model
// (number formats, fills, borders, comments, drawings) are kept.
func Load(f *excelize.File, sheet string, opts ...Option) (*Worksheet, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}

	ws := NewWorksheet(sheet, opts...)
	l := &loader{f: f, ws: ws, sheet: sheet, fonts: newFontCache(f, ws.opts.defaultFont)}
	maxCol := 0
	for rowIdx, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
		for colIdx, raw := range row {
			if err := l.cell(rowIdx+1, colIdx+1, raw); err != nil {
				return nil, err
			}
		}
	}
	if err := l.rows(); err != nil {
		return nil, err
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("read merged cells from sheet %q: %w", sheet, err)
	}
	for _, m := range merges {
		r, err := ws.MergeCells(m.GetStartAxis() + ":" + m.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merge %s:%s: %w", m.GetStartAxis(), m.GetEndAxis(), err)
		}
		if ref, _ := r.Address(); ref.Last.Col > maxCol {
			maxCol = ref.Last.Col
		}
	}

	last, err := l.lastDefinedColumn(maxCol)
	if err != nil {
		return nil, err
	}
	if err := l.columns(last); err != nil {
		return nil, err
	}

	ws.mu.Lock()
	ws.source = f
	ws.mu.Unlock()
	return ws, nil
}

type loader struct {
	f     *excelize.File
	ws    *Worksheet
	sheet string
	fonts *fontCache
}

func (l *loader) cell(row, col int, raw string) error {
	name := CellRef{Row: row, Col: col}.CellName()
	formula, err := l.f.GetCellFormula(l.sheet, name)
	if err != nil {
		return fmt.Errorf("read formula %s: %w", name, err)
	}
	if raw == "" && formula == "" {
		return nil
	}
	typ, err := l.f.GetCellType(l.sheet, name)
	if err != nil {
		return fmt.Errorf("read cell type %s: %w", name, err)
	}

	c := l.ws.Cell(row, col)
	if formula != "" {
		if err := c.SetFormula(formula); err != nil {
			return err
		}
		if raw != "" {
			if err := c.SetCachedValue(typedValue(raw, typ)); err != nil {
				return err
			}
		}
	} else if err := c.SetValue(typedValue(raw, typ)); err != nil {
		return err
	}

	font, err := l.font(name)
	if err != nil {
		return err
	}
	if font != nil {
		return c.SetFont(*font)
	}
	return nil
}

// typedValue converts a raw cell string to the Go value the grid stores.
func typedValue(raw string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

func (l *loader) font(cell string) (*Font, error) {
	id, err := l.f.GetCellStyle(l.sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("read style %s: %w", cell, err)
	}
	return l.fonts.font(id)
}

// fontCache maps style IDs to the grid's view of their font: nil for the
// default font.
type fontCache struct {
	f     *excelize.File
	def   Font
	fonts map[int]*Font
}

func newFontCache(f *excelize.File, def Font) *fontCache {
	return &fontCache{f: f, def: def, fonts: make(map[int]*Font)}
}

func (c *fontCache) font(id int) (*Font, error) {
	if id == 0 {
		return nil, nil
	}
	if font, ok := c.fonts[id]; ok {
		return font, nil
	}
	style, err := c.f.GetStyle(id)
	if err != nil {
		return nil, fmt.Errorf("read style %d: %w", id, err)
	}
	var font *Font
	if style.Font != nil {
		font = &Font{
			Family: style.Font.Family,
			Size:   style.Font.Size,
			Bold:   style.Font.Bold,
			Italic: style.Font.Italic,
		}
		if font.Family == "" {
			font.Family = c.def.Family
		}
		if font.Size == 0 {
			font.Size = c.def.Size
		}
		if *font == c.def {
			font = nil
		}
	}
	c.fonts[id] = font
	return font, nil
}

// same reports whether two cell fonts render alike, treating nil as the default.
func (c *fontCache) same(a, b *Font) bool {
	fa, fb := c.def, c.def
	if a != nil {
		fa = *a
	}
	if b != nil {
		fb = *b
	}
	return fa == fb
}

// rows reads height, outline level and visibility of every row the sheet
// defines, including rows that hold no cells.
func (l *loader) rows() error {
	it, err := l.f.Rows(l.sheet)
	if err != nil {
		return fmt.Errorf("read rows from sheet %q: %w", l.sheet, err)
	}
	last := 0
	for it.Next() {
		last++
	}
	if err := it.Error(); err != nil {
		it.Close()
		return fmt.Errorf("read rows from sheet %q: %w", l.sheet, err)
	}
	if err := it.Close(); err != nil {
		return err
	}

	var hidden []int
	for row := 1; row <= last; row++ {
		h, err := l.f.GetRowHeight(l.sheet, row)
		if err != nil {
			return fmt.Errorf("read height of row %d: %w", row, err)
		}
		if h != l.ws.opts.defaultHeight {
			if err := l.ws.SetRowHeight(row, h); err != nil {
				return err
			}
		}
		level, err := l.f.GetRowOutlineLevel(l.sheet, row)
		if err != nil {
			return fmt.Errorf("read outline level of row %d: %w", row, err)
		}
		visible, err := l.f.GetRowVisible(l.sheet, row)
		if err != nil {
			return fmt.Errorf("read visibility of row %d: %w", row, err)
		}
		if level > 0 {
			collapse := !visible
			l.ws.mu.Lock()
			err = l.ws.setOutlineLevel(Rows, row, int(level), &collapse)
			l.ws.mu.Unlock()
			if err != nil {
				return err
			}
		}
		if !visible {
			hidden = append(hidden, row)
		}
	}

	l.ws.mu.Lock()
	defer l.ws.mu.Unlock()
	for _, row := range hidden {
		if !l.ws.isHidden(Rows, row) {
			l.ws.setHidden(Rows, row, true)
		}
	}
	return nil
}

// lastDefinedColumn returns the highest column that holds data (from) or
// carries a width, outline level or hidden flag of its own.
func (l *loader) lastDefinedColumn(from int) (int, error) {
	for n := min(l.ws.opts.maxColumns, excelize.MaxColumns); n > from; n-- {
		letter := ColumnLetter(n)
		w, err := l.f.GetColWidth(l.sheet, letter)
		if err != nil {
			return 0, fmt.Errorf("read width of column %s: %w", letter, err)
		}
		level, err := l.f.GetColOutlineLevel(l.sheet, letter)
		if err != nil {
			return 0, fmt.Errorf("read outline level of column %s: %w", letter, err)
		}
		visible, err := l.f.GetColVisible(l.sheet, letter)
		if err != nil {
			return 0, fmt.Errorf("read visibility of column %s: %w", letter, err)
		}
		if w != l.ws.opts.defaultWidth || level > 0 || !visible {
			return n, nil
		}
	}
	return from, nil
}

// columns reads width, outline level and visibility of columns 1..last.
// The file format keeps no collapsed flag per detail column, so a hidden
// column inside a group is read back as collapsed.
func (l *loader) columns(last int) error {
	var hidden []*Column
	for n := 1; n <= last; n++ {
		letter := ColumnLetter(n)
		col, err := l.ws.Column(n)
		if err != nil {
			return err
		}
		w, err := l.f.GetColWidth(l.sheet, letter)
		if err != nil {
			return fmt.Errorf("read width of column %s: %w", letter, err)
		}
		if w != l.ws.opts.defaultWidth {
			if err := col.SetWidth(w); err != nil {
				return err
			}
		}
		level, err := l.f.GetColOutlineLevel(l.sheet, letter)
		if err != nil {
			return fmt.Errorf("read outline level of column %s: %w", letter, err)
		}
		visible, err := l.f.GetColVisible(l.sheet, letter)
		if err != nil {
			return fmt.Errorf("read visibility of column %s: %w", letter, err)
		}
		if level > 0 {
			if err := col.GroupLevelCollapse(int(level), !visible); err != nil {
				return err
			}
		}
		if !visible {
			hidden = append(hidden, col)
		}
	}
	for _, col := range hidden {
		if !col.IsHidden() {
			col.Hide()
		}
	}
	return nil
}


// File returns the worksheet as an excelize workbook. A worksheet read by
// Load or OpenWorksheet writes its state into the workbook it came from and
// returns that workbook, which stays owned by the worksheet. Any other
// worksheet is exported into a new single-sheet workbook the caller must
// close.
func (ws *Worksheet) File() (*excelize.File, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	f, _, err := ws.file()
	return f, err
}

// file syncs the worksheet into its source workbook, or into a new one.
// fresh reports whether f was created here. Callers hold the write lock.
func (ws *Worksheet) file() (f *excelize.File, fresh bool, err error) {
	if ws.source != nil {
		if err := ws.sync(ws.source); err != nil {
			return nil, false, err
		}
		return ws.source, false, nil
	}

	f = excelize.NewFile()
	sheet := ws.name
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, false, fmt.Errorf("name sheet %q: %w", sheet, err)
		}
	}
	x := &exporter{ws: ws, f: f, sheet: sheet, fonts: newFontCache(f, ws.opts.defaultFont), styles: make(map[styleKey]int)}
	if err := x.export(); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, true, nil
}

// sync brings the source workbook in line with the worksheet. Structural
// edits made since the last sync are replayed first, so cell styles,
// comments, drawings, conditional formats and references from other sheets
// move the way the workbook expects; the grid's own content is then written
// over the result.
func (ws *Worksheet) sync(f *excelize.File) error {
	x := &exporter{ws: ws, f: f, sheet: ws.name, fonts: newFontCache(f, ws.opts.defaultFont), styles: make(map[styleKey]int)}
	if err := x.replay(); err != nil {
		return err
	}
	if err := x.clearStale(); err != nil {
		return err
	}
	return x.export()
}

// Close releases the workbook opened by OpenWorksheet. A workbook passed to
// Load belongs to the caller and is left open. After Close, File and the
// writers export into a new workbook.
func (ws *Worksheet) Close() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.source == nil {
		return nil
	}
	var err error
	if ws.ownsSource {
		err = ws.source.Close()
	}
	ws.source, ws.ownsSource, ws.pending = nil, false, nil
	return err
}

// styleKey identifies a derived style: a base style with its font replaced.
type styleKey struct {
	base int
	font Font
}

type exporter struct {
	ws     *Worksheet
	f      *excelize.File
	sheet  string
	fonts  *fontCache
	styles map[styleKey]int
}

// replay applies the pending structural edits to the workbook.
func (x *exporter) replay() error {
	ws := x.ws
	for len(ws.pending) > 0 {
		e := ws.pending[0]
		var err error
		switch {
		case e.axis == Columns && e.insert:
			err = x.f.InsertCols(x.sheet, ColumnLetter(e.at), e.count)
		case e.axis == Columns:
			for i := 0; i < e.count && err == nil; i++ {
				err = x.f.RemoveCol(x.sheet, ColumnLetter(e.at))
			}
		case e.insert:
			err = x.f.InsertRows(x.sheet, e.at, e.count)
		default:
			for i := 0; i < e.count && err == nil; i++ {
				err = x.f.RemoveRow(x.sheet, e.at)
			}
		}
		if err != nil {
			return fmt.Errorf("replay %s %s at %d: %w", e.verb(), e.axis, e.at, err)
		}
		ws.pending = ws.pending[1:]
	}
	ws.pending = nil
	return nil
}

// clearStale empties cells the workbook holds but the grid does not, such
// as cells cleared since loading. The cell style is kept.
func (x *exporter) clearStale() error {
	rows, err := x.f.GetRows(x.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("read rows from sheet %q: %w", x.sheet, err)
	}
	for rowIdx, row := range rows {
		for colIdx, raw := range row {
			if !x.ws.grid.cell(rowIdx+1, colIdx+1).IsEmpty() {
				continue
			}
			name := CellRef{Row: rowIdx + 1, Col: colIdx + 1}.CellName()
			if raw == "" {
				formula, err := x.f.GetCellFormula(x.sheet, name)
				if err != nil {
					return fmt.Errorf("read formula %s: %w", name, err)
				}
				if formula == "" {
					continue
				}
			}
			if err := x.f.SetCellValue(x.sheet, name, nil); err != nil {
				return fmt.Errorf("clear %s: %w", name, err)
			}
		}
	}
	return nil
}

func (x *exporter) export() error {
	ws := x.ws
	for _, col := range ws.usedColumns() {
		for _, row := range ws.grid.columnRows(col) {
			if err := x.cell(row, col, ws.grid.cell(row, col)); err != nil {
				return err
			}
		}
		if l := ws.grid.line(Columns, col); l != nil {
			if err := x.column(col, l); err != nil {
				return err
			}
		}
	}
	for _, row := range ws.grid.sortedLines(Rows) {
		if err := x.row(row, ws.grid.line(Rows, row)); err != nil {
			return err
		}
	}
	return x.merges()
}

// cell writes value and formula, then swaps the font into the cell's style
// when it differs. Every other style attribute is kept.
func (x *exporter) cell(row, col int, cd *CellData) error {
	name := CellRef{Row: row, Col: col}.CellName()
	if err := x.f.SetCellValue(x.sheet, name, cd.Value); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if cd.Formula != "" {
		if err := x.f.SetCellFormula(x.sheet, name, cd.Formula); err != nil {
			return fmt.Errorf("write formula %s: %w", name, err)
		}
	}

	id, err := x.f.GetCellStyle(x.sheet, name)
	if err != nil {
		return fmt.Errorf("read style %s: %w", name, err)
	}
	current, err := x.fonts.font(id)
	if err != nil {
		return err
	}
	if x.fonts.same(current, cd.Font) {
		return nil
	}
	font := x.ws.opts.defaultFont
	if cd.Font != nil {
		font = *cd.Font
	}
	key := styleKey{base: id, font: font}
	styleID, ok := x.styles[key]
	if !ok {
		style, err := x.f.GetStyle(id)
		if err != nil {
			return fmt.Errorf("read style %d: %w", id, err)
		}
		style.Font = &excelize.Font{Family: font.Family, Size: font.Size, Bold: font.Bold, Italic: font.Italic}
		if styleID, err = x.f.NewStyle(style); err != nil {
			return fmt.Errorf("create font style: %w", err)
		}
		x.styles[key] = styleID
	}
	if err := x.f.SetCellStyle(x.sheet, name, name, styleID); err != nil {
		return fmt.Errorf("style %s: %w", name, err)
	}
	return nil
}

// column writes the attributes that differ from what the workbook holds.
func (x *exporter) column(n int, l *lineRecord) error {
	letter := ColumnLetter(n)
	width := x.ws.opts.defaultWidth
	if l.custom {
		width = l.size
	}
	got, err := x.f.GetColWidth(x.sheet, letter)
	if err != nil {
		return fmt.Errorf("read width of column %s: %w", letter, err)
	}
	if got != width {
		if err := x.f.SetColWidth(x.sheet, letter, letter, width); err != nil {
			return fmt.Errorf("width of column %s: %w", letter, err)
		}
	}

	level, err := x.f.GetColOutlineLevel(x.sheet, letter)
	if err != nil {
		return fmt.Errorf("read outline level of column %s: %w", letter, err)
	}
	if err := x.outline(Columns, n, int(level), l.outline); err != nil {
		return err
	}

	visible, err := x.f.GetColVisible(x.sheet, letter)
	if err != nil {
		return fmt.Errorf("read visibility of column %s: %w", letter, err)
	}
	if hidden := x.ws.isHidden(Columns, n); visible == hidden {
		if err := x.f.SetColVisible(x.sheet, letter, !hidden); err != nil {
			return fmt.Errorf("hide column %s: %w", letter, err)
		}
	}
	return nil
}

func (x *exporter) row(n int, l *lineRecord) error {
	height := x.ws.opts.defaultHeight
	if l.custom {
		height = l.size
	}
	got, err := x.f.GetRowHeight(x.sheet, n)
	if err != nil {
		return fmt.Errorf("read height of row %d: %w", n, err)
	}
	if got != height {
		if err := x.f.SetRowHeight(x.sheet, n, height); err != nil {
			return fmt.Errorf("height of row %d: %w", n, err)
		}
	}

	level, err := x.f.GetRowOutlineLevel(x.sheet, n)
	if err != nil {
		return fmt.Errorf("read outline level of row %d: %w", n, err)
	}
	if err := x.outline(Rows, n, int(level), l.outline); err != nil {
		return err
	}

	visible, err := x.f.GetRowVisible(x.sheet, n)
	if err != nil {
		return fmt.Errorf("read visibility of row %d: %w", n, err)
	}
	if hidden := x.ws.isHidden(Rows, n); visible == hidden {
		if err := x.f.SetRowVisible(x.sheet, n, !hidden); err != nil {
			return fmt.Errorf("hide row %d: %w", n, err)
		}
	}
	return nil
}

// outline sets a line's outline level. excelize writes levels 1..7 only, so
// a level the workbook already holds cannot be cleared back to 0.
func (x *exporter) outline(axis Axis, n, got, want int) error {
	if got == want {
		return nil
	}
	if want == 0 {
		x.ws.logger().WithFields(logrus.Fields{
			"axis":    axis.String(),
			"ordinal": n,
			"level":   got,
		}).Warn("outline level cannot be cleared in the workbook")
		return nil
	}
	var err error
	if axis == Columns {
		err = x.f.SetColOutlineLevel(x.sheet, ColumnLetter(n), uint8(want))
	} else {
		err = x.f.SetRowOutlineLevel(x.sheet, n, uint8(want))
	}
	if err != nil {
		return fmt.Errorf("outline of %s %d: %w", axis, n, err)
	}
	return nil
}

// merges replaces the sheet's merged cells with the grid's merged regions.
func (x *exporter) merges() error {
	existing, err := x.f.GetMergeCells(x.sheet)
	if err != nil {
		return fmt.Errorf("read merged cells from sheet %q: %w", x.sheet, err)
	}
	for _, m := range existing {
		if err := x.f.UnmergeCell(x.sheet, m.GetStartAxis(), m.GetEndAxis()); err != nil {
			return fmt.Errorf("unmerge %s:%s: %w", m.GetStartAxis(), m.GetEndAxis(), err)
		}
	}

	merges := x.ws.mergedRegions()
	sort.Slice(merges, func(i, j int) bool {
		if merges[i].First.Row != merges[j].First.Row {
			return merges[i].First.Row < merges[j].First.Row
		}
		return merges[i].First.Col < merges[j].First.Col
	})
	for _, m := range merges {
		if m.Width() == 1 && m.Height() == 1 {
			continue
		}
		if err := x.f.MergeCell(x.sheet, m.First.CellName(), m.Last.CellName()); err != nil {
			return fmt.Errorf("merge %s: %w", m, err)
		}
	}
	return nil
}

// WriteTo writes the worksheet as an xlsx workbook.
func (ws *Worksheet) WriteTo(w io.Writer) (int64, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	f, fresh, err := ws.file()
	if err != nil {
		return 0, err
	}
	if fresh {
		defer f.Close()
	}
	return f.WriteTo(w)
}

// SaveAs writes the worksheet as an xlsx file.
func (ws *Worksheet) SaveAs(path string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	f, fresh, err := ws.file()
	if err != nil {
		return err
	}
	if fresh {
		defer f.Close()
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return nil
}
