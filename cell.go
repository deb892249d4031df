package xlgrid

import (
	"fmt"
	"strings"
)

// Cell is a view of one grid position. It stores only the coordinate, so
// after an insert or delete it still addresses the same row and column
// numbers, not the content that moved away.
type Cell struct {
	ws  *Worksheet
	ref CellRef
}

// Address returns the cell reference, including the sheet name.
func (c *Cell) Address() CellRef { return c.ref }

// Row returns the 1-based row ordinal.
func (c *Cell) Row() int { return c.ref.Row }

// Col returns the 1-based column ordinal.
func (c *Cell) Col() int { return c.ref.Col }

func (c *Cell) data() *CellData {
	return c.ws.grid.cell(c.ref.Row, c.ref.Col)
}

// Value returns the stored value, or the cached result of a formula cell.
func (c *Cell) Value() any {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	if cd := c.data(); cd != nil {
		return cd.Value
	}
	return nil
}

// Type returns the cell type.
func (c *Cell) Type() CellType {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	return c.data().Type()
}

// IsEmpty reports whether the cell holds neither a value nor a formula.
func (c *Cell) IsEmpty() bool {
	return c.Type() == CellBlank
}

// SetValue stores a literal value and drops any formula.
func (c *Cell) SetValue(v any) error {
	if err := c.ws.checkCell(c.ref.Row, c.ref.Col); err != nil {
		return err
	}
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	cd := c.ws.grid.ensureCell(c.ref.Row, c.ref.Col)
	cd.Value = v
	cd.Formula = ""
	c.prune(cd)
	return nil
}

// Formula returns the formula without its leading "=", or "".
func (c *Cell) Formula() string {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	if cd := c.data(); cd != nil {
		return cd.Formula
	}
	return ""
}

// SetFormula stores a formula. The cached value is cleared.
func (c *Cell) SetFormula(formula string) error {
	if err := c.ws.checkCell(c.ref.Row, c.ref.Col); err != nil {
		return err
	}
	formula = strings.TrimPrefix(strings.TrimSpace(formula), "=")
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	cd := c.ws.grid.ensureCell(c.ref.Row, c.ref.Col)
	cd.Formula = formula
	cd.Value = nil
	c.prune(cd)
	return nil
}

// SetCachedValue stores the last computed result of a formula cell.
func (c *Cell) SetCachedValue(v any) error {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	cd := c.data()
	if !cd.IsFormulaCell() {
		return fmt.Errorf("cell %s has no formula", c.ref)
	}
	cd.Value = v
	return nil
}

// Text returns the value as rendered by the worksheet's Renderer.
func (c *Cell) Text() string {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	return c.ws.opts.renderer(c.data())
}

// Font returns the effective font of the cell.
func (c *Cell) Font() Font {
	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	if cd := c.data(); cd != nil && cd.Font != nil {
		return *cd.Font
	}
	return c.ws.opts.defaultFont
}

// SetFont gives the cell its own font.
func (c *Cell) SetFont(f Font) error {
	if err := c.ws.checkCell(c.ref.Row, c.ref.Col); err != nil {
		return err
	}
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	cd := c.ws.grid.ensureCell(c.ref.Row, c.ref.Col)
	cd.Font = &f
	return nil
}

// Clear removes the cell's value, formula and font.
func (c *Cell) Clear() {
	c.ws.mu.Lock()
	defer c.ws.mu.Unlock()
	c.ws.grid.removeCell(c.ref.Row, c.ref.Col)
}

// prune drops a cell that was written back to nothing.
func (c *Cell) prune(cd *CellData) {
	if cd.IsEmpty() && cd.Font == nil {
		c.ws.grid.removeCell(c.ref.Row, c.ref.Col)
	}
}

// String formats the cell as its address.
func (c *Cell) String() string { return c.ref.String() }
