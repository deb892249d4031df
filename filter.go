package xlgrid

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// cellEnv is the environment a CellsWhere condition is evaluated against.
type cellEnv struct {
	Row     int    `expr:"row"`
	Col     int    `expr:"col"`
	Column  string `expr:"column"`
	Value   any    `expr:"value"`
	Text    string `expr:"text"`
	Formula string `expr:"formula"`
	Blank   bool   `expr:"blank"`
	Bold    bool   `expr:"bold"`
}

// conditionCache holds compiled conditions keyed by source text.
var conditionCache sync.Map // string → *vm.Program

func compileCondition(condition string) (*vm.Program, error) {
	if cached, ok := conditionCache.Load(condition); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(condition, expr.Env(cellEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", condition, err)
	}
	conditionCache.Store(condition, program)
	return program, nil
}

// CellsWhere returns the stored cells of the column for which condition is
// true. The condition is an expr-lang boolean expression over row, col,
// column, value, text, formula, blank and bold, e.g.
//
//	text != "" && row > 1
//	formula startsWith "SUM"
func (c *Column) CellsWhere(condition string) ([]*Cell, error) {
	program, err := compileCondition(condition)
	if err != nil {
		return nil, err
	}

	c.ws.mu.RLock()
	defer c.ws.mu.RUnlock()
	var cells []*Cell
	for _, row := range c.ws.grid.columnRows(c.n) {
		cd := c.ws.grid.cell(row, c.n)
		env := cellEnv{
			Row:     row,
			Col:     c.n,
			Column:  ColumnLetter(c.n),
			Value:   cd.Value,
			Text:    c.ws.opts.renderer(cd),
			Formula: cd.Formula,
			Blank:   cd.IsEmpty(),
			Bold:    cd.Font != nil && cd.Font.Bold,
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate condition %q at %s: %w", condition, CellRef{Row: row, Col: c.n}.CellName(), err)
		}
		if ok, _ := out.(bool); ok {
			cells = append(cells, c.ws.Cell(row, c.n))
		}
	}
	return cells, nil
}
