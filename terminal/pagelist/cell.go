package pagelist

import (
	"github.com/tarnhelm/vtcore/terminal/datastruct"
	"github.com/tarnhelm/vtcore/terminal/page"
	"github.com/tarnhelm/vtcore/terminal/size"
)

type Cell struct {
	Node   *datastruct.Node[*page.Page]
	Row    *page.Row
	Cell   *page.Cell
	RowIdx size.CellCountInt
	ColIdx size.CellCountInt
}

func (c *Cell) IsDirty() bool {
	return c.Node.Data.IsRowDirty(c.RowIdx)
}
