package infobox

// Grid is a fixed size rows x cols arena of cell texts. An empty string
// marks a slot no cell has claimed yet.
type Grid struct {
	rows  int
	cols  int
	cells []string
}

func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]string, rows*cols),
	}
}

func (g *Grid) Rows() int {
	return g.rows
}

func (g *Grid) Cols() int {
	return g.cols
}

func (g *Grid) At(row, col int) string {
	return g.cells[row*g.cols+col]
}

func (g *Grid) claimed(row, col int) bool {
	return g.At(row, col) != ""
}

// appendText adds text to the slot at (row, col), col is clamped to the
// last column.
func (g *Grid) appendText(row, col int, text string) {
	if col >= g.cols {
		col = g.cols - 1
	}
	g.cells[row*g.cols+col] += text
}

// Row returns a copy of one grid row.
func (g *Grid) Row(row int) []string {
	out := make([]string, g.cols)
	copy(out, g.cells[row*g.cols:(row+1)*g.cols])
	return out
}
