// Package engine implements the falling-block rules: the grid, the piece
// catalog, collision checks, locking with line clears, and the session state
// machine that ties them together. It has no I/O and no concurrency; hosts
// serialize access to a Session themselves.
package engine

import "fmt"

// Grid is a fixed-size occupancy matrix addressed as cells[y][x].
// Row 0 is the top of the well.
type Grid struct {
	width  int
	height int
	cells  [][]PieceType
}

// NewGrid creates an empty grid. Panics if either dimension is not positive.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("engine: invalid grid size %dx%d", width, height))
	}
	g := &Grid{width: width, height: height}
	g.cells = make([][]PieceType, height)
	for y := range g.cells {
		g.cells[y] = make([]PieceType, width)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns the value stored at (x, y). Panics when out of bounds.
func (g *Grid) Cell(x, y int) PieceType {
	g.mustInBounds(x, y)
	return g.cells[y][x]
}

// Occupied reports whether (x, y) holds a locked block.
// Out-of-bounds coordinates are a caller error and panic; use InBounds first.
func (g *Grid) Occupied(x, y int) bool {
	return g.Cell(x, y) != Empty
}

// Set writes a piece type into (x, y). Writing Empty clears the cell.
func (g *Grid) Set(x, y int, t PieceType) {
	g.mustInBounds(x, y)
	if t != Empty && !t.Valid() {
		panic(fmt.Sprintf("engine: invalid cell value %d", uint8(t)))
	}
	g.cells[y][x] = t
}

// RowFull reports whether every cell of row y is occupied.
func (g *Grid) RowFull(y int) bool {
	g.mustInBounds(0, y)
	for _, c := range g.cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// FullRows returns the indices of all full rows, top to bottom.
func (g *Grid) FullRows() []int {
	var rows []int
	for y := range g.height {
		if g.RowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearRow empties every cell of row y without moving other rows.
func (g *Grid) ClearRow(y int) {
	g.mustInBounds(0, y)
	for x := range g.cells[y] {
		g.cells[y][x] = Empty
	}
}

// Compact removes the given rows at once. Remaining rows keep their relative
// order and settle at the bottom; the vacated rows at the top are empty.
func (g *Grid) Compact(rows []int) {
	if len(rows) == 0 {
		return
	}
	removed := make(map[int]bool, len(rows))
	for _, y := range rows {
		g.mustInBounds(0, y)
		removed[y] = true
	}

	dst := g.height - 1
	for src := g.height - 1; src >= 0; src-- {
		if removed[src] {
			continue
		}
		if dst != src {
			copy(g.cells[dst], g.cells[src])
		}
		dst--
	}
	for ; dst >= 0; dst-- {
		g.ClearRow(dst)
	}
}

// Reset empties the whole grid.
func (g *Grid) Reset() {
	for y := range g.cells {
		g.ClearRow(y)
	}
}

// Cells returns a deep copy of the grid contents, indexed [y][x].
func (g *Grid) Cells() [][]PieceType {
	out := make([][]PieceType, g.height)
	for y := range g.cells {
		out[y] = make([]PieceType, g.width)
		copy(out[y], g.cells[y])
	}
	return out
}

// Flatten returns the grid as a row-major slice of cell values.
// This layout exists for serialization only.
func (g *Grid) Flatten() []int {
	out := make([]int, 0, g.width*g.height)
	for _, row := range g.cells {
		for _, c := range row {
			out = append(out, int(c))
		}
	}
	return out
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{width: g.width, height: g.height, cells: g.Cells()}
}

func (g *Grid) mustInBounds(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("engine: cell (%d, %d) outside %dx%d grid", x, y, g.width, g.height))
	}
}
