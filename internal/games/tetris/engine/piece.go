package engine

// Piece is the falling piece: its type, rotation state and anchor position.
type Piece struct {
	Type     PieceType
	Rotation int
	X, Y     int
}

// Point is an absolute grid coordinate.
type Point struct {
	X, Y int
}

// Cells returns the absolute grid coordinates the piece covers.
func (p Piece) Cells() []Point {
	offsets := ShapeCells(p.Type, p.Rotation)
	pts := make([]Point, len(offsets))
	for i, o := range offsets {
		pts[i] = Point{X: p.X + o.DX, Y: p.Y + o.DY}
	}
	return pts
}

// Moved returns a copy of p translated by (dx, dy).
func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Rotated returns a copy of p advanced to its next clockwise rotation state.
func (p Piece) Rotated() Piece {
	p.Rotation = (p.Rotation + 1) % RotationCount(p.Type)
	return p
}

// MoveResult reports whether a player action changed the active piece.
type MoveResult int

const (
	Blocked MoveResult = iota
	Moved
)

// OK returns the boolean form of the result.
func (r MoveResult) OK() bool {
	return r == Moved
}

// String returns a human-readable name for the result.
func (r MoveResult) String() string {
	if r == Moved {
		return "Moved"
	}
	return "Blocked"
}

// CanPlace reports whether every cell lies inside the grid on an empty cell.
func CanPlace(g *Grid, cells []Point) bool {
	for _, c := range cells {
		if !g.InBounds(c.X, c.Y) {
			return false
		}
		if g.Occupied(c.X, c.Y) {
			return false
		}
	}
	return true
}

// Fits reports whether the piece can be placed on the grid as it is.
func Fits(g *Grid, p Piece) bool {
	return CanPlace(g, p.Cells())
}

// kickOffsets are the horizontal shifts tried, in order, when wall kicks are enabled.
var kickOffsets = []int{-1, 1}

// tryRotate returns the rotated piece and true if it fits, possibly after a kick.
func tryRotate(g *Grid, p Piece, kicks bool) (Piece, bool) {
	next := p.Rotated()
	if Fits(g, next) {
		return next, true
	}
	if !kicks {
		return p, false
	}
	for _, dx := range kickOffsets {
		if kicked := next.Moved(dx, 0); Fits(g, kicked) {
			return kicked, true
		}
	}
	return p, false
}

// dropDistance returns how many rows the piece can fall before it would collide.
func dropDistance(g *Grid, p Piece) int {
	n := 0
	for Fits(g, p.Moved(0, n+1)) {
		n++
	}
	return n
}
