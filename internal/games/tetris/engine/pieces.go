package engine

import "fmt"

// PieceType identifies one of the seven tetromino shapes.
// The zero value is reserved for an empty grid cell.
type PieceType uint8

// Piece types. The numeric values are the cell values written into the grid,
// so they double as the colour index used by clients.
const (
	Empty PieceType = iota
	PieceI
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceT
	PieceZ
)

// PieceCount is the number of distinct piece types in the catalog.
const PieceCount = 7

// Offset is a cell position relative to a piece's anchor (top-left of its bounding box).
type Offset struct {
	DX, DY int
}

// shapes holds every rotation state for every piece type, indexed by PieceType-1.
// Rotation states are listed clockwise.
var shapes = [PieceCount][][]Offset{
	// I
	{
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	// J
	{
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	// L
	{
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
	// O
	{
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	// S
	{
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
	},
	// T
	{
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	// Z
	{
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
	},
}

var pieceNames = [PieceCount]string{"I", "J", "L", "O", "S", "T", "Z"}

// Types returns all piece types in catalog order.
func Types() []PieceType {
	return []PieceType{PieceI, PieceJ, PieceL, PieceO, PieceS, PieceT, PieceZ}
}

// Valid reports whether t names a catalog piece (Empty is not a piece).
func (t PieceType) Valid() bool {
	return t >= PieceI && t <= PieceZ
}

// String returns the conventional single-letter name of the piece.
func (t PieceType) String() string {
	if !t.Valid() {
		if t == Empty {
			return "Empty"
		}
		return fmt.Sprintf("PieceType(%d)", uint8(t))
	}
	return pieceNames[t-1]
}

// RotationCount returns the number of distinct rotation states for t.
// Panics if t is not a valid piece type.
func RotationCount(t PieceType) int {
	mustValid(t)
	return len(shapes[t-1])
}

// ShapeCells returns the occupied offsets of t in the given rotation state.
// The returned slice must not be modified. Panics on an invalid type or
// a rotation index outside [0, RotationCount(t)).
func ShapeCells(t PieceType, rotation int) []Offset {
	mustValid(t)
	states := shapes[t-1]
	if rotation < 0 || rotation >= len(states) {
		panic(fmt.Sprintf("engine: rotation %d out of range for piece %s", rotation, t))
	}
	return states[rotation]
}

// Bounds returns the width and height of the bounding box of t in the given rotation,
// measured from the anchor.
func Bounds(t PieceType, rotation int) (w, h int) {
	for _, o := range ShapeCells(t, rotation) {
		w = max(w, o.DX+1)
		h = max(h, o.DY+1)
	}
	return w, h
}

// ParsePieceType converts a single-letter name back to its PieceType.
func ParsePieceType(name string) (PieceType, bool) {
	for i, n := range pieceNames {
		if n == name {
			return PieceType(i + 1), true
		}
	}
	return Empty, false
}

func mustValid(t PieceType) {
	if !t.Valid() {
		panic(fmt.Sprintf("engine: invalid piece type %d", uint8(t)))
	}
}
