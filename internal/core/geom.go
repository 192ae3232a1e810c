// Package core provides the host-facing types shared by games and platforms:
// the screen buffer, input frames, runtime config and game state. It has no
// terminal or network dependencies so game logic stays testable on its own.
package core

// Rect is an area of the screen. X and Y are the top-left cell; the right
// and bottom edges are exclusive.
type Rect struct {
	X, Y, W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return r.X <= x && x < r.Right() && r.Y <= y && y < r.Bottom()
}

// Centered returns a w by h area in the middle of r. When r is smaller the
// result overhangs it evenly on both sides.
func (r Rect) Centered(w, h int) Rect {
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Inset shrinks r by n cells on every side.
func (r Rect) Inset(n int) Rect {
	w, h := max(r.W-2*n, 0), max(r.H-2*n, 0)
	return Rect{X: r.X + n, Y: r.Y + n, W: w, H: h}
}
