package engine

import "fmt"

// ScoreTable maps the number of simultaneously cleared lines to points.
// Entry i is the award for i+1 lines.
type ScoreTable []int

// Standard score tables.
var (
	// ModernScoring is the default table.
	ModernScoring = ScoreTable{100, 300, 500, 800}
	// ClassicScoring is the NES-era table.
	ClassicScoring = ScoreTable{40, 100, 300, 1200}
)

// Validate checks that the table is non-empty, positive and strictly increasing.
func (t ScoreTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("engine: score table is empty")
	}
	prev := 0
	for i, v := range t {
		if v <= prev {
			return fmt.Errorf("engine: score table entry %d (%d) must be greater than %d", i+1, v, prev)
		}
		prev = v
	}
	return nil
}

// Award returns the points for clearing n lines at once.
// Counts beyond the table extend it linearly by the last step so the
// award stays strictly increasing for wide boards.
func (t ScoreTable) Award(n int) int {
	if n <= 0 || len(t) == 0 {
		return 0
	}
	if n <= len(t) {
		return t[n-1]
	}
	last := t[len(t)-1]
	step := last
	if len(t) > 1 {
		step = last - t[len(t)-2]
	}
	return last + (n-len(t))*step
}

// LockResult describes what happened when a piece was merged into the grid.
type LockResult struct {
	Lines      int   // Number of rows cleared
	ScoreDelta int   // Points awarded for the clear
	Rows       []int // Indices of the cleared rows, before compaction
}

// Lock merges the piece into the grid, removes full rows and returns the
// score delta. The grid is mutated in place.
func Lock(g *Grid, p Piece, table ScoreTable) LockResult {
	for _, c := range p.Cells() {
		g.Set(c.X, c.Y, p.Type)
	}

	rows := g.FullRows()
	for _, y := range rows {
		g.ClearRow(y)
	}
	g.Compact(rows)

	return LockResult{
		Lines:      len(rows),
		ScoreDelta: table.Award(len(rows)),
		Rows:       rows,
	}
}
