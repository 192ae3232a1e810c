package tetris

// Snapshot contains the complete game state for determinism testing.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick    uint64
	Variant string
	State   string
	Score   int
	Lines   int
	Pieces  int
	Paused  bool

	// Active piece, all zero when none is falling
	ActiveType     int
	ActiveRotation int
	ActiveX        int
	ActiveY        int

	Width  int
	Height int
	Board  []int // Row-major, active piece included
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := g.session
	snap := Snapshot{
		Tick:    g.tick,
		Variant: g.ID(),
		State:   s.State().String(),
		Score:   s.Score(),
		Lines:   s.Lines(),
		Pieces:  s.Pieces(),
		Paused:  g.paused,
		Width:   s.Width(),
		Height:  s.Height(),
	}
	if p, ok := s.Active(); ok {
		snap.ActiveType = int(p.Type)
		snap.ActiveRotation = p.Rotation
		snap.ActiveX = p.X
		snap.ActiveY = p.Y
	}

	snap.Board = make([]int, 0, snap.Width*snap.Height)
	for _, row := range s.Board() {
		snap.Board = append(snap.Board, row...)
	}
	return snap
}
