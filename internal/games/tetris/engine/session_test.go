package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

func newQueueSession(t *testing.T, kicks bool, types ...PieceType) *Session {
	t.Helper()
	opts := DefaultOptions()
	opts.WallKicks = kicks
	opts.Source = NewQueueSource(types...)
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func mustActive(t *testing.T, s *Session) Piece {
	t.Helper()
	p, ok := s.Active()
	if !ok {
		t.Fatal("expected an active piece")
	}
	return p
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero width", Options{Width: 0, Height: 20, Scoring: ModernScoring}},
		{"negative height", Options{Width: 10, Height: -1, Scoring: ModernScoring}},
		{"empty scoring", Options{Width: 10, Height: 20}},
		{"flat scoring", Options{Width: 10, Height: 20, Scoring: ScoreTable{10, 10}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestSpawnIsCentredOnTopRow(t *testing.T) {
	tests := []struct {
		pt PieceType
		x  int
	}{
		{PieceI, 3},
		{PieceO, 4},
		{PieceT, 3},
		{PieceS, 3},
	}

	for _, tc := range tests {
		t.Run(tc.pt.String(), func(t *testing.T) {
			s := newQueueSession(t, false, tc.pt)
			p := mustActive(t, s)

			if p.X != tc.x || p.Y != 0 || p.Rotation != 0 {
				t.Errorf("spawned %v at (%d, %d) rot %d, expected (%d, 0) rot 0", tc.pt, p.X, p.Y, p.Rotation, tc.x)
			}
			if s.State() != StateFalling {
				t.Errorf("State() = %v, expected falling", s.State())
			}
		})
	}
}

func TestShiftStopsAtWall(t *testing.T) {
	s := newQueueSession(t, false, PieceI)

	for i := 0; i < 3; i++ {
		if r := s.ShiftLeft(); r != Moved {
			t.Fatalf("shift %d = %v, expected Moved", i+1, r)
		}
	}
	before := mustActive(t, s)
	if before.X != 0 {
		t.Fatalf("X = %d after three shifts, expected 0", before.X)
	}

	if r := s.ShiftLeft(); r != Blocked {
		t.Errorf("shift into wall = %v, expected Blocked", r)
	}
	if after := mustActive(t, s); after != before {
		t.Errorf("blocked shift moved the piece from %+v to %+v", before, after)
	}

	for i := 0; i < 6; i++ {
		s.ShiftRight()
	}
	if p := mustActive(t, s); p.X != 6 {
		t.Errorf("X = %d after pushing right, expected 6", p.X)
	}
	if r := s.ShiftRight(); r != Blocked {
		t.Errorf("shift into right wall = %v, expected Blocked", r)
	}
}

func TestShiftBlockedByLockedCell(t *testing.T) {
	s := newQueueSession(t, false, PieceO)
	s.grid.Set(3, 0, PieceJ)

	if r := s.ShiftLeft(); r != Blocked {
		t.Errorf("ShiftLeft() = %v, expected Blocked", r)
	}
	if r := s.ShiftRight(); r != Moved {
		t.Errorf("ShiftRight() = %v, expected Moved", r)
	}
	if got := s.grid.Cell(3, 0); got != PieceJ {
		t.Errorf("locked cell changed to %v", got)
	}
}

func TestRotateCyclesThroughStates(t *testing.T) {
	s := newQueueSession(t, false, PieceT)
	start := mustActive(t, s)

	for i := 1; i <= 4; i++ {
		if r := s.Rotate(); r != Moved {
			t.Fatalf("rotation %d = %v, expected Moved", i, r)
		}
	}

	end := mustActive(t, s)
	if !reflect.DeepEqual(end.Cells(), start.Cells()) {
		t.Errorf("cells after four rotations = %v, expected %v", end.Cells(), start.Cells())
	}
}

func TestRotateBlockedWithoutKicks(t *testing.T) {
	s := newQueueSession(t, false, PieceI)
	// Vertical I at the spawn anchor covers column 4, rows 0..3.
	s.grid.Set(4, 2, PieceZ)
	before := mustActive(t, s)

	if r := s.Rotate(); r != Blocked {
		t.Errorf("Rotate() = %v, expected Blocked", r)
	}
	if after := mustActive(t, s); after != before {
		t.Errorf("blocked rotation changed the piece to %+v", after)
	}
}

func TestRotateKicksLeftFirst(t *testing.T) {
	s := newQueueSession(t, true, PieceI)
	s.grid.Set(4, 2, PieceZ)

	if r := s.Rotate(); r != Moved {
		t.Fatalf("Rotate() = %v, expected Moved", r)
	}
	p := mustActive(t, s)
	if p.Rotation != 1 || p.X != 2 {
		t.Errorf("kicked piece = %+v, expected rotation 1 at X=2", p)
	}
}

func TestRotateKicksRightWhenLeftBlocked(t *testing.T) {
	s := newQueueSession(t, true, PieceI)
	s.grid.Set(4, 2, PieceZ)
	s.grid.Set(3, 1, PieceZ)

	if r := s.Rotate(); r != Moved {
		t.Fatalf("Rotate() = %v, expected Moved", r)
	}
	if p := mustActive(t, s); p.X != 4 {
		t.Errorf("X = %d, expected kick to 4", p.X)
	}
}

func TestTickFallsThenLocks(t *testing.T) {
	s := newQueueSession(t, false, PieceO)

	for i := 1; i <= 18; i++ {
		if !s.Tick() {
			t.Fatalf("tick %d returned false", i)
		}
	}
	if p := mustActive(t, s); p.Y != 18 {
		t.Fatalf("Y = %d after 18 ticks, expected 18", p.Y)
	}
	if s.Pieces() != 0 {
		t.Fatalf("piece locked early")
	}

	if !s.Tick() {
		t.Fatal("locking tick returned false")
	}
	if s.Pieces() != 1 {
		t.Errorf("Pieces() = %d, expected 1", s.Pieces())
	}
	for _, c := range []Point{{4, 18}, {5, 18}, {4, 19}, {5, 19}} {
		if s.grid.Cell(c.X, c.Y) != PieceO {
			t.Errorf("cell %+v = %v, expected O", c, s.grid.Cell(c.X, c.Y))
		}
	}
	if p := mustActive(t, s); p.Y != 0 {
		t.Errorf("next piece spawned at Y=%d", p.Y)
	}
}

func TestSingleLineClear(t *testing.T) {
	s := newQueueSession(t, false, PieceI)
	for x := 0; x < 6; x++ {
		s.grid.Set(x, 19, PieceL)
	}
	s.grid.Set(0, 18, PieceT)

	for i := 0; i < 3; i++ {
		s.ShiftRight()
	}
	res, ok := s.HardDrop()
	if !ok {
		t.Fatal("HardDrop() reported terminal session")
	}

	if res.Lines != 1 || s.Score() != 100 || s.Lines() != 1 {
		t.Errorf("lock = %+v score %d lines %d, expected 1 line for 100", res, s.Score(), s.Lines())
	}
	if s.grid.Cell(0, 19) != PieceT {
		t.Errorf("cell (0, 19) = %v, expected T to drop one row", s.grid.Cell(0, 19))
	}
	for x := 1; x < 10; x++ {
		if s.grid.Occupied(x, 19) {
			t.Errorf("cell (%d, 19) should be empty after the clear", x)
		}
	}
}

func TestFourLineClear(t *testing.T) {
	s := newQueueSession(t, false, PieceI)
	for y := 16; y < 20; y++ {
		for x := 0; x < 9; x++ {
			s.grid.Set(x, y, PieceJ)
		}
	}

	s.Rotate()
	for i := 0; i < 5; i++ {
		if r := s.ShiftRight(); r != Moved {
			t.Fatalf("shift %d blocked", i+1)
		}
	}
	res, _ := s.HardDrop()

	if res.Lines != 4 || res.ScoreDelta != 800 {
		t.Errorf("lock = %+v, expected 4 lines for 800", res)
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			if s.grid.Occupied(x, y) {
				t.Fatalf("grid should be empty after the clear, (%d, %d) is set", x, y)
			}
		}
	}
}

func TestHardDropLeavesNoRemnants(t *testing.T) {
	s := newQueueSession(t, false, PieceT, PieceO)

	s.HardDrop()

	count := 0
	for _, row := range s.LockedBoard() {
		for _, v := range row {
			if v != 0 {
				count++
				if PieceType(v) != PieceT {
					t.Errorf("locked cell holds %v, expected T", PieceType(v))
				}
			}
		}
	}
	if count != 4 {
		t.Errorf("locked cells = %d, expected 4", count)
	}

	p := mustActive(t, s)
	if p.Type != PieceO || p.Y != 0 {
		t.Errorf("next piece = %+v, expected O on the top row", p)
	}
}

func TestBoardOverlaysActivePiece(t *testing.T) {
	s := newQueueSession(t, false, PieceO)

	board := s.Board()
	locked := s.LockedBoard()

	for _, c := range []Point{{4, 0}, {5, 0}, {4, 1}, {5, 1}} {
		if board[c.Y][c.X] != int(PieceO) {
			t.Errorf("Board()[%d][%d] = %d, expected O", c.Y, c.X, board[c.Y][c.X])
		}
		if locked[c.Y][c.X] != 0 {
			t.Errorf("LockedBoard()[%d][%d] = %d, expected empty", c.Y, c.X, locked[c.Y][c.X])
		}
	}
}

func TestGhostY(t *testing.T) {
	s := newQueueSession(t, false, PieceO)
	s.grid.Set(4, 10, PieceS)

	y, ok := s.GhostY()
	if !ok || y != 8 {
		t.Errorf("GhostY() = %d, %v, expected 8, true", y, ok)
	}
}

func fillColumnsWithO(t *testing.T, s *Session, drops int) {
	t.Helper()
	for i := 0; i < drops; i++ {
		if _, ok := s.HardDrop(); !ok {
			t.Fatalf("drop %d hit a terminal session", i+1)
		}
	}
}

func TestGameOverOnBlockedSpawn(t *testing.T) {
	s := newQueueSession(t, false, PieceO)

	fillColumnsWithO(t, s, 10)

	if !s.IsTerminal() {
		t.Fatal("session should be over once the spawn area is filled")
	}
	if _, ok := s.Active(); ok {
		t.Error("terminal session should have no active piece")
	}
	if s.State() != StateGameOver {
		t.Errorf("State() = %v, expected game_over", s.State())
	}
}

func TestTerminalSessionIgnoresActions(t *testing.T) {
	s := newQueueSession(t, false, PieceO)
	fillColumnsWithO(t, s, 10)

	board := s.Board()
	score := s.Score()

	if r := s.ShiftLeft(); r != Blocked {
		t.Errorf("ShiftLeft() = %v, expected Blocked", r)
	}
	if r := s.ShiftRight(); r != Blocked {
		t.Errorf("ShiftRight() = %v, expected Blocked", r)
	}
	if r := s.Rotate(); r != Blocked {
		t.Errorf("Rotate() = %v, expected Blocked", r)
	}
	if s.Tick() {
		t.Error("Tick() should return false once the game is over")
	}
	if _, ok := s.HardDrop(); ok {
		t.Error("HardDrop() should be a no-op once the game is over")
	}

	if !reflect.DeepEqual(s.Board(), board) || s.Score() != score {
		t.Error("terminal session changed after actions")
	}
	if !s.IsTerminal() {
		t.Error("terminal latch was released")
	}
}

func TestTickReturnsFalseWhenLockEndsGame(t *testing.T) {
	s := newQueueSession(t, false, PieceO)
	fillColumnsWithO(t, s, 9)

	// The tenth O spawned on rows 0..1 and cannot fall.
	if s.Tick() {
		t.Error("Tick() should report the game ending")
	}
	if !s.IsTerminal() {
		t.Error("session should be terminal")
	}
}

func TestNewGameResets(t *testing.T) {
	s := newQueueSession(t, false, PieceO)
	fillColumnsWithO(t, s, 10)

	s.NewGame()

	if s.IsTerminal() || s.Score() != 0 || s.Lines() != 0 || s.Pieces() != 0 {
		t.Errorf("NewGame left state behind: terminal=%v score=%d lines=%d pieces=%d",
			s.IsTerminal(), s.Score(), s.Lines(), s.Pieces())
	}
	for _, row := range s.LockedBoard() {
		for _, v := range row {
			if v != 0 {
				t.Fatal("NewGame should clear the grid")
			}
		}
	}
	if counts := s.SpawnCounts(); counts[PieceO] != 1 {
		t.Errorf("SpawnCounts()[O] = %d, expected 1", counts[PieceO])
	}
}

func TestSpawnCounts(t *testing.T) {
	s := newQueueSession(t, false, PieceI, PieceT, PieceT)

	s.HardDrop()
	s.HardDrop()

	counts := s.SpawnCounts()
	if counts[PieceI] != 1 || counts[PieceT] != 2 {
		t.Errorf("SpawnCounts() = %v, expected I:1 T:2", counts)
	}
	if _, ok := counts[PieceZ]; ok {
		t.Error("unspawned types should be absent")
	}
}

func playRandom(s *Session, rng *rand.Rand, steps int, check func()) {
	for i := 0; i < steps; i++ {
		switch rng.Intn(5) {
		case 0:
			s.ShiftLeft()
		case 1:
			s.ShiftRight()
		case 2:
			s.Rotate()
		case 3:
			s.HardDrop()
		default:
			s.Tick()
		}
		if check != nil {
			check()
		}
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 42
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	prevScore := 0
	playRandom(s, rng, 2000, func() {
		if s.Score() < prevScore {
			t.Fatalf("score decreased from %d to %d", prevScore, s.Score())
		}
		prevScore = s.Score()

		if s.Width() != 10 || s.Height() != 20 {
			t.Fatalf("board size changed to %dx%d", s.Width(), s.Height())
		}
		if p, ok := s.Active(); ok && !Fits(s.grid, p) {
			t.Fatalf("active piece %+v overlaps the grid", p)
		}
		if _, ok := s.Active(); ok == s.IsTerminal() {
			t.Fatalf("active piece presence disagrees with terminal=%v", s.IsTerminal())
		}
	})
}

func TestSameSeedSameGame(t *testing.T) {
	build := func() *Session {
		opts := DefaultOptions()
		opts.Seed = 1234
		s, err := New(opts)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		playRandom(s, rand.New(rand.NewSource(99)), 500, nil)
		return s
	}

	a, b := build(), build()

	if !reflect.DeepEqual(a.Board(), b.Board()) {
		t.Error("boards differ for the same seed and inputs")
	}
	if a.Score() != b.Score() || a.Pieces() != b.Pieces() {
		t.Errorf("score/pieces differ: %d/%d vs %d/%d", a.Score(), a.Pieces(), b.Score(), b.Pieces())
	}
}
