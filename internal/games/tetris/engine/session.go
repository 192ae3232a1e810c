package engine

import (
	"fmt"

	"github.com/kamstrup/intmap"
)

// Default board dimensions.
const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// State is the phase of the session state machine.
type State int

const (
	StateSpawning State = iota
	StateFalling
	StateLocked
	StateGameOver
)

// String returns the state name used in snapshots and logs.
func (s State) String() string {
	switch s {
	case StateSpawning:
		return "spawning"
	case StateFalling:
		return "falling"
	case StateLocked:
		return "locked"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Options configures a Session.
type Options struct {
	Width     int
	Height    int
	Scoring   ScoreTable
	WallKicks bool        // Try one column left, then right, when a rotation is blocked
	Source    PieceSource // Nil means a RandomSource seeded with Seed
	Seed      int64
}

// DefaultOptions returns a 10x20 board with the modern score table.
func DefaultOptions() Options {
	return Options{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Scoring: ModernScoring,
	}
}

// Validate checks the options without building a session.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("engine: board size %dx%d must be positive", o.Width, o.Height)
	}
	return o.Scoring.Validate()
}

// Session owns one game: its grid, the active piece, the score and the
// terminal latch. All mutation goes through its methods.
type Session struct {
	grid    *Grid
	active  *Piece
	state   State
	score   int
	lines   int
	pieces  int
	last    LockResult
	scoring ScoreTable
	kicks   bool
	source  PieceSource
	spawned *intmap.Map[PieceType, int]
}

// New builds a session from opts and starts the first game.
func New(opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	src := opts.Source
	if src == nil {
		src = NewRandomSource(opts.Seed)
	}
	s := &Session{
		grid:    NewGrid(opts.Width, opts.Height),
		scoring: append(ScoreTable(nil), opts.Scoring...),
		kicks:   opts.WallKicks,
		source:  src,
		spawned: intmap.New[PieceType, int](PieceCount),
	}
	s.NewGame()
	return s, nil
}

// NewGame clears the board, resets score and latch, and spawns the first piece.
func (s *Session) NewGame() {
	s.grid.Reset()
	s.active = nil
	s.score = 0
	s.lines = 0
	s.pieces = 0
	s.last = LockResult{}
	s.spawned.Clear()
	s.state = StateSpawning
	s.spawn()
}

// spawn places a fresh piece centred on the top row. If it does not fit,
// the session ends and no active piece remains.
func (s *Session) spawn() bool {
	t := s.source.Next()
	w, _ := Bounds(t, 0)
	p := Piece{Type: t, X: (s.grid.Width() - w) / 2}

	if !Fits(s.grid, p) {
		s.active = nil
		s.state = StateGameOver
		return false
	}

	s.active = &p
	s.state = StateFalling
	n, _ := s.spawned.Get(t)
	s.spawned.Put(t, n+1)
	return true
}

// ShiftLeft moves the active piece one column left if the target is free.
func (s *Session) ShiftLeft() MoveResult {
	return s.shift(-1)
}

// ShiftRight moves the active piece one column right if the target is free.
func (s *Session) ShiftRight() MoveResult {
	return s.shift(1)
}

func (s *Session) shift(dx int) MoveResult {
	if s.state != StateFalling {
		return Blocked
	}
	next := s.active.Moved(dx, 0)
	if !Fits(s.grid, next) {
		return Blocked
	}
	*s.active = next
	return Moved
}

// Rotate advances the active piece to its next rotation state at the same anchor.
// With wall kicks enabled a blocked rotation is retried one column left, then right.
func (s *Session) Rotate() MoveResult {
	if s.state != StateFalling {
		return Blocked
	}
	next, ok := tryRotate(s.grid, *s.active, s.kicks)
	if !ok {
		return Blocked
	}
	*s.active = next
	return Moved
}

// Tick applies gravity once. It returns false only when the session is
// already over or when the lock triggered by this tick ends the game.
func (s *Session) Tick() bool {
	if s.state != StateFalling {
		return false
	}
	if next := s.active.Moved(0, 1); Fits(s.grid, next) {
		*s.active = next
		return true
	}
	s.lockActive()
	return s.state != StateGameOver
}

// HardDrop drops the active piece as far as it goes and locks it. The
// returned flag is false when the session was already over and nothing happened.
func (s *Session) HardDrop() (LockResult, bool) {
	if s.state != StateFalling {
		return LockResult{}, false
	}
	*s.active = s.active.Moved(0, dropDistance(s.grid, *s.active))
	return s.lockActive(), true
}

// lockActive merges the active piece, clears rows and spawns the next piece.
func (s *Session) lockActive() LockResult {
	s.state = StateLocked
	res := Lock(s.grid, *s.active, s.scoring)
	s.active = nil
	s.score += res.ScoreDelta
	s.lines += res.Lines
	s.pieces++
	s.last = res

	s.state = StateSpawning
	s.spawn()
	return res
}

// Board returns the grid contents with the active piece drawn in, indexed [y][x].
func (s *Session) Board() [][]int {
	board := s.LockedBoard()
	if s.active != nil {
		for _, c := range s.active.Cells() {
			board[c.Y][c.X] = int(s.active.Type)
		}
	}
	return board
}

// LockedBoard returns only the locked cells, indexed [y][x].
func (s *Session) LockedBoard() [][]int {
	board := make([][]int, s.grid.Height())
	for y := range board {
		board[y] = make([]int, s.grid.Width())
		for x := range board[y] {
			board[y][x] = int(s.grid.Cell(x, y))
		}
	}
	return board
}

// Grid returns a copy of the locked grid.
func (s *Session) Grid() *Grid {
	return s.grid.Clone()
}

// Active returns the falling piece, or false when none exists.
func (s *Session) Active() (Piece, bool) {
	if s.active == nil {
		return Piece{}, false
	}
	return *s.active, true
}

// GhostY returns the anchor row the active piece would land on if hard-dropped.
func (s *Session) GhostY() (int, bool) {
	if s.active == nil {
		return 0, false
	}
	return s.active.Y + dropDistance(s.grid, *s.active), true
}

// Score returns the accumulated score.
func (s *Session) Score() int {
	return s.score
}

// Lines returns the total number of cleared rows.
func (s *Session) Lines() int {
	return s.lines
}

// Pieces returns the number of pieces locked so far.
func (s *Session) Pieces() int {
	return s.pieces
}

// LastLock returns the result of the most recent lock.
func (s *Session) LastLock() LockResult {
	return s.last
}

// IsTerminal reports whether the game has ended.
func (s *Session) IsTerminal() bool {
	return s.state == StateGameOver
}

// State returns the current phase of the state machine.
func (s *Session) State() State {
	return s.state
}

// Width returns the board width.
func (s *Session) Width() int {
	return s.grid.Width()
}

// Height returns the board height.
func (s *Session) Height() int {
	return s.grid.Height()
}

// Scoring returns a copy of the score table in use.
func (s *Session) Scoring() ScoreTable {
	return append(ScoreTable(nil), s.scoring...)
}

// SpawnCounts returns how many pieces of each type have spawned this game.
func (s *Session) SpawnCounts() map[PieceType]int {
	counts := make(map[PieceType]int, PieceCount)
	for _, t := range Types() {
		if n, ok := s.spawned.Get(t); ok {
			counts[t] = n
		}
	}
	return counts
}
