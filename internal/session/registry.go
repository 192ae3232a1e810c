package session

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

// Config holds configuration for the registry.
type Config struct {
	GameID        string        // Game ID recorded with results
	IdleTimeout   time.Duration // Sessions untouched this long are removed; 0 disables expiry
	CleanupPeriod time.Duration // How often to look for idle sessions
	MaxSessions   int           // 0 means unlimited
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GameID:        "tetris",
		IdleTimeout:   30 * time.Minute,
		CleanupPeriod: time.Minute,
		MaxSessions:   1000,
	}
}

// EngineFactory creates a fresh engine session from a seed.
type EngineFactory func(seed int64) (*engine.Session, error)

// NewEngineFactory returns a factory that builds sessions from opts,
// replacing the seed on every call.
func NewEngineFactory(opts engine.Options) EngineFactory {
	return func(seed int64) (*engine.Session, error) {
		o := opts
		o.Seed = seed
		o.Source = nil
		return engine.New(o)
	}
}

type entry struct {
	mu       sync.Mutex // Serializes every engine call for this session
	id       ID
	game     *engine.Session
	started  time.Time
	recorded bool

	lastSeen atomic.Int64 // Unix nanoseconds, read by the cleanup loop without mu
}

// Registry maps session IDs to independent games.
// The map is guarded by an RWMutex; each game by its entry's own mutex.
type Registry struct {
	cfg     Config
	factory EngineFactory
	saver   ResultSaver // Optional, can be nil
	logger  *log.Logger
	now     func() time.Time
	seed    func() int64

	mu      sync.RWMutex
	entries map[ID]*entry
	closed  bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry. A nil logger logs to stderr.
func NewRegistry(cfg Config, factory EngineFactory, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "session",
		})
	}
	if cfg.GameID == "" {
		cfg.GameID = DefaultConfig().GameID
	}
	return &Registry{
		cfg:     cfg,
		factory: factory,
		logger:  logger,
		now:     time.Now,
		seed:    func() int64 { return time.Now().UnixNano() },
		entries: make(map[ID]*entry),
		done:    make(chan struct{}),
	}
}

// SetResultSaver sets the optional finished-game saver.
func (r *Registry) SetResultSaver(saver ResultSaver) {
	r.saver = saver
}

// Start begins expiring idle sessions in the background.
func (r *Registry) Start() {
	if r.cfg.IdleTimeout <= 0 || r.cfg.CleanupPeriod <= 0 {
		return
	}
	go r.cleanupLoop()
}

// Stop shuts down the cleanup loop and refuses new sessions.
// Safe to call multiple times.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.done)
	})
}

// Create starts a new game under a fresh ID. The engine is built outside the
// registry lock; capacity is checked again before the entry is inserted.
func (r *Registry) Create() (State, error) {
	if err := r.admit(); err != nil {
		return State{}, err
	}

	game, err := r.factory(r.seed())
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	now := r.now()
	e := &entry{
		id:      ID(uuid.NewString()),
		game:    game,
		started: now,
	}
	e.lastSeen.Store(now.UnixNano())

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.admitLocked(); err != nil {
		return State{}, err
	}
	r.entries[e.id] = e

	r.logger.Info("session created", "id", e.id, "sessions", len(r.entries))
	return r.snapshot(e), nil
}

// admit reports whether a new session may be created right now.
func (r *Registry) admit() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.admitLocked()
}

// admitLocked is admit for callers holding r.mu.
func (r *Registry) admitLocked() error {
	if r.closed {
		return fmt.Errorf("%w: registry stopped", ErrEngineUnavailable)
	}
	if r.cfg.MaxSessions > 0 && len(r.entries) >= r.cfg.MaxSessions {
		return ErrCapacity
	}
	return nil
}

// StartOrRestart restarts the game behind id when it exists, otherwise creates a new session.
func (r *Registry) StartOrRestart(id ID) (State, error) {
	if id != "" {
		st, err := r.Restart(id)
		if err == nil {
			return st, nil
		}
	}
	return r.Create()
}

// Restart begins a new game in an existing session with a freshly built and
// seeded engine, so a pinned seed replays the same pieces on every restart.
// An unfinished game that already locked pieces is recorded as restarted.
func (r *Registry) Restart(id ID) (State, error) {
	e, err := r.lookup(id)
	if err != nil {
		return State{}, err
	}

	game, err := r.factory(r.seed())
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r.finish(e, EndReasonRestarted)
	e.game = game
	e.recorded = false
	e.started = r.now()
	e.lastSeen.Store(e.started.UnixNano())

	r.logger.Debug("session restarted", "id", id)
	return r.snapshot(e), nil
}

// State returns the current view of a session.
func (r *Registry) State(id ID) (State, error) {
	e, err := r.lookup(id)
	if err != nil {
		return State{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSeen.Store(r.now().UnixNano())
	return r.snapshot(e), nil
}

// Do applies one action to a session. Blocked moves are not errors: they
// come back with Success false. A finished game rejects every action with
// ErrTerminalState and reports its final state in the outcome.
func (r *Registry) Do(id ID, a Action) (Outcome, error) {
	if _, err := ParseAction(string(a)); err != nil {
		return Outcome{}, err
	}
	e, err := r.lookup(id)
	if err != nil {
		return Outcome{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSeen.Store(r.now().UnixNano())
	out := Outcome{Action: a}

	if e.game.IsTerminal() {
		out.State = r.snapshot(e)
		return out, ErrTerminalState
	}

	pieces := e.game.Pieces()
	out.Success = apply(e.game, a)
	if e.game.Pieces() != pieces {
		out.Cleared = e.game.LastLock().Lines
	}

	if e.game.IsTerminal() {
		r.logger.Info("game over", "id", id, "score", e.game.Score(), "lines", e.game.Lines())
		r.record(e, EndReasonGameOver)
	}

	out.State = r.snapshot(e)
	return out, nil
}

// apply dispatches an action to the engine.
func apply(g *engine.Session, a Action) bool {
	switch a {
	case ActionLeft:
		return g.ShiftLeft().OK()
	case ActionRight:
		return g.ShiftRight().OK()
	case ActionRotate:
		return g.Rotate().OK()
	case ActionDrop:
		_, ok := g.HardDrop()
		return ok
	case ActionTick:
		return g.Tick() // False when this tick ended the game
	default:
		return false
	}
}

// Remove deletes a session. It returns false if the ID was unknown.
func (r *Registry) Remove(id ID) bool {
	return r.remove(id, EndReasonRemoved)
}

func (r *Registry) remove(id ID, reason EndReason) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if !ok {
		return false
	}

	e.mu.Lock()
	r.finish(e, reason)
	e.mu.Unlock()
	return true
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ExpireIdle removes every session untouched for longer than the idle timeout
// and returns how many were removed.
func (r *Registry) ExpireIdle() int {
	if r.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTimeout).UnixNano()

	var expired []ID
	r.mu.RLock()
	for id, e := range r.entries {
		if e.lastSeen.Load() < cutoff {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	n := 0
	for _, id := range expired {
		if r.remove(id, EndReasonExpired) {
			r.logger.Info("session expired", "id", id)
			n++
		}
	}
	return n
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(r.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.ExpireIdle()
		case <-r.done:
			return
		}
	}
}

func (r *Registry) lookup(id ID) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("%w: registry stopped", ErrEngineUnavailable)
	}
	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return e, nil
}

// finish records an abandoned game if it got anywhere. Must hold e.mu.
func (r *Registry) finish(e *entry, reason EndReason) {
	if e.game.IsTerminal() || e.game.Pieces() == 0 {
		return
	}
	r.record(e, reason)
}

// record saves the current game once. Must hold e.mu.
func (r *Registry) record(e *entry, reason EndReason) {
	if e.recorded {
		return
	}
	e.recorded = true
	if r.saver == nil {
		return
	}

	now := r.now()
	result := Result{
		SessionID:    string(e.id),
		GameID:       r.cfg.GameID,
		Score:        e.game.Score(),
		Lines:        e.game.Lines(),
		Pieces:       e.game.Pieces(),
		EndReason:    reason,
		DurationSecs: int(now.Sub(e.started).Seconds()),
		EndedAt:      now,
	}
	if err := r.saver.SaveGameResult(result); err != nil {
		r.logger.Error("failed to save game result", "id", e.id, "err", err)
	}
}

// snapshot builds a State view. Must hold e.mu.
func (r *Registry) snapshot(e *entry) State {
	return State{
		ID:       e.id,
		GameID:   r.cfg.GameID,
		Board:    e.game.Board(),
		Width:    e.game.Width(),
		Height:   e.game.Height(),
		Score:    e.game.Score(),
		Lines:    e.game.Lines(),
		Pieces:   e.game.Pieces(),
		GameOver: e.game.IsTerminal(),
	}
}
