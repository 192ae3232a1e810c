// Package tetris adapts the falling-block engine to the platform's Game
// interface: fixed-tick gravity, input mapping, rendering and snapshots.
package tetris

import (
	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// Variant selects the rule set a Game plays with.
type Variant int

const (
	VariantModern  Variant = iota // Score table from config (modern by default)
	VariantClassic                // Always the classic 40/100/300/1200 table
)

// configPath stores the custom config path set via CLI
var configPath string

// scoringPreset stores the scoring preset set via CLI
var scoringPreset config.ScoringPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetScoringPreset overrides the config's scoring preset for the modern variant.
// Unknown names clear the override.
func SetScoringPreset(preset string) {
	p := config.ScoringPreset(preset)
	if !p.Valid() {
		p = ""
	}
	scoringPreset = p
}

func init() {
	registry.Register("tetris", func() registry.Game {
		return New()
	})
	registry.Register("tetris_classic", func() registry.Game {
		return NewClassic()
	})
}

// Game wraps an engine.Session with frame pacing and a pause flag.
type Game struct {
	variant Variant

	runtime core.RuntimeConfig
	cfg     config.TetrisConfig
	session *engine.Session

	tick       uint64
	gravity    int // Frames since the last gravity step
	paused     bool
	tooSmall   bool
	flashTicks int // Frames left to highlight the last clear in the HUD
}

// New creates a game using the configured score table.
func New() *Game {
	return &Game{variant: VariantModern}
}

// NewClassic creates a game using the classic score table.
func NewClassic() *Game {
	return &Game{variant: VariantClassic}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.variant == VariantClassic {
		return "tetris_classic"
	}
	return "tetris"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.variant == VariantClassic {
		return "Tetris (Classic Scoring)"
	}
	return "Tetris"
}

// Reset loads the config and starts a fresh game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		cfg = config.DefaultTetrisConfig()
	}
	switch {
	case g.variant == VariantClassic:
		config.ApplyScoringPreset(&cfg, config.ScoringClassic)
	case scoringPreset != "":
		config.ApplyScoringPreset(&cfg, scoringPreset)
	}
	g.configure(cfg)
}

// configure builds the engine session from an already validated config.
func (g *Game) configure(cfg config.TetrisConfig) {
	g.cfg = cfg

	s, err := engine.New(cfg.EngineOptions(g.runtime.Seed))
	if err != nil {
		g.cfg = config.DefaultTetrisConfig()
		s, _ = engine.New(g.cfg.EngineOptions(g.runtime.Seed))
	}
	g.session = s

	g.tick = 0
	g.gravity = 0
	g.paused = false
	g.flashTicks = 0

	minW, minH := g.minScreenSize()
	g.tooSmall = g.runtime.ScreenW < minW || g.runtime.ScreenH < minH
}

// Resize adapts to a new terminal size without restarting the game.
func (g *Game) Resize(runtime core.RuntimeConfig) {
	g.runtime.ScreenW = runtime.ScreenW
	g.runtime.ScreenH = runtime.ScreenH
	minW, minH := g.minScreenSize()
	g.tooSmall = g.runtime.ScreenW < minW || g.runtime.ScreenH < minH
}

// Step advances the game by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	// Handle restart
	if in.Has(core.ActionRestart) && g.session.IsTerminal() {
		g.session.NewGame()
		g.gravity = 0
		g.flashTicks = 0
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) && !g.session.IsTerminal() {
		g.paused = !g.paused
	}

	if g.paused || g.tooSmall || g.session.IsTerminal() {
		return core.StepResult{State: g.State()}
	}

	if g.flashTicks > 0 {
		g.flashTicks--
	}

	pieces := g.session.Pieces()
	g.applyInput(in)

	g.gravity++
	if g.gravity >= g.cfg.Gameplay.GravityFrames {
		g.gravity = 0
		g.session.Tick()
	}

	res := core.StepResult{State: g.State()}
	if g.session.Pieces() != pieces {
		res.Locked = true
		res.Cleared = g.session.LastLock().Lines
		if res.Cleared > 0 {
			g.flashTicks = 45
		}
	}
	return res
}

// applyInput forwards player actions to the engine. Several actions in one
// frame apply in a fixed order: shifts, rotation, then drops.
func (g *Game) applyInput(in core.InputFrame) {
	if in.Has(core.ActionLeft) {
		g.session.ShiftLeft()
	}
	if in.Has(core.ActionRight) {
		g.session.ShiftRight()
	}
	if in.Has(core.ActionRotate) {
		g.session.Rotate()
	}
	switch {
	case in.Has(core.ActionDrop):
		g.session.HardDrop()
		g.gravity = 0
	case in.Has(core.ActionDown):
		g.session.Tick()
		g.gravity = 0
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.session.Score(),
		Lines:    g.session.Lines(),
		Pieces:   g.session.Pieces(),
		GameOver: g.session.IsTerminal(),
		Paused:   g.paused,
	}
}

// Session exposes the underlying engine session for read-only inspection.
func (g *Game) Session() *engine.Session {
	return g.session
}

// Config returns the configuration the current game was built from.
func (g *Game) Config() config.TetrisConfig {
	return g.cfg
}
