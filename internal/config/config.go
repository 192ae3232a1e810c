// Package config provides YAML-based game configuration loading and the
// scoring presets for the falling-block game.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

// MinBoardWidth is the narrowest board that still fits a horizontal I piece.
const MinBoardWidth = 4

// TetrisConfig contains all configuration for the falling-block game.
type TetrisConfig struct {
	Board    BoardConfig    `yaml:"board"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Gameplay GameplayConfig `yaml:"gameplay"`
}

// BoardConfig defines the well dimensions.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ScoringConfig selects the points awarded per lock.
type ScoringConfig struct {
	Preset ScoringPreset `yaml:"preset"`
	Lines  []int         `yaml:"lines"` // Points for 1, 2, 3, 4... rows; overrides Preset when set
}

// GameplayConfig holds pacing and rule toggles.
type GameplayConfig struct {
	GravityFrames int   `yaml:"gravity_frames"` // Frames between automatic fall steps
	WallKicks     bool  `yaml:"wall_kicks"`
	Seed          int64 `yaml:"seed"` // 0 = use the runtime seed
}

// Table returns the score table the config resolves to.
func (c ScoringConfig) Table() engine.ScoreTable {
	if len(c.Lines) > 0 {
		return engine.ScoreTable(append([]int(nil), c.Lines...))
	}
	return TableForPreset(c.Preset)
}

// Validate reports every problem with the config at once.
func (c TetrisConfig) Validate() error {
	var errs []error
	if c.Board.Width < MinBoardWidth {
		errs = append(errs, fmt.Errorf("config: board width %d is below %d", c.Board.Width, MinBoardWidth))
	}
	if c.Board.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: board height %d must be positive", c.Board.Height))
	}
	if len(c.Scoring.Lines) == 0 && !c.Scoring.Preset.Valid() {
		errs = append(errs, fmt.Errorf("config: unknown scoring preset %q", c.Scoring.Preset))
	}
	if err := c.Scoring.Table().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: scoring: %w", err))
	}
	if c.Gameplay.GravityFrames <= 0 {
		errs = append(errs, fmt.Errorf("config: gravity_frames %d must be positive", c.Gameplay.GravityFrames))
	}
	return errors.Join(errs...)
}

// EngineOptions converts the config to engine options. A zero config seed
// falls back to runtimeSeed.
func (c TetrisConfig) EngineOptions(runtimeSeed int64) engine.Options {
	seed := c.Gameplay.Seed
	if seed == 0 {
		seed = runtimeSeed
	}
	return engine.Options{
		Width:     c.Board.Width,
		Height:    c.Board.Height,
		Scoring:   c.Scoring.Table(),
		WallKicks: c.Gameplay.WallKicks,
		Seed:      seed,
	}
}
