package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the hardcoded configuration used when no YAML is readable.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Width:  engine.DefaultWidth,
			Height: engine.DefaultHeight,
		},
		Scoring: ScoringConfig{
			Preset: ScoringModern,
		},
		Gameplay: GameplayConfig{
			GravityFrames: 30, // Half a second at 60 FPS
			WallKicks:     false,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "tetris", "tetris_classic":
		return defaultTetrisYAML
	default:
		return nil
	}
}
