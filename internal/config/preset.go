package config

import "github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"

// ScoringPreset represents a named score table.
type ScoringPreset string

const (
	ScoringModern  ScoringPreset = "modern"
	ScoringClassic ScoringPreset = "classic"
)

// Presets returns the known presets in display order.
func Presets() []ScoringPreset {
	return []ScoringPreset{ScoringModern, ScoringClassic}
}

// Valid reports whether p names a known preset.
func (p ScoringPreset) Valid() bool {
	return p == ScoringModern || p == ScoringClassic
}

// TableForPreset returns the score table for a preset. Unknown names get the modern table.
func TableForPreset(p ScoringPreset) engine.ScoreTable {
	if p == ScoringClassic {
		return engine.ClassicScoring
	}
	return engine.ModernScoring
}

// ApplyScoringPreset switches cfg to a preset, dropping any explicit table.
func ApplyScoringPreset(cfg *TetrisConfig, preset ScoringPreset) {
	cfg.Scoring.Preset = preset
	cfg.Scoring.Lines = nil
}
