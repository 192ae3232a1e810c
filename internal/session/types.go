// Package session hosts many independent games at once. Each game lives in
// its own entry behind its own mutex, keyed by an opaque session ID, so
// transports can serve concurrent players without sharing engine state.
package session

import (
	"fmt"
	"time"
)

// ID uniquely identifies a hosted game session (a UUID string).
type ID string

// Action is a mutating operation a client can request.
type Action string

const (
	ActionLeft   Action = "left"
	ActionRight  Action = "right"
	ActionRotate Action = "rotate"
	ActionDrop   Action = "drop" // Hard drop
	ActionTick   Action = "tick" // One gravity step
)

// Actions returns every accepted action in a stable order.
func Actions() []Action {
	return []Action{ActionLeft, ActionRight, ActionRotate, ActionDrop, ActionTick}
}

// ParseAction validates a client-supplied action name. Names are matched
// exactly: no case folding, no trimming.
func ParseAction(s string) (Action, error) {
	for _, known := range Actions() {
		if Action(s) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// State is a read-only view of one session, safe to hand to other goroutines.
type State struct {
	ID       ID      `json:"sessionId"`
	GameID   string  `json:"gameId"`
	Board    [][]int `json:"board"` // [y][x], active piece drawn in
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Score    int     `json:"score"`
	Lines    int     `json:"lines"`
	Pieces   int     `json:"pieces"`
	GameOver bool    `json:"gameOver"`
}

// Outcome is the result of applying one action.
type Outcome struct {
	Action  Action `json:"action"`
	Success bool   `json:"success"` // False when a move was blocked or a tick ended the game
	Cleared int    `json:"cleared"` // Rows cleared by a lock during this action
	State   State  `json:"-"`
}

// EndReason describes why a game result was recorded.
type EndReason string

const (
	EndReasonGameOver  EndReason = "game_over"
	EndReasonRestarted EndReason = "restarted"
	EndReasonExpired   EndReason = "expired"
	EndReasonRemoved   EndReason = "removed"
)

// Result contains finished-game data for persistence.
type Result struct {
	SessionID    string
	GameID       string
	Score        int
	Lines        int
	Pieces       int
	EndReason    EndReason
	DurationSecs int
	EndedAt      time.Time
}

// ResultSaver persists finished games.
// This lets the registry record results without depending on the storage package.
type ResultSaver interface {
	SaveGameResult(result Result) error
}
