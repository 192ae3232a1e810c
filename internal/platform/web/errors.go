package web

import (
	"errors"
	"net/http"

	"github.com/vovakirdan/tui-tetris/internal/session"
)

// Error codes returned in the "code" field.
const (
	codeEngineUnavailable = "engine_unavailable"
	codeCapacity          = "capacity"
	codeSessionNotFound   = "session_not_found"
	codeUnknownAction     = "unknown_action"
	codeGameOver          = "game_over"
	codeBadRequest        = "bad_request"
	codeNoStorage         = "no_storage"
	codeInternal          = "internal"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// terminalResponse is returned when an action reaches a finished game.
type terminalResponse struct {
	errorResponse
	GameOver bool    `json:"gameOver"`
	Board    [][]int `json:"board"`
	Score    int     `json:"score"`
}

// writeError maps session errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrCapacity):
		s.logger.Warn("session limit reached")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "too many active games, try again later", Code: codeCapacity})
	case errors.Is(err, session.ErrEngineUnavailable):
		s.logger.Error("engine unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "game engine unavailable", Code: codeEngineUnavailable})
	case errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no game for this session, call /start", Code: codeSessionNotFound})
	case errors.Is(err, session.ErrUnknownAction):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeUnknownAction})
	case errors.Is(err, session.ErrTerminalState):
		writeJSON(w, http.StatusConflict, terminalResponse{
			errorResponse: errorResponse{Error: "game is over, call /start for a new game", Code: codeGameOver},
			GameOver:      true,
		})
	default:
		s.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: codeInternal})
	}
}
