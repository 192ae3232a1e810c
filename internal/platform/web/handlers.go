package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/session"
)

// actionRequest is the body of POST /action.
type actionRequest struct {
	Action string `json:"action"`
}

// startResponse is returned by POST /start.
type startResponse struct {
	Message string `json:"message"`
	session.State
}

// actionResponse is returned by POST /action.
type actionResponse struct {
	Action   session.Action `json:"action"`
	Success  bool           `json:"success"`
	Cleared  int            `json:"cleared"`
	Board    [][]int        `json:"board"`
	Score    int            `json:"score"`
	Lines    int            `json:"lines"`
	GameOver bool           `json:"gameOver"`
}

func newActionResponse(out session.Outcome) actionResponse {
	return actionResponse{
		Action:   out.Action,
		Success:  out.Success,
		Cleared:  out.Cleared,
		Board:    out.State.Board,
		Score:    out.State.Score,
		Lines:    out.State.Lines,
		GameOver: out.State.GameOver,
	}
}

// scoreResponse is one row of GET /api/scores.
type scoreResponse struct {
	Rank      int       `json:"rank"`
	GameID    string    `json:"gameId"`
	Score     int       `json:"score"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"createdAt"`
}

// configResponse describes the hosted game.
type configResponse struct {
	BoardWidth  int      `json:"board_width"`
	BoardHeight int      `json:"board_height"`
	Scoring     []int    `json:"scoring"`
	WallKicks   bool     `json:"wallKicks"`
	Actions     []string `json:"actions"`
}

// handleStart begins a new game for the caller, reusing their session when it still exists.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.StartOrRestart(sessionID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    string(st.ID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(sessionHeader, string(st.ID))
	writeJSON(w, http.StatusOK, startResponse{Message: "new game started", State: st})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.State(sessionID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Code: codeBadRequest})
		return
	}

	action, err := session.ParseAction(req.Action)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out, err := s.sessions.Do(sessionID(r), action)
	if errors.Is(err, session.ErrTerminalState) {
		writeJSON(w, http.StatusConflict, terminalResponse{
			errorResponse: errorResponse{Error: "game is over, call /start for a new game", Code: codeGameOver},
			GameOver:      true,
			Board:         out.State.Board,
			Score:         out.State.Score,
		})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newActionResponse(out))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "scores are not stored", Code: codeNoStorage})
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 100", Code: codeBadRequest})
			return
		}
		limit = n
	}
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		gameID = s.config.GameID
	}

	entries, err := s.scores.TopScores(gameID, limit)
	if err != nil {
		s.logger.Error("cannot read scores", "game", gameID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "cannot read scores", Code: codeInternal})
		return
	}

	resp := make([]scoreResponse, 0, len(entries))
	for i, e := range entries {
		resp = append(resp, scoreResponse{
			Rank:      i + 1,
			GameID:    e.GameID,
			Score:     e.Score,
			Lines:     e.Lines,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	actions := make([]string, 0, len(session.Actions()))
	for _, a := range session.Actions() {
		actions = append(actions, string(a))
	}
	writeJSON(w, http.StatusOK, configResponse{
		BoardWidth:  s.game.Board.Width,
		BoardHeight: s.game.Board.Height,
		Scoring:     s.game.Scoring.Table(),
		WallKicks:   s.game.Gameplay.WallKicks,
		Actions:     actions,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// sessionID reads the caller's session from the header, then the cookie.
func sessionID(r *http.Request) session.ID {
	if id := r.Header.Get(sessionHeader); id != "" {
		return session.ID(id)
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return session.ID(c.Value)
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // The client may have gone away
	json.NewEncoder(w).Encode(v)
}
