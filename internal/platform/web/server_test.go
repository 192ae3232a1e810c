package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
	"github.com/vovakirdan/tui-tetris/internal/session"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

type stubScores struct {
	entries []storage.ScoreEntry
	err     error
	gameID  string
	limit   int
}

func (s *stubScores) TopScores(gameID string, limit int) ([]storage.ScoreEntry, error) {
	s.gameID = gameID
	s.limit = limit
	return s.entries, s.err
}

// oFactory spawns only O pieces, so ten hard drops end a game on the default board.
func oFactory(int64) (*engine.Session, error) {
	opts := engine.DefaultOptions()
	opts.Source = engine.NewQueueSource(engine.PieceO)
	return engine.New(opts)
}

type testServer struct {
	handler  http.Handler
	sessions *session.Registry
	scores   *stubScores
}

func newTestServer(t *testing.T, cfg session.Config) *testServer {
	t.Helper()
	logger := log.New(io.Discard)
	sessions := session.NewRegistry(cfg, oFactory, logger)
	t.Cleanup(sessions.Stop)

	scores := &stubScores{}
	srv := NewServer(DefaultServerConfig(), sessions, scores, config.DefaultTetrisConfig(), logger)
	return &testServer{handler: srv.Handler(), sessions: sessions, scores: scores}
}

func (ts *testServer) do(t *testing.T, method, path, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if id != "" {
		req.Header.Set(sessionHeader, id)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) start(t *testing.T) session.State {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/start", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st session.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.NotEmpty(t, st.ID)
	return st
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStartSetsCookieAndReturnsBoard(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())

	rec := ts.do(t, http.MethodPost, "/api/start", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[map[string]any](t, rec)
	id, _ := body["sessionId"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, false, body["gameOver"])
	assert.EqualValues(t, 0, body["score"])
	assert.Len(t, body["board"], engine.DefaultHeight)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.Equal(t, id, rec.Header().Get(sessionHeader))
}

func TestStartReusesKnownSession(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	rec := ts.do(t, http.MethodPost, "/start", string(st.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, st.ID, decode[session.State](t, rec).ID)
	assert.Equal(t, 1, ts.sessions.Count())
}

func TestStateUsesCookie(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: string(st.ID)})
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[session.State](t, rec)
	assert.Equal(t, st.ID, got.ID)
	assert.Equal(t, engine.DefaultWidth, got.Width)
	assert.Equal(t, engine.DefaultHeight, got.Height)
}

func TestActionMovesPiece(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	rec := ts.do(t, http.MethodPost, "/action", string(st.ID), `{"action":"left"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[actionResponse](t, rec)
	assert.Equal(t, session.ActionLeft, resp.Action)
	assert.True(t, resp.Success)
	assert.False(t, resp.GameOver)
	// The O spawns at columns 4-5 and moved to 3-4.
	assert.Equal(t, int(engine.PieceO), resp.Board[0][3])
	assert.Equal(t, 0, resp.Board[0][5])
}

func TestActionBlockedMoveIsNotAnError(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	var resp actionResponse
	for i := 0; i < 5; i++ {
		rec := ts.do(t, http.MethodPost, "/api/action", string(st.ID), `{"action":"left"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		resp = decode[actionResponse](t, rec)
	}
	assert.False(t, resp.Success, "fifth shift should hit the wall")
}

func TestActionDropReportsScoreAndLines(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	rec := ts.do(t, http.MethodPost, "/action", string(st.ID), `{"action":"drop"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[actionResponse](t, rec)

	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Cleared)
	assert.Equal(t, 0, resp.Score)
	assert.Equal(t, int(engine.PieceO), resp.Board[engine.DefaultHeight-1][4])
}

func TestActionErrors(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	tests := []struct {
		name   string
		id     string
		body   string
		status int
		code   string
	}{
		{"unknown action", string(st.ID), `{"action":"jump"}`, http.StatusBadRequest, codeUnknownAction},
		{"padded action", string(st.ID), `{"action":" LEFT "}`, http.StatusBadRequest, codeUnknownAction},
		{"uppercase action", string(st.ID), `{"action":"DROP"}`, http.StatusBadRequest, codeUnknownAction},
		{"malformed body", string(st.ID), `{"action":`, http.StatusBadRequest, codeBadRequest},
		{"missing session", "", `{"action":"left"}`, http.StatusNotFound, codeSessionNotFound},
		{"unknown session", "nope", `{"action":"left"}`, http.StatusNotFound, codeSessionNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/action", tc.id, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decode[errorResponse](t, rec).Code)
		})
	}

	// Rejected requests leave the game untouched.
	got, err := ts.sessions.State(st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Board, got.Board)
}

func TestActionAfterGameOver(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	var last actionResponse
	for i := 0; i < 10; i++ {
		rec := ts.do(t, http.MethodPost, "/action", string(st.ID), `{"action":"drop"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		last = decode[actionResponse](t, rec)
	}
	require.True(t, last.GameOver)

	rec := ts.do(t, http.MethodPost, "/action", string(st.ID), `{"action":"tick"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[terminalResponse](t, rec)
	assert.Equal(t, codeGameOver, body.Code)
	assert.True(t, body.GameOver)
	assert.Equal(t, last.Board, body.Board)

	// A new start clears the board.
	rec = ts.do(t, http.MethodPost, "/start", string(st.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decode[session.State](t, rec)
	assert.False(t, fresh.GameOver)
	assert.Equal(t, 0, fresh.Pieces)
}

func TestTickEndingGame(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	st := ts.start(t)

	for i := 0; i < 9; i++ {
		rec := ts.do(t, http.MethodPost, "/action", string(st.ID), `{"action":"drop"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var last actionResponse
	for i := 0; i < 25 && !last.GameOver; i++ {
		rec := ts.do(t, http.MethodPost, "/action", string(st.ID), `{"action":"tick"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		last = decode[actionResponse](t, rec)
		if !last.GameOver {
			assert.True(t, last.Success, "tick %d on a live game", i+1)
		}
	}

	require.True(t, last.GameOver)
	assert.False(t, last.Success)
	assert.Equal(t, "tick", string(last.Action))
}

func TestStartAtCapacity(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.MaxSessions = 1
	ts := newTestServer(t, cfg)
	ts.start(t)

	rec := ts.do(t, http.MethodPost, "/start", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, codeCapacity, decode[errorResponse](t, rec).Code)
}

func TestEngineUnavailable(t *testing.T) {
	logger := log.New(io.Discard)
	sessions := session.NewRegistry(session.DefaultConfig(), func(int64) (*engine.Session, error) {
		return nil, errors.New("boom")
	}, logger)
	t.Cleanup(sessions.Stop)
	handler := NewServer(DefaultServerConfig(), sessions, nil, config.DefaultTetrisConfig(), logger).Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/start", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, codeEngineUnavailable, decode[errorResponse](t, rec).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())

	rec := ts.do(t, http.MethodGet, "/action", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestScores(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	now := time.Now()
	ts.scores.entries = []storage.ScoreEntry{
		{ID: 2, GameID: "tetris", Score: 800, Lines: 6, CreatedAt: now},
		{ID: 1, GameID: "tetris", Score: 300, CreatedAt: now},
	}

	rec := ts.do(t, http.MethodGet, "/api/scores?limit=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rows := decode[[]scoreResponse](t, rec)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 800, rows[0].Score)
	assert.Equal(t, 6, rows[0].Lines)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "tetris", ts.scores.gameID)
	assert.Equal(t, 5, ts.scores.limit)

	rec = ts.do(t, http.MethodGet, "/api/scores?game=tetris_classic", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tetris_classic", ts.scores.gameID)
	assert.Equal(t, 10, ts.scores.limit)
}

func TestScoresErrors(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())

	rec := ts.do(t, http.MethodGet, "/api/scores?limit=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.scores.err = errors.New("disk gone")
	rec = ts.do(t, http.MethodGet, "/api/scores", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, codeInternal, decode[errorResponse](t, rec).Code)
}

func TestConfigAndHealth(t *testing.T) {
	ts := newTestServer(t, session.DefaultConfig())
	ts.start(t)

	rec := ts.do(t, http.MethodGet, "/api/config", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[configResponse](t, rec)
	assert.Equal(t, 10, cfg.BoardWidth)
	assert.Equal(t, 20, cfg.BoardHeight)
	assert.Equal(t, []int{100, 300, 500, 800}, cfg.Scoring)
	assert.ElementsMatch(t, []string{"left", "right", "rotate", "drop", "tick"}, cfg.Actions)

	rec = ts.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 1, health["sessions"])
}
