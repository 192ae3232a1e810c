package tui

import (
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/session"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// resultRecorder saves each finished game at most once.
type resultRecorder struct {
	saver     session.ResultSaver // nil when scores are not stored
	sessionID string
	started   time.Time
	saved     bool
}

func newResultRecorder(store *storage.Store, sessionID string, now time.Time) *resultRecorder {
	r := &resultRecorder{sessionID: sessionID, started: now}
	if store != nil {
		r.saver = store
	}
	return r
}

// restart marks the beginning of a new game.
func (r *resultRecorder) restart(now time.Time) {
	r.started = now
	r.saved = false
}

// observe records the game once it is over. Games that never locked a piece are skipped.
func (r *resultRecorder) observe(gameID string, st core.GameState, now time.Time) bool {
	if !st.GameOver || r.saved {
		return false
	}
	r.saved = true
	if r.saver == nil || st.Pieces == 0 {
		return false
	}

	//nolint:errcheck // Best-effort save, game continues regardless
	r.saver.SaveGameResult(session.Result{
		SessionID:    r.sessionID,
		GameID:       gameID,
		Score:        st.Score,
		Lines:        st.Lines,
		Pieces:       st.Pieces,
		EndReason:    session.EndReasonGameOver,
		DurationSecs: int(now.Sub(r.started).Seconds()),
		EndedAt:      now,
	})
	return true
}
