package storage

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/session"
)

// GameResult is one finished game as stored in game_results.
type GameResult struct {
	ID           int64
	SessionID    string
	GameID       string
	Score        int
	Lines        int
	Pieces       int
	EndReason    string // "game_over", "restarted", "expired", "removed"
	DurationSecs int
	CreatedAt    time.Time
}

// SaveGameResult implements session.ResultSaver. A game that ended by game
// over also enters the high score table, in the same transaction.
func (s *Store) SaveGameResult(r session.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	_, err = tx.Exec(
		`INSERT INTO game_results
		 (session_id, game_id, score, lines, pieces, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.GameID,
		r.Score,
		r.Lines,
		r.Pieces,
		string(r.EndReason),
		r.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game result: %w", err)
	}

	if r.EndReason == session.EndReasonGameOver {
		entry := ScoreEntry{GameID: r.GameID, SessionID: r.SessionID, Score: r.Score, Lines: r.Lines}
		if _, err := insertScore(tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit game result: %w", err)
	}
	return nil
}

// Ensure Store implements ResultSaver
var _ session.ResultSaver = (*Store)(nil)

const resultColumns = `id, session_id, game_id, score, lines, pieces, end_reason, duration_secs, created_at`

// GameResultsBySession returns the games recorded for a session, newest first.
func (s *Store) GameResultsBySession(sessionID string) ([]GameResult, error) {
	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM game_results
		 WHERE session_id = ?
		 ORDER BY id DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session results: %w", err)
	}
	return scanResults(rows)
}

// RecentGameResults returns the most recently finished games.
func (s *Store) RecentGameResults(limit int) ([]GameResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM game_results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game results: %w", err)
	}
	return scanResults(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

func scanResults(rows rowScanner) ([]GameResult, error) {
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var r GameResult
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.SessionID,
			&r.GameID,
			&r.Score,
			&r.Lines,
			&r.Pieces,
			&r.EndReason,
			&r.DurationSecs,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}
