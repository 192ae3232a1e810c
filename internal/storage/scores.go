package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// ScoreEntry is one row of the high score table.
type ScoreEntry struct {
	ID        int64
	GameID    string
	SessionID string // Empty for scores saved outside a session
	Score     int
	Lines     int
	CreatedAt time.Time
}

const scoreColumns = `id, game_id, session_id, score, lines, created_at`

// SaveScore adds an entry to the high score table and returns its ID.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	return insertScore(s.db, e)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertScore(db execer, e ScoreEntry) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO scores (game_id, session_id, score, lines) VALUES (?, ?, ?, ?)",
		e.GameID, e.SessionID, e.Score, e.Lines,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores returns the best limit entries for a game. Equal scores keep
// the order they were set in; limit <= 0 means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+scoreColumns+` FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.SessionID, &e.Score, &e.Lines, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan score: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: cannot read scores: %w", err)
	}
	return entries, nil
}

// HighScore returns the best score for a game, or 0 when none is recorded.
func (s *Store) HighScore(gameID string) (int, error) {
	var best int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(score), 0) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return best, nil
}

// ClearScores empties the high score table of one game. Finished-game
// history in game_results is kept.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats summarizes one game variant.
type GameStats struct {
	GameID     string
	GamesCount int // Entries in the high score table
	HighScore  int
	AvgScore   float64
	TotalScore int64
	TotalLines int64 // Over every recorded game, abandoned ones included
	LastPlayed time.Time
}

// GetGameStats aggregates the score table and the game history of one variant.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0),
		        (SELECT COALESCE(SUM(lines), 0) FROM game_results WHERE game_id = ?),
		        (SELECT MAX(created_at) FROM scores WHERE game_id = ?)
		 FROM scores WHERE game_id = ?`,
		gameID, gameID, gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.TotalLines, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}
