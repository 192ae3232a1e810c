package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/session"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store) Model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	m := NewModel(tetris.New(), store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 3})
	m.Init()
	return m
}

func step(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func TestModelDropAndRender(t *testing.T) {
	m := newTestModel(t, nil)

	m = step(t, m, space(), TickMsg(time.Now()))
	if m.gameState.Pieces != 1 {
		t.Fatalf("Pieces = %d, expected 1", m.gameState.Pieces)
	}
	if m.inputFrame.Has(core.ActionDrop) {
		t.Error("input frame should be cleared after a tick")
	}

	view := m.View()
	if !strings.Contains(view, "Score") {
		t.Error("view should include the HUD")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil)

	next, cmd := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Error("quit should return tea.Quit")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestModelEscPausesThenLeaves(t *testing.T) {
	m := newTestModel(t, nil)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc}, TickMsg(time.Now()))
	if !m.gameState.Paused {
		t.Fatal("esc during play should pause")
	}
	if m.BackToMenu() {
		t.Fatal("first esc should not leave the game")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc while paused should go back to the menu")
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	m := newTestModel(t, nil)
	m = step(t, m, space(), TickMsg(time.Now()))

	m = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, TickMsg(time.Now()))
	if m.gameState.Pieces != 1 {
		t.Errorf("Pieces = %d after resize, expected 1", m.gameState.Pieces)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 30 {
		t.Errorf("screen = %dx%d, expected 100x30", m.screen.Width(), m.screen.Height())
	}
}

func TestModelRecordsGameOnce(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	for i := 0; i < 500 && !m.gameState.GameOver; i++ {
		m = step(t, m, space(), TickMsg(time.Now()))
	}
	if !m.gameState.GameOver {
		t.Fatal("repeated hard drops should end the game")
	}
	// Extra ticks after game over must not record again.
	m = step(t, m, TickMsg(time.Now()), TickMsg(time.Now()))

	results, err := store.RecentGameResults(10)
	if err != nil {
		t.Fatalf("RecentGameResults() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("recorded %d results, expected 1", len(results))
	}
	r := results[0]
	if r.GameID != "tetris" || r.EndReason != string(session.EndReasonGameOver) {
		t.Errorf("result = %+v", r)
	}
	if r.Pieces != m.gameState.Pieces || r.Score != m.gameState.Score {
		t.Errorf("result %+v does not match final state %+v", r, m.gameState)
	}

	// Restart begins a new game that can be recorded again.
	m = step(t, m, runeKey('r'), TickMsg(time.Now()))
	if m.gameState.GameOver {
		t.Error("r after game over should restart")
	}
	if m.results.saved {
		t.Error("restart should allow the next game to be recorded")
	}
}

func TestModelScreenshot(t *testing.T) {
	m := newTestModel(t, nil)

	path, err := m.saveScreenshot(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("saveScreenshot() failed: %v", err)
	}
	if filepath.Base(path) != "tetris_20240501_123000.txt" {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(data), "Score") {
		t.Error("screenshot should contain the rendered HUD")
	}
}
