// Package registry lets game variants register themselves from init(), so
// the CLI, the menu and the SSH server can list and create them by ID
// without importing each variant's package.
package registry

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Game is what a playable variant implements. It holds pure simulation and
// drawing logic; the platform owns input, timing and the terminal.
type Game interface {
	// ID is the stable identifier used on the command line and in stored
	// scores, e.g. "tetris" or "tetris_classic".
	ID() string
	Title() string

	// Reset starts a new game for the given screen and seed. Called before
	// the first Step and on every restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick with the actions triggered during it.
	Step(in core.InputFrame) core.StepResult

	// Render draws into dst, which the platform has already cleared.
	Render(dst *core.Screen)

	State() core.GameState
}

// GameInfo describes a registered variant.
type GameInfo struct {
	ID    string
	Title string
}

// Factory returns a fresh, not yet Reset game.
type Factory func() Game

type variant struct {
	title   string
	factory Factory
}

var (
	mu       sync.RWMutex
	variants = map[string]variant{}
)

// Register adds a variant under id. Registering the same id twice panics.
func Register(id string, f Factory) {
	title := f().Title()

	mu.Lock()
	defer mu.Unlock()
	if _, dup := variants[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	variants[id] = variant{title: title, factory: f}
}

// List returns every registered variant ordered by ID.
func List() []GameInfo {
	mu.RLock()
	out := make([]GameInfo, 0, len(variants))
	for id, v := range variants {
		out = append(out, GameInfo{ID: id, Title: v.title})
	}
	mu.RUnlock()

	slices.SortFunc(out, func(a, b GameInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Create returns a new instance of the variant registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	v, ok := variants[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return v.factory(), nil
}

// Title returns the display title of id, or id itself when it is unknown.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()
	if v, ok := variants[id]; ok {
		return v.title
	}
	return id
}

func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := variants[id]
	return ok
}
