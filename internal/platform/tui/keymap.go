package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// MenuAction is what a key does on the game picker.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// bindings lists the keys of one action, in tea.KeyMsg.String() form.
type bindings[A comparable] map[A][]string

var defaultGameKeys = bindings[core.Action]{
	core.ActionLeft:    {"a", "h", "left"},
	core.ActionRight:   {"d", "l", "right"},
	core.ActionRotate:  {"w", "k", "x", "up"},
	core.ActionDown:    {"s", "j", "down"},
	core.ActionDrop:    {" "},
	core.ActionConfirm: {"enter"},
	core.ActionBack:    {"b", "esc"},
	core.ActionPause:   {"p"},
	core.ActionRestart: {"r"},
	core.ActionQuit:    {"q", "ctrl+c"},
}

var defaultMenuKeys = bindings[MenuAction]{
	MenuActionUp:         {"w", "k", "up"},
	MenuActionDown:       {"s", "j", "down"},
	MenuActionSelect:     {"enter", " "},
	MenuActionBack:       {"b", "esc"},
	MenuActionScoreboard: {"tab"},
	MenuActionQuit:       {"q", "ctrl+c"},
}

// invert turns per-action key lists into a key lookup table.
func invert[A comparable](b bindings[A]) map[string]A {
	out := make(map[string]A)
	for a, keys := range b {
		for _, k := range keys {
			out[k] = a
		}
	}
	return out
}

// KeyMapper turns Bubble Tea key messages into game and menu actions.
type KeyMapper struct {
	game map[string]core.Action
	menu map[string]MenuAction
}

// NewKeyMapper returns a mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		game: invert(defaultGameKeys),
		menu: invert(defaultMenuKeys),
	}
}

// MapKey returns the game action bound to msg, ActionNone if there is none.
// quit is true for the quit keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, quit bool) {
	action = km.game[msg.String()]
	return action, action == core.ActionQuit
}

// MapKeyToFrame sets the action bound to msg in frame and reports whether it
// was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, quit := km.MapKey(msg)
	frame.Set(action)
	return quit
}

func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return km.menu[msg.String()]
}
