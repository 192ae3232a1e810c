package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// MenuItem is one variant on the picker.
type MenuItem struct {
	GameID string
	Title  string
	Best   int // 0 when nothing is recorded
}

// MenuModel lists the registered variants with their best scores. It quits
// its program once the player picks a variant, asks for the scoreboard or
// leaves; the caller reads which through Selected, WantsScoreboard and
// IsQuitting.
type MenuModel struct {
	items  []MenuItem
	cursor int
	config core.RuntimeConfig
	keys   *KeyMapper

	selected   *MenuItem
	scoreboard bool
	quitting   bool
}

// NewMenuModel builds the picker. The store may be nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	var items []MenuItem
	for _, g := range registry.List() {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if store != nil {
			item.Best, _ = store.HighScore(g.ID) // 0 on error
		}
		items = append(items, item)
	}
	return MenuModel{items: items, config: cfg, keys: NewKeyMapper()}
}

func (m MenuModel) Init() tea.Cmd { return nil }

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.press(m.keys.MapKeyToMenuAction(msg))
	}
	return m, nil
}

func (m MenuModel) press(a MenuAction) (tea.Model, tea.Cmd) {
	switch a {
	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)
	case MenuActionDown:
		m.cursor = min(m.cursor+1, len(m.items)-1)
	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		m.selected = &item
		return m, tea.Quit
	case MenuActionScoreboard:
		m.scoreboard = true
		return m, tea.Quit
	case MenuActionBack, MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

var (
	menuLogoStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("129"))
	menuBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(1, 3)
	menuItemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuCurStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuBestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const menuHint = "↑/↓ choose · enter play · tab scores · q quit"

func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleW := 0
	for _, item := range m.items {
		titleW = max(titleW, lipgloss.Width(item.Title))
	}

	rows := make([]string, len(m.items))
	for i, item := range m.items {
		marker, style := "  ", menuItemStyle
		if i == m.cursor {
			marker, style = "▶ ", menuCurStyle
		}
		row := style.Render(marker + item.Title + strings.Repeat(" ", titleW-lipgloss.Width(item.Title)))
		if item.Best > 0 {
			row += menuBestStyle.Render(fmt.Sprintf("   best %d", item.Best))
		}
		rows[i] = row
	}
	if len(rows) == 0 {
		rows = []string{menuHintStyle.Render("no variants registered")}
	}

	page := lipgloss.JoinVertical(lipgloss.Center,
		menuLogoStyle.Render("T E T R I S"),
		"",
		menuBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
		"",
		menuHintStyle.Render(menuHint),
	)
	return "\n" + centerText(page, m.config.ScreenW)
}

// Selected returns the chosen variant, nil if none was chosen.
func (m MenuModel) Selected() *MenuItem { return m.selected }

func (m MenuModel) IsQuitting() bool { return m.quitting }

func (m MenuModel) WantsScoreboard() bool { return m.scoreboard }

// centerText pads every line of text so the block sits in the middle of width.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return lipgloss.NewStyle().MarginLeft(pad).Render(text)
}

func centerStyled(style lipgloss.Style, text string, width int) string {
	return centerText(style.Render(text), width)
}
