package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris/engine"
)

const (
	cellW   = 2  // Screen columns per board cell
	hudW    = 22 // Width of the side panel
	hudGap  = 2
	blockCh = '█'
	ghostCh = '░'
	emptyCh = '·'
)

// pieceColors follows the usual guideline colors.
var pieceColors = map[engine.PieceType]core.Color{
	engine.PieceI: core.ColorCyan,
	engine.PieceJ: core.ColorBlue,
	engine.PieceL: core.ColorOrange,
	engine.PieceO: core.ColorYellow,
	engine.PieceS: core.ColorGreen,
	engine.PieceT: core.ColorPurple,
	engine.PieceZ: core.ColorRed,
}

// PieceColor returns the display color of a piece type.
func PieceColor(t engine.PieceType) core.Color {
	if c, ok := pieceColors[t]; ok {
		return c
	}
	return core.ColorDefault
}

func (g *Game) wellSize() (int, int) {
	w, h := engine.DefaultWidth, engine.DefaultHeight
	if g.session != nil {
		w, h = g.session.Width(), g.session.Height()
	}
	return w*cellW + 2, h + 2
}

// minScreenSize returns the smallest screen that fits the well and the HUD.
func (g *Game) minScreenSize() (int, int) {
	wellW, wellH := g.wellSize()
	return wellW + hudGap + hudW, wellH
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	minW, minH := g.minScreenSize()
	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", minW, minH))
		return
	}

	area := dst.Bounds().Centered(minW, minH)
	wellW, wellH := g.wellSize()
	well := core.NewRect(area.X, area.Y, wellW, wellH)

	g.renderWell(dst, well)
	g.renderHUD(dst, well.Right()+hudGap, well.Y)

	switch {
	case g.session.IsTerminal():
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) renderWell(dst *core.Screen, well core.Rect) {
	dst.DrawBox(well, core.ColorGray)

	for y, row := range g.session.LockedBoard() {
		for x, v := range row {
			if v == 0 {
				drawCell(dst, well, x, y, emptyCh, core.ColorGray)
				continue
			}
			drawCell(dst, well, x, y, blockCh, PieceColor(engine.PieceType(v)))
		}
	}

	p, ok := g.session.Active()
	if !ok {
		return
	}
	if gy, ok := g.session.GhostY(); ok && gy > p.Y {
		for _, c := range p.Moved(0, gy-p.Y).Cells() {
			drawCell(dst, well, c.X, c.Y, ghostCh, core.ColorGray)
		}
	}
	for _, c := range p.Cells() {
		drawCell(dst, well, c.X, c.Y, blockCh, PieceColor(p.Type))
	}
}

// drawCell fills the screen columns of one board cell inside the well border.
func drawCell(dst *core.Screen, well core.Rect, x, y int, r rune, c core.Color) {
	inner := well.Inset(1)
	sx := inner.X + x*cellW
	sy := inner.Y + y
	for i := 0; i < cellW; i++ {
		ch := r
		if r == emptyCh && i > 0 {
			ch = ' '
		}
		dst.SetCell(sx+i, sy, ch, c)
	}
}

func (g *Game) renderHUD(dst *core.Screen, x, y int) {
	s := g.session

	dst.DrawTextColor(x, y, g.Title(), core.ColorBrightWhite)
	dst.DrawTextColor(x, y+2, fmt.Sprintf("Score  %d", s.Score()), core.ColorBrightYellow)
	dst.DrawText(x, y+3, fmt.Sprintf("Lines  %d", s.Lines()))
	dst.DrawText(x, y+4, fmt.Sprintf("Pieces %d", s.Pieces()))
	dst.DrawTextColor(x, y+5, "Table  "+g.tableName(), core.ColorGray)

	if g.flashTicks > 0 {
		if n := s.LastLock().Lines; n > 0 {
			dst.DrawTextColor(x, y+7, fmt.Sprintf("+%d  %s", s.LastLock().ScoreDelta, clearName(n)), core.ColorBrightGreen)
		}
	}

	controls := []string{
		"←/→  move",
		"↑    rotate",
		"↓    soft drop",
		"spc  hard drop",
		"p    pause",
		"q    quit",
	}
	for i, line := range controls {
		dst.DrawTextColor(x, y+9+i, line, core.ColorGray)
	}
}

func (g *Game) tableName() string {
	if len(g.cfg.Scoring.Lines) > 0 {
		return "custom"
	}
	return string(g.cfg.Scoring.Preset)
}

func clearName(lines int) string {
	switch lines {
	case 1:
		return "Single"
	case 2:
		return "Double"
	case 3:
		return "Triple"
	case 4:
		return "Tetris!"
	default:
		return fmt.Sprintf("%d lines", lines)
	}
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	maxLen := max(len([]rune(line1)), len([]rune(line2)))
	box := dst.Bounds().Centered(maxLen+4, 5)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)
	drawCentered(dst, box, box.Y+1, line1, core.ColorBrightWhite)
	drawCentered(dst, box, box.Y+3, line2, core.ColorDefault)
}

func drawCentered(dst *core.Screen, box core.Rect, y int, text string, c core.Color) {
	x := box.X + (box.W-len([]rune(text)))/2
	dst.DrawTextColor(x, y, text, c)
}
