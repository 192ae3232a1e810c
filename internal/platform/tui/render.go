package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// palette holds the ANSI 256-color code of each core.Color, by index.
var palette = [...]lipgloss.Color{
	core.ColorDefault:       "",
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorPurple:        "129",
}

var cellStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, c := range palette {
		styles[i] = lipgloss.NewStyle()
		if c != "" {
			styles[i] = styles[i].Foreground(c)
		}
	}
	return styles
}()

// styleFor returns the style of c; unknown colors render unstyled.
func styleFor(c core.Color) lipgloss.Style {
	if int(c) >= len(cellStyles) {
		return cellStyles[core.ColorDefault]
	}
	return cellStyles[c]
}

// RenderScreen turns a Screen into terminal output, one line per row.
// Each run of same-colored cells is styled once.
func RenderScreen(s *core.Screen) string {
	w, h := s.Width(), s.Height()

	var out, run strings.Builder
	out.Grow(w*h*2 + h)

	for y := range h {
		if y > 0 {
			out.WriteByte('\n')
		}
		for x := 0; x < w; {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < w; x++ {
				c := s.GetCell(x, y)
				if c.Color != color {
					break
				}
				run.WriteRune(c.Rune)
			}
			if color == core.ColorDefault {
				out.WriteString(run.String())
				continue
			}
			out.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return out.String()
}
