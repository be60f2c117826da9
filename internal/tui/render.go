package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/KaiqueGovani/tetrion/internal/board"
	"github.com/KaiqueGovani/tetrion/internal/shape"
)

const title = "TETRION"

func viewMenu(m Model) string {
	theme := themes[m.themeIndex]
	items := make([]string, 0, menuCount)
	for i := menuItem(0); i < menuCount; i++ {
		items = append(items, menuLabel(m, i))
	}
	content := renderMenu(title, items, int(m.menuIndex), m.help.View(menuKeys(m.keys)), theme)
	return center(m.width, m.height, content)
}

func menuLabel(m Model, item menuItem) string {
	switch item {
	case menuStart:
		return "Start"
	case menuTheme:
		return fmt.Sprintf("Theme: ◀ %s ▶", themes[m.themeIndex].Name)
	case menuSound:
		return "Sound: " + onOff(m.cfg.Sound)
	case menuMusic:
		if m.cfg.MusicFile == "" {
			return "Music: no file"
		}
		return "Music: " + onOff(m.cfg.Music)
	case menuShadow:
		return "Shadow: " + onOff(m.cfg.Shadow)
	case menuQuit:
		return "Quit"
	default:
		return ""
	}
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func viewGame(m Model) string {
	if m.board == nil {
		return ""
	}
	theme := themeForLevel(m.themeIndex, m.board.Level())
	scale := clampScale(m.cfg.Scale)
	minWidth, minHeight := minGameSize(m.board, scale)
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		message := fmt.Sprintf("Terminal too small. Need at least %dx%d. Current %dx%d.", minWidth, minHeight, m.width, m.height)
		return center(m.width, m.height, message)
	}
	var flash []int
	if m.now().Before(m.flashUntil) {
		flash = m.flashRows
	}
	playfield := renderBoard(m.board, theme, scale, m.cfg.Shadow, flash)
	info := renderInfo(m.board, theme, scale, m.lastDelta, m.paused)
	content := lipgloss.JoinHorizontal(lipgloss.Top, playfield, info)
	if m.width > 0 && m.width < minWidth+24 {
		content = lipgloss.JoinVertical(lipgloss.Left, playfield, info)
	}
	content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.help.View(gameKeys(m.keys)))
	return center(m.width, m.height, content)
}

func viewOver(m Model) string {
	theme := themes[m.themeIndex]
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Game Over"))
	b.WriteString("\n\n")
	if m.board != nil {
		fmt.Fprintf(&b, "Score: %d  Lines: %d  Level: %d\n", m.board.Score(), m.board.Lines(), m.board.Level())
		fmt.Fprintf(&b, "Time: %s\n\n", formatElapsed(m.board.ElapsedTime()))
	}
	b.WriteString(helpStyle(theme).Render("Enter to play again, Esc for menu"))
	return center(m.width, m.height, b.String())
}

// renderBoard draws locked cells, the falling piece and its ghost. Rows in
// flash are drawn solid white.
func renderBoard(g *board.Board, theme Theme, scale int, showShadow bool, flash []int) string {
	w, h := g.Width(), g.Height()
	colors := make([][]int, h)
	for y := range colors {
		colors[y] = make([]int, w)
		for x := range colors[y] {
			colors[y][x] = -1
		}
	}
	for _, c := range g.LockedCells() {
		colors[c.Pos.Y][c.Pos.X] = c.Color()
	}

	ghost := make(map[shape.Point]bool)
	cur := g.CurrentPiece()
	if showShadow && !g.IsGameOver() {
		if d := g.DropDistance(); d > 0 {
			for _, p := range cur.Moved(0, d).Cells() {
				ghost[p] = true
			}
		}
	}
	if !g.IsGameOver() {
		for _, p := range cur.Cells() {
			if p.Y >= 0 && p.Y < h && p.X >= 0 && p.X < w {
				colors[p.Y][p.X] = cur.Shape.Color()
			}
		}
	}
	flashing := make(map[int]bool, len(flash))
	for _, y := range flash {
		flashing[y] = true
	}

	border := lipgloss.NewStyle().Foreground(theme.BorderColor)
	white := lipgloss.NewStyle().Background(lipgloss.Color("15"))
	ghostStyle := lipgloss.NewStyle().Foreground(theme.pieceColor(cur.Shape.Color())).Faint(true)
	cellText := strings.Repeat(" ", cellWidth(scale))
	ghostText := strings.Repeat(".", cellWidth(scale))
	edge := border.Render("+" + strings.Repeat("-", w*cellWidth(scale)) + "+")

	var b strings.Builder
	b.WriteString(edge)
	b.WriteString("\n")
	for y := 0; y < h; y++ {
		for repeat := 0; repeat < scale; repeat++ {
			b.WriteString(border.Render("|"))
			for x := 0; x < w; x++ {
				switch {
				case flashing[y]:
					b.WriteString(white.Render(cellText))
				case colors[y][x] >= 0:
					b.WriteString(lipgloss.NewStyle().Background(theme.pieceColor(colors[y][x])).Render(cellText))
				case ghost[shape.Point{X: x, Y: y}]:
					b.WriteString(ghostStyle.Render(ghostText))
				default:
					b.WriteString(cellText)
				}
			}
			b.WriteString(border.Render("|"))
			b.WriteString("\n")
		}
	}
	b.WriteString(edge)
	return b.String()
}

func renderInfo(g *board.Board, theme Theme, scale, lastDelta int, paused bool) string {
	var b strings.Builder
	pad := lipgloss.NewStyle().PaddingLeft(2)
	line := func(s string) {
		b.WriteString(pad.Render(s))
		b.WriteString("\n")
	}

	line(titleStyle(theme).Render("Next"))
	line(renderMiniPiece(g.NextPiece().Shape, theme, scale))
	b.WriteString("\n")
	line(titleStyle(theme).Render("Hold"))
	if held, ok := g.HeldPiece(); ok {
		style := lipgloss.NewStyle()
		if g.HoldUsed() {
			style = style.Faint(true)
		}
		line(style.Render(renderMiniPiece(held.Shape, theme, scale)))
	} else {
		line("(empty)")
	}
	b.WriteString("\n")
	line(fmt.Sprintf("Score: %d", g.Score()))
	line(fmt.Sprintf("Lines: %d", g.Lines()))
	line(fmt.Sprintf("Level: %d", g.Level()))
	line(fmt.Sprintf("Time:  %s", formatElapsed(g.ElapsedTime())))
	if lastDelta > 0 {
		b.WriteString("\n")
		line(highlightStyle(theme).Render(fmt.Sprintf("+%d", lastDelta)))
	}
	if paused {
		b.WriteString("\n")
		line(highlightStyle(theme).Render("Paused"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMiniPiece(s shape.Shape, theme Theme, scale int) string {
	var grid [4][4]bool
	for _, p := range shape.Cells(s, 0) {
		grid[p.Y][p.X] = true
	}
	filled := lipgloss.NewStyle().Background(theme.pieceColor(s.Color()))
	cellText := strings.Repeat(" ", cellWidth(scale))
	var b strings.Builder
	for y := 0; y < 4; y++ {
		for repeat := 0; repeat < scale; repeat++ {
			for x := 0; x < 4; x++ {
				if grid[y][x] {
					b.WriteString(filled.Render(cellText))
				} else {
					b.WriteString(cellText)
				}
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func minGameSize(g *board.Board, scale int) (int, int) {
	width := g.Width()*cellWidth(scale) + 2
	height := g.Height()*scale + 4
	return width, height
}

func clampScale(value int) int {
	return min(max(value, 1), maxScale)
}

func cellWidth(scale int) int {
	return 2 * max(scale, 1)
}

func center(width, height int, content string) string {
	if width == 0 || height == 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderMenu(title string, items []string, selected int, footer string, theme Theme) string {
	maxWidth := lipgloss.Width(title)
	for _, item := range items {
		maxWidth = max(maxWidth, lipgloss.Width(item))
	}
	maxWidth = max(maxWidth, lipgloss.Width(footer))
	lineStyle := lipgloss.NewStyle().Width(maxWidth).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(lineStyle.Render(titleStyle(theme).Render(title)))
	b.WriteString("\n\n")
	for i, item := range items {
		if i == selected {
			item = highlightStyle(theme).Render(item)
		}
		b.WriteString(lineStyle.Render(item))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lineStyle.Render(helpStyle(theme).Render(footer)))
	return b.String()
}
