package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiqueGovani/tetrion/internal/board"
	"github.com/KaiqueGovani/tetrion/internal/shape"
)

func newBoard(t *testing.T, shapes ...shape.Shape) *board.Board {
	t.Helper()
	cfg := board.DefaultConfig()
	cfg.Generator = shape.NewSequence(shapes...)
	b, err := board.New(cfg)
	require.NoError(t, err)
	return b
}

func TestRenderBoard(t *testing.T) {
	b := newBoard(t, shape.I, shape.O)
	theme := themes[0]

	out := renderBoard(b, theme, 1, false, nil)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, b.Height()+2)
	for _, line := range lines {
		assert.Equal(t, b.Width()*2+2, lipgloss.Width(line))
	}
	assert.NotContains(t, out, ".")

	shadow := renderBoard(b, theme, 1, true, nil)
	lines = strings.Split(shadow, "\n")
	// The I ghost sits on the floor, row 19, columns 3 to 6.
	assert.Equal(t, 8, strings.Count(lines[b.Height()], "."))
	assert.Equal(t, 8, strings.Count(shadow, "."))

	scaled := renderBoard(b, theme, 2, false, nil)
	assert.Len(t, strings.Split(scaled, "\n"), 2*b.Height()+2)
}

func TestRenderMiniPiece(t *testing.T) {
	for _, s := range shape.All {
		out := renderMiniPiece(s, themes[0], 1)
		assert.Len(t, strings.Split(out, "\n"), 4, "%s", s)
	}
	assert.Len(t, strings.Split(renderMiniPiece(shape.T, themes[0], 2), "\n"), 8)
}

func TestRenderInfo(t *testing.T) {
	b := newBoard(t, shape.T, shape.L)
	out := renderInfo(b, themes[0], 1, 0, false)
	assert.Contains(t, out, "Next")
	assert.Contains(t, out, "(empty)")
	assert.Contains(t, out, "Level: 1")
	assert.Contains(t, out, "Time:  00:00")
	assert.NotContains(t, out, "Paused")

	require.True(t, b.Hold())
	out = renderInfo(b, themes[0], 1, 80, true)
	assert.NotContains(t, out, "(empty)")
	assert.Contains(t, out, "+80")
	assert.Contains(t, out, "Paused")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", formatElapsed(0))
	assert.Equal(t, "01:15", formatElapsed(75*time.Second+400*time.Millisecond))
	assert.Equal(t, "61:01", formatElapsed(61*time.Minute+time.Second))
}

func TestThemeForLevel(t *testing.T) {
	assert.Equal(t, themes[2], themeForLevel(2, 7))

	shift := themeIndexByName(levelShiftThemeName)
	require.GreaterOrEqual(t, shift, 0)
	assert.Equal(t, themes[0], themeForLevel(shift, 1))
	assert.Equal(t, themes[1], themeForLevel(shift, 2))
	assert.Equal(t, themes[0], themeForLevel(shift, len(themes)))
	for level := 1; level < 20; level++ {
		assert.NotEmpty(t, themeForLevel(shift, level).PieceColors)
	}
}

func TestViewMenu(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, title)
	assert.Contains(t, view, "Start")
	assert.Contains(t, view, "Theme: ◀ Classic Tetris ▶")
	assert.Contains(t, view, "Music: no file")
}
