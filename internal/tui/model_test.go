package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaiqueGovani/tetrion/internal/config"
	"github.com/KaiqueGovani/tetrion/internal/shape"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(t *testing.T) (Model, *fakeClock, *[]config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Sound = false
	cfg.Seed = 1
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	var saved []config.Config
	m, err := New(Options{
		Config: cfg,
		Now:    clock.Now,
		Save: func(c config.Config) error {
			saved = append(saved, c)
			return nil
		},
	})
	require.NoError(t, err)
	return m, clock, &saved
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func startedModel(t *testing.T) (Model, *fakeClock) {
	t.Helper()
	m, clock, _ := newTestModel(t)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.Equal(t, ScreenGame, m.Screen())
	require.NotNil(t, m.Board())
	return m, clock
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = send(t, m, tickMsg{gen: m.tickGen})
	return m
}

func TestNew(t *testing.T) {
	t.Run("unknown theme falls back", func(t *testing.T) {
		cfg := config.Default()
		cfg.Theme = "Nope"
		m, err := New(Options{Config: cfg})
		require.NoError(t, err)
		assert.Equal(t, themes[0].Name, m.Config().Theme)
		assert.Equal(t, ScreenMenu, m.Screen())
	})

	t.Run("bad generator", func(t *testing.T) {
		cfg := config.Default()
		cfg.Generator = "weighted"
		_, err := New(Options{Config: cfg})
		assert.ErrorIs(t, err, shape.ErrUnknownGenerator)
	})
}

func TestMenu(t *testing.T) {
	m, _, saved := newTestModel(t)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, menuTheme, m.menuIndex)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, themes[1].Name, m.Config().Theme)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, themes[len(themes)-1].Name, m.Config().Theme)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Config().Sound)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Config().Shadow)

	require.Len(t, *saved, 5)
	assert.Equal(t, m.Config(), (*saved)[4])

	for i := 0; i < 10; i++ {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, menuStart, m.menuIndex)
}

func TestMenuQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := send(t, m, keyRune('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestGameInput(t *testing.T) {
	m, _ := startedModel(t)
	b := m.Board()
	start := b.CurrentPiece()

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, start.Pos.X-1, b.CurrentPiece().Pos.X)
	m, _ = send(t, m, keyRune('l'))
	assert.Equal(t, start.Pos.X, b.CurrentPiece().Pos.X)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	for i := 0; i < 20; i++ {
		m = tick(t, m)
	}
	before := b.CurrentPiece()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if b.CurrentPiece().Shape != shape.O {
		assert.NotEqual(t, before.Rotation, b.CurrentPiece().Rotation)
	}
	m, _ = send(t, m, keyRune('z'))
	assert.Equal(t, before.Rotation, b.CurrentPiece().Rotation)

	next := b.NextPiece().Shape
	m, _ = send(t, m, keyRune('c'))
	held, ok := b.HeldPiece()
	require.True(t, ok)
	assert.Equal(t, start.Shape, held.Shape)
	assert.Equal(t, next, b.CurrentPiece().Shape)

	_, _ = send(t, m, keyRune('c'))
	held2, _ := b.HeldPiece()
	assert.Equal(t, held, held2)
}

func TestPause(t *testing.T) {
	m, _ := startedModel(t)
	b := m.Board()

	m, _ = send(t, m, keyRune('p'))
	assert.True(t, m.Paused())
	pos := b.CurrentPiece().Pos
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = tick(t, m)
	assert.Equal(t, pos, b.CurrentPiece().Pos)
	assert.Equal(t, 0, b.Ticks())
	assert.Contains(t, m.View(), "Paused")

	m, _ = send(t, m, keyRune('p'))
	m = tick(t, m)
	assert.Equal(t, 1, b.Ticks())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ScreenMenu, m.Screen())
	_ = tick(t, m)
	assert.Equal(t, 1, b.Ticks())
}

func TestStaleTickIgnored(t *testing.T) {
	m, _ := startedModel(t)
	first := m.Board()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	stale := m.tickGen
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotSame(t, first, m.Board())

	m, _ = send(t, m, tickMsg{gen: stale})
	assert.Equal(t, 0, m.Board().Ticks())
	m = tick(t, m)
	assert.Equal(t, 1, m.Board().Ticks())
}

func TestSoftDropRelease(t *testing.T) {
	m, clock := startedModel(t)
	b := m.Board()

	m, _ = send(t, m, keyRune('j'))
	assert.True(t, b.SoftDropping())
	clock.Advance(softDropHold / 2)
	m = tick(t, m)
	assert.True(t, b.SoftDropping())

	m, _ = send(t, m, keyRune('j'))
	clock.Advance(softDropHold / 2)
	m = tick(t, m)
	assert.True(t, b.SoftDropping())

	clock.Advance(softDropHold)
	_ = tick(t, m)
	assert.False(t, b.SoftDropping())
}

func TestHardDropLocks(t *testing.T) {
	m, _ := startedModel(t)
	b := m.Board()
	distance := b.DropDistance()

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	for i := 0; i <= distance; i++ {
		m = tick(t, m)
	}
	assert.Len(t, b.LockedCells(), 4)
	assert.True(t, b.CurrentPiece().Active)
	assert.Equal(t, ScreenGame, m.Screen())
}

func TestGameOverScreen(t *testing.T) {
	m, _ := startedModel(t)
	b := m.Board()
	for i := 0; i < 20000 && !b.IsGameOver(); i++ {
		if b.CurrentPiece().Active && !b.SoftDropping() {
			m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
		}
		m = tick(t, m)
	}
	require.True(t, b.IsGameOver())
	assert.Equal(t, ScreenOver, m.Screen())
	assert.Contains(t, m.View(), "Game Over")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ScreenGame, m.Screen())
	assert.NotSame(t, b, m.Board())
	assert.False(t, m.Board().IsGameOver())
}

func TestScale(t *testing.T) {
	m, _, saved := newTestModel(t)
	for i := 0; i < 5; i++ {
		m.adjustScale(1)
	}
	assert.Equal(t, maxScale, m.Config().Scale)
	m.adjustScale(-10)
	assert.Equal(t, 1, m.Config().Scale)
	assert.NotEmpty(t, *saved)
}

func TestWindowSize(t *testing.T) {
	m, _ := startedModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	assert.Contains(t, m.View(), "Terminal too small")

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	view := m.View()
	assert.Contains(t, view, "Score: 0")
	assert.LessOrEqual(t, lipgloss.Height(view), 40)
	assert.True(t, strings.Contains(view, "hold"))
}

func TestMusicWithoutPlayer(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.cfg.Music = true
	assert.Nil(t, m.setScreen(ScreenGame))
	m.paused = true
	assert.Nil(t, m.syncMusic())
}
