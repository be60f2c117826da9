// Package tui drives a board from a Bubble Tea program: a fixed-rate tick
// clock, keyboard input mapped to board operations, sound effects for
// board events and a lipgloss rendering of the playfield.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/KaiqueGovani/tetrion/internal/audio"
	"github.com/KaiqueGovani/tetrion/internal/board"
	"github.com/KaiqueGovani/tetrion/internal/config"
	"github.com/KaiqueGovani/tetrion/internal/debuglog"
	"github.com/KaiqueGovani/tetrion/internal/piece"
)

type Screen int

const (
	ScreenMenu Screen = iota
	ScreenGame
	ScreenOver
)

const (
	lineClearFlashDuration = 140 * time.Millisecond
	// Terminals report key presses only, so soft drop is held for as long
	// as the down key keeps repeating.
	softDropHold = 220 * time.Millisecond
	maxScale     = 3
)

type menuItem int

const (
	menuStart menuItem = iota
	menuTheme
	menuSound
	menuMusic
	menuShadow
	menuQuit
	menuCount
)

type tickMsg struct{ gen int }
type soundMsg struct{}

type Options struct {
	Config config.Config
	Sound  *audio.SoundEngine
	Music  *audio.MusicPlayer
	// Save persists settings changed from the menu. Nil disables saving.
	Save   func(config.Config) error
	// Now is the clock used for input timers. Defaults to time.Now.
	Now    func() time.Time
}

type Model struct {
	screen     Screen
	width      int
	height     int
	cfg        config.Config
	keys       keyMap
	help       help.Model
	themeIndex int
	menuIndex  menuItem

	board     *board.Board
	paused    bool
	tickGen   int
	lastDelta int

	softDropUntil time.Time
	flashRows     []int
	flashUntil    time.Time

	sound *audio.SoundEngine
	music *audio.MusicPlayer
	save  func(config.Config) error
	now   func() time.Time
}

func New(opts Options) (Model, error) {
	cfg := opts.Config
	cfg.Normalize()
	if _, err := cfg.Board(); err != nil {
		return Model{}, err
	}
	index := themeIndexByName(cfg.Theme)
	if index < 0 {
		index = 0
		cfg.Theme = themes[index].Name
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sound := opts.Sound
	if sound == nil {
		sound = audio.NewSoundEngine(nil, 0, false, 0)
	}
	return Model{
		screen:     ScreenMenu,
		cfg:        cfg,
		keys:       defaultKeyMap(),
		help:       help.New(),
		themeIndex: index,
		sound:      sound,
		music:      opts.Music,
		save:       opts.Save,
		now:        now,
	}, nil
}

func (m Model) Screen() Screen { return m.screen }
func (m Model) Board() *board.Board { return m.board }
func (m Model) Paused() bool { return m.paused }
func (m Model) Config() config.Config { return m.cfg }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen || m.screen != ScreenGame {
			return m, nil
		}
		cmd := tea.Batch(m.step(), m.tickCmd())
		return m, cmd
	case soundMsg:
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.music.Stop()
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+=", "ctrl++":
			m.adjustScale(1)
			return m, nil
		case "ctrl+-", "ctrl+_":
			m.adjustScale(-1)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.screen {
		case ScreenMenu:
			cmd = m.updateMenu(msg)
		case ScreenGame:
			cmd = m.updateGame(msg)
		case ScreenOver:
			cmd = m.updateOver(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case ScreenMenu:
		return viewMenu(m)
	case ScreenGame:
		return viewGame(m)
	case ScreenOver:
		return viewOver(m)
	default:
		return ""
	}
}

func (m Model) tickCmd() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(m.cfg.TickInterval(), func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func playSound(engine *audio.SoundEngine, event audio.Event) tea.Cmd {
	return func() tea.Msg {
		engine.Play(event)
		return soundMsg{}
	}
}

func (m *Model) play(event audio.Event) tea.Cmd {
	if !m.cfg.Sound {
		return nil
	}
	return playSound(m.sound, event)
}

// step advances the board by one tick and turns the result into effects.
func (m *Model) step() tea.Cmd {
	if m.paused || m.board == nil {
		return nil
	}
	if m.board.SoftDropping() && !m.now().Before(m.softDropUntil) {
		m.board.SetSoftDrop(false)
	}
	res := m.board.Tick()
	return m.applyResult(res)
}

func (m *Model) applyResult(res board.TickResult) tea.Cmd {
	var cmds []tea.Cmd
	if res.Cleared > 0 {
		m.lastDelta = res.Points
		m.flashRows = res.ClearedRows
		m.flashUntil = m.now().Add(lineClearFlashDuration)
		cmds = append(cmds, m.play(audio.LineEvent(res.Cleared)))
		debuglog.Logf("clear rows=%v points=%d score=%d", res.ClearedRows, res.Points, m.board.Score())
	} else if res.Locked && !res.GameOver {
		cmds = append(cmds, m.play(audio.EventLock))
	}
	if res.LevelUp {
		cmds = append(cmds, m.play(audio.EventLevelUp))
		debuglog.Logf("level up level=%d", m.board.Level())
	}
	if res.GameOver {
		cmds = append(cmds, m.play(audio.EventGameOver), m.setScreen(ScreenOver))
		debuglog.Logf("game over score=%d lines=%d ticks=%d", m.board.Score(), m.board.Lines(), m.board.Ticks())
	}
	return tea.Batch(cmds...)
}

func (m *Model) startGame() tea.Cmd {
	bc, err := m.cfg.Board()
	if err != nil {
		debuglog.Logf("board config: %v", err)
		return nil
	}
	b, err := board.New(bc)
	if err != nil {
		debuglog.Logf("new board: %v", err)
		return nil
	}
	m.board = b
	m.paused = false
	m.lastDelta = 0
	m.flashRows = nil
	m.flashUntil = time.Time{}
	m.softDropUntil = time.Time{}
	m.tickGen++
	debuglog.Logf("game start %s", b)
	if b.IsGameOver() {
		return m.setScreen(ScreenOver)
	}
	return tea.Batch(m.setScreen(ScreenGame), m.tickCmd())
}

func (m *Model) setScreen(screen Screen) tea.Cmd {
	m.screen = screen
	return m.syncMusic()
}

// syncMusic stops or pauses the music in place. Starting opens and decodes
// the file, so it runs as a command off the update loop.
func (m *Model) syncMusic() tea.Cmd {
	if m.music == nil {
		return nil
	}
	if !m.cfg.Music || m.screen != ScreenGame {
		m.music.Stop()
		return nil
	}
	if m.paused {
		m.music.Pause()
		return nil
	}
	return m.music.StartCmd()
}

func (m *Model) persist() {
	if m.save == nil {
		return
	}
	if err := m.save(m.cfg); err != nil {
		debuglog.Logf("save config: %v", err)
	}
}

func (m *Model) adjustScale(delta int) {
	scale := min(max(m.cfg.Scale+delta, 1), maxScale)
	if scale != m.cfg.Scale {
		m.cfg.Scale = scale
		m.persist()
	}
}

func (m *Model) cycleTheme(delta int) {
	m.themeIndex = (m.themeIndex + delta + len(themes)) % len(themes)
	m.cfg.Theme = themes[m.themeIndex].Name
	m.persist()
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuIndex > 0 {
			m.menuIndex--
			return m.play(audio.EventMenuMove)
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuIndex < menuCount-1 {
			m.menuIndex++
			return m.play(audio.EventMenuMove)
		}
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
		if m.menuIndex == menuTheme {
			delta := 1
			if key.Matches(msg, m.keys.Left) {
				delta = -1
			}
			m.cycleTheme(delta)
			return m.play(audio.EventMenuMove)
		}
	case key.Matches(msg, m.keys.Select):
		return m.selectMenu()
	case key.Matches(msg, m.keys.Quit):
		m.music.Stop()
		return tea.Quit
	}
	return nil
}

func (m *Model) selectMenu() tea.Cmd {
	click := m.play(audio.EventMenuSelect)
	switch m.menuIndex {
	case menuStart:
		return tea.Batch(click, m.startGame())
	case menuTheme:
		m.cycleTheme(1)
	case menuSound:
		m.cfg.Sound = !m.cfg.Sound
		m.sound.SetEnabled(m.cfg.Sound)
		m.persist()
		click = m.play(audio.EventMenuSelect)
	case menuMusic:
		m.cfg.Music = !m.cfg.Music
		m.persist()
	case menuShadow:
		m.cfg.Shadow = !m.cfg.Shadow
		m.persist()
	case menuQuit:
		m.music.Stop()
		return tea.Quit
	}
	return click
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Menu) {
		m.paused = false
		return m.setScreen(ScreenMenu)
	}
	if key.Matches(msg, m.keys.Pause) {
		m.paused = !m.paused
		return m.syncMusic()
	}
	if m.paused {
		return nil
	}

	b := m.board
	switch {
	case key.Matches(msg, m.keys.Left):
		if b.AttemptMove(board.Negative, board.Horizontal) {
			return m.play(audio.EventMove)
		}
	case key.Matches(msg, m.keys.Right):
		if b.AttemptMove(board.Positive, board.Horizontal) {
			return m.play(audio.EventMove)
		}
	case key.Matches(msg, m.keys.Rotate):
		if b.AttemptRotate(piece.Clockwise) {
			return m.play(audio.EventRotate)
		}
	case key.Matches(msg, m.keys.RotateCC):
		if b.AttemptRotate(piece.CounterClockwise) {
			return m.play(audio.EventRotate)
		}
	case key.Matches(msg, m.keys.SoftDrop):
		b.SetSoftDrop(true)
		m.softDropUntil = m.now().Add(softDropHold)
	case key.Matches(msg, m.keys.HardDrop):
		if b.CurrentPiece().Active {
			b.SetHardDrop(true)
			return m.play(audio.EventHardDrop)
		}
	case key.Matches(msg, m.keys.Hold):
		if b.Hold() {
			if b.IsGameOver() {
				return m.applyResult(board.TickResult{GameOver: true})
			}
			return m.play(audio.EventHold)
		}
	}
	return nil
}

func (m *Model) updateOver(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Select):
		return m.startGame()
	case key.Matches(msg, m.keys.Quit):
		return m.setScreen(ScreenMenu)
	}
	return nil
}
