package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Rotate   key.Binding
	RotateCC key.Binding
	SoftDrop key.Binding
	HardDrop key.Binding
	Hold     key.Binding
	Pause    key.Binding
	Menu     key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Rotate:   key.NewBinding(key.WithKeys("up", "x"), key.WithHelp("↑/x", "rotate")),
		RotateCC: key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "rotate ccw")),
		SoftDrop: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "soft drop")),
		HardDrop: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hard drop")),
		Hold:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "hold")),
		Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Menu:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "menu")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// gameKeys is the in-game binding set shown by the help footer.
type gameKeys keyMap

func (k gameKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Rotate, k.HardDrop, k.Hold, k.Pause, k.Menu}
}

func (k gameKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.Rotate, k.RotateCC, k.Hold},
		{k.Pause, k.Menu},
	}
}

type menuKeys keyMap

func (k menuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.Quit}
}

func (k menuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
