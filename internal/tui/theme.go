package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name        string
	BorderColor lipgloss.Color
	TextColor   lipgloss.Color
	AccentColor lipgloss.Color
	// PieceColors is indexed by shape color id.
	PieceColors []lipgloss.Color
}

const levelShiftThemeName = "Level Shift"

var themes = []Theme{
	{
		Name:        "Classic Tetris",
		BorderColor: lipgloss.Color("15"),
		TextColor:   lipgloss.Color("250"),
		AccentColor: lipgloss.Color("226"),
		PieceColors: []lipgloss.Color{"21", "93", "196", "46", "226", "51", "208"},
	},
	{
		Name:        "Amber Terminal",
		BorderColor: lipgloss.Color("214"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("208"),
		PieceColors: []lipgloss.Color{"216", "222", "215", "208", "214", "220", "223"},
	},
	{
		Name:        "Ocean Neon",
		BorderColor: lipgloss.Color("33"),
		TextColor:   lipgloss.Color("159"),
		AccentColor: lipgloss.Color("39"),
		PieceColors: []lipgloss.Color{"75", "51", "50", "44", "39", "45", "81"},
	},
	{
		Name:        "Forest CRT",
		BorderColor: lipgloss.Color("22"),
		TextColor:   lipgloss.Color("120"),
		AccentColor: lipgloss.Color("34"),
		PieceColors: []lipgloss.Color{"35", "77", "71", "48", "64", "47", "106"},
	},
	{
		Name:        "Mono Matrix",
		BorderColor: lipgloss.Color("250"),
		TextColor:   lipgloss.Color("245"),
		AccentColor: lipgloss.Color("82"),
		PieceColors: []lipgloss.Color{"236", "239", "242", "245", "248", "251", "254"},
	},
	{
		Name:        "Volcanic",
		BorderColor: lipgloss.Color("203"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("214"),
		PieceColors: []lipgloss.Color{"52", "88", "124", "160", "196", "202", "208"},
	},
	{
		Name:        levelShiftThemeName,
		BorderColor: lipgloss.Color("15"),
		TextColor:   lipgloss.Color("250"),
		AccentColor: lipgloss.Color("226"),
	},
}

func themeIndexByName(name string) int {
	for i, theme := range themes {
		if theme.Name == name {
			return i
		}
	}
	return -1
}

// themeForLevel resolves Level Shift to a concrete palette that changes
// with every level. Other themes are returned as is.
func themeForLevel(index, level int) Theme {
	selected := themes[index]
	if selected.Name != levelShiftThemeName {
		return selected
	}
	palettes := len(themes) - 1
	return themes[max(level-1, 0)%palettes]
}

func (t Theme) pieceColor(colorID int) lipgloss.Color {
	if len(t.PieceColors) == 0 {
		return t.AccentColor
	}
	return t.PieceColors[colorID%len(t.PieceColors)]
}

func titleStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func highlightStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func helpStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.TextColor)
}
