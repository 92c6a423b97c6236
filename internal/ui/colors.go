package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/chordfinder/internal/shared"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	label   lipgloss.Style
	focused lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
}

// NewPalette builds the TUI chrome styles from the display colors.
func NewPalette(cfg shared.DisplayConfig) Palette {
	return Palette{
		title:   NewBold(cfg.TitleColor).MarginBottom(1),
		label:   NewStyle(cfg.MutedColor),
		focused: NewBold(cfg.TitleColor),
		ok:      NewBold(cfg.KnownColor),
		err:     NewBold(cfg.MissingColor),
		help:    NewEm(cfg.MutedColor),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
