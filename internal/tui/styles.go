package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smartgrow/internal/models"
)

var (
	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

// Styles holds the theme-dependent chrome: the tab bar and the status line.
type Styles struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Status      lipgloss.Style
}

// NewStyles colours the chrome with the accent of theme. Unknown themes fall
// back to the default green.
func NewStyles(theme models.Theme) Styles {
	info := theme.Info()
	return Styles{
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(info.Accent)).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true),
		InactiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(info.Primary)).
			Italic(true),
	}
}
