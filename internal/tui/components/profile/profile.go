package profile

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smartgrow/internal/analytics"
	"github.com/julianstephens/smartgrow/internal/models"
)

type ToggleLanguageMsg struct {
	Language models.Language
}

type KeyMap struct {
	Language key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Language: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "switch language"),
		),
	}
}

type Model struct {
	stats  models.UserStats
	keys   KeyMap
	width  int
	height int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(stats models.UserStats, width, height int) Model {
	return Model{
		stats:  stats,
		keys:   DefaultKeyMap(),
		width:  width,
		height: height,
	}
}

func (m *Model) SetStats(stats models.UserStats) {
	m.stats = stats
}

func (m Model) Keys() []key.Binding {
	return []key.Binding{m.keys.Language}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// nextLanguage flips between the two supported languages.
func nextLanguage(l models.Language) models.Language {
	if l == models.LanguageTagalog {
		return models.LanguageEnglish
	}
	return models.LanguageTagalog
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Language) {
		next := nextLanguage(m.stats.Language)
		return m, func() tea.Msg { return ToggleLanguageMsg{Language: next} }
	}
	return m, nil
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	s := m.stats
	persona := s.ProfileIcon.Info()
	theme := s.ThemeColor.Info()

	var sections []string

	who := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Name:", s.DisplayName()),
		row("Username:", s.Username),
		row("Persona:", lipgloss.NewStyle().Foreground(lipgloss.Color(persona.Color)).Render(persona.Label)),
		row("Theme:", lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Primary)).Render(theme.Label)),
		row("Language:", s.Language.Name()),
	)
	sections = append(sections, sectionStyle.Render(titleStyle.Render("Profile")+"\n"+who))

	progress := lipgloss.JoinVertical(
		lipgloss.Left,
		row("Level:", fmt.Sprintf("%d", s.Level)),
		row("XP:", fmt.Sprintf("%d / %d (%.0f%%)", s.XP, s.XPTarget(), analytics.LevelProgress(s))),
		row("Scans:", fmt.Sprintf("%d", s.ScansCount)),
		row("Sessions:", fmt.Sprintf("%d", s.SessionsCount)),
		row("Last action:", s.LastAction),
	)
	sections = append(sections, sectionStyle.Render(titleStyle.Render("Progress")+"\n"+progress))

	helpText := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true).
		MarginTop(2).
		Render("Press 'l' to switch language. Use 'smartgrow profile set' to edit your profile.")
	sections = append(sections, helpText)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Left,
		lipgloss.Top,
		lipgloss.NewStyle().Padding(2, 4).Render(content),
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
