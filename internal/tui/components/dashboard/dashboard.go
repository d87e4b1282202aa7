package dashboard

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smartgrow/internal/analytics"
	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/environment"
	"github.com/julianstephens/smartgrow/internal/guide"
	"github.com/julianstephens/smartgrow/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22c55e")).
			Bold(true).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2).
			Width(18).
			Align(lipgloss.Center)

	alertCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("214"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	tipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Italic(true).
			MarginTop(1)
)

// TipMsg advances the grower tip.
type TipMsg time.Time

func tipTick() tea.Cmd {
	return tea.Tick(constants.TipInterval, func(t time.Time) tea.Msg {
		return TipMsg(t)
	})
}

type Model struct {
	Reading  environment.Reading
	Summary  analytics.Summary
	Stats    models.UserStats
	Language models.Language
	tip      int
	width    int
	height   int
}

func New(reading environment.Reading, lang models.Language) Model {
	return Model{Reading: reading, Language: lang}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetSummary(summary analytics.Summary, stats models.UserStats) {
	m.Summary = summary
	m.Stats = stats
}

func (m Model) Init() tea.Cmd {
	return tipTick()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg.(type) {
	case TipMsg:
		m.tip++
		return m, tipTick()
	}
	return m, nil
}

// Tip is the grower tip currently on screen.
func (m Model) Tip() string {
	return guide.TipAt(m.Language, m.tip)
}

func card(label, value string, alert bool) string {
	style := cardStyle
	if alert {
		style = alertCardStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Center,
		labelStyle.Render(label),
		valueStyle.Render(value),
	))
}

func (m Model) View() string {
	r := m.Reading
	readings := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Temperature", fmt.Sprintf("%.1f°C", r.Temperature),
			r.Temperature > constants.HeatThreshold || r.Temperature < constants.CoolingThreshold),
		card("Humidity", fmt.Sprintf("%.0f%%", r.Humidity), false),
		card("Soil moisture", fmt.Sprintf("%.0f%%", r.SoilMoisture), r.SoilMoisture < constants.SoilThreshold),
		card("Light", fmt.Sprintf("%.0f lux", r.Light), false),
	)

	s := m.Summary
	summary := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s %s", labelStyle.Render("Health score:   "), valueStyle.Render(fmt.Sprintf("%d%%", s.HealthScore))),
		fmt.Sprintf("%s %s", labelStyle.Render("Total scans:    "), valueStyle.Render(fmt.Sprintf("%d", s.TotalScans))),
		fmt.Sprintf("%s %s", labelStyle.Render("Active sessions:"), valueStyle.Render(fmt.Sprintf("%d", s.ActiveSessions))),
		fmt.Sprintf("%s %s", labelStyle.Render("Level:          "),
			valueStyle.Render(fmt.Sprintf("%d (%d/%d XP)", m.Stats.Level, m.Stats.XP, m.Stats.XPTarget()))),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Greenhouse"),
		readings,
		"",
		summary,
		tipStyle.Render("💡 "+m.Tip()),
	)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
	}
	return content
}
