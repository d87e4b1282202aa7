package alerts

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/utils"
)

type ClearAlertsMsg struct{}

type Item struct {
	Alert models.AppAlert
	loc   *time.Location
}

func (i Item) Title() string {
	icon := "ℹ"
	switch i.Alert.Severity {
	case models.AlertWarning:
		icon = "⚠"
	case models.AlertError:
		icon = "❌"
	}
	return fmt.Sprintf("%s %s", icon, i.Alert.Title)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %s", utils.FormatMillis(i.Alert.Timestamp, i.loc), i.Alert.Message)
}

func (i Item) FilterValue() string { return i.Alert.Title }

type KeyMap struct {
	Clear key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear all"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	loc  *time.Location
}

func New(alerts []models.AppAlert, loc *time.Location, width, height int) Model {
	l := list.New(items(alerts, loc), list.NewDefaultDelegate(), width, height)
	l.Title = "Alerts"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Clear}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Clear}
	}

	return Model{
		list: l,
		keys: keys,
		loc:  loc,
	}
}

// items keeps only the newest alerts that fit the panel.
func items(alerts []models.AppAlert, loc *time.Location) []list.Item {
	if len(alerts) > constants.VisibleAlerts {
		alerts = alerts[:constants.VisibleAlerts]
	}
	out := make([]list.Item, len(alerts))
	for i, a := range alerts {
		out[i] = Item{Alert: a, loc: loc}
	}
	return out
}

func (m *Model) SetAlerts(alerts []models.AppAlert) {
	m.list.SetItems(items(alerts, m.loc))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Clear) {
		return m, func() tea.Msg { return ClearAlertsMsg{} }
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
