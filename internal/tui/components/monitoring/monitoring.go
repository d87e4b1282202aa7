package monitoring

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

type ArchiveSessionMsg struct {
	ID string
}

type DeleteSessionMsg struct {
	ID   string
	Name string
}

type Item struct {
	Session models.MonitoringSession
	loc     *time.Location
}

func (i Item) Title() string {
	return fmt.Sprintf("%s · day %d/%d", i.Session.PlantName, i.Session.CurrentDay, constants.MonitoringDays)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s · started %s", i.Session.Status, utils.FormatMillis(i.Session.StartDate, i.loc))
	if n := len(i.Session.DailyRecords); n > 0 {
		last := i.Session.DailyRecords[n-1]
		desc += fmt.Sprintf(" · %s", last.Status)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Session.PlantName }

type KeyMap struct {
	Archive key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	loc  *time.Location
}

func New(sessions []models.MonitoringSession, loc *time.Location, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Monitoring"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Archive, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Archive, keys.Delete}
	}

	m := Model{
		list: l,
		keys: keys,
		loc:  loc,
	}
	m.SetSessions(sessions)
	return m
}

// SetSessions lists every session that has not been archived.
func (m *Model) SetSessions(sessions []models.MonitoringSession) {
	items := make([]list.Item, 0, len(sessions))
	for _, s := range sessions {
		if s.Status == models.SessionArchived {
			continue
		}
		items = append(items, Item{Session: s, loc: m.loc})
	}
	m.list.SetItems(items)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether keystrokes belong to the filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Archive):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return ArchiveSessionMsg{ID: item.Session.ID}
				}
			}
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return DeleteSessionMsg{ID: item.Session.ID, Name: item.Session.PlantName}
				}
			}
		}
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
