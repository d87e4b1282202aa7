package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/utils"
)

type ToggleArchiveMsg struct {
	ID       string
	Archived bool
}

type DeleteScanMsg struct {
	ID   string
	Name string
}

type Item struct {
	Scan models.DiagnosisRecord
	loc  *time.Location
}

func (i Item) Title() string {
	title := fmt.Sprintf("%s · %s", i.Scan.PlantName, i.Scan.Diagnosis)
	if i.Scan.Archived {
		title = "[ARCHIVED] " + title
	}
	return title
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %s · %.0f%% confidence",
		utils.FormatMillis(i.Scan.Timestamp, i.loc), i.Scan.Severity, i.Scan.Confidence*100)
}

func (i Item) FilterValue() string { return i.Scan.PlantName + " " + i.Scan.Diagnosis }

type KeyMap struct {
	Archive      key.Binding
	Delete       key.Binding
	ShowArchived key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive/restore"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ShowArchived: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle archived"),
		),
	}
}

type Model struct {
	list         list.Model
	keys         KeyMap
	loc          *time.Location
	scans        []models.DiagnosisRecord
	showArchived bool
}

func New(scans []models.DiagnosisRecord, loc *time.Location, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "History"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Archive, keys.Delete, keys.ShowArchived}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Archive, keys.Delete, keys.ShowArchived}
	}

	m := Model{
		list: l,
		keys: keys,
		loc:  loc,
	}
	m.SetScans(scans)
	return m
}

// SetScans shows either the active history or the archive.
func (m *Model) SetScans(scans []models.DiagnosisRecord) {
	m.scans = scans
	items := make([]list.Item, 0, len(scans))
	for _, s := range scans {
		if s.Archived != m.showArchived {
			continue
		}
		items = append(items, Item{Scan: s, loc: m.loc})
	}
	m.list.SetItems(items)
}

func (m Model) ShowingArchived() bool {
	return m.showArchived
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
		case key.Matches(msg, m.keys.ShowArchived):
			m.showArchived = !m.showArchived
			m.SetScans(m.scans)
			return m, nil
		case key.Matches(msg, m.keys.Archive):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return ToggleArchiveMsg{ID: item.Scan.ID, Archived: item.Scan.Archived}
				}
			}
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg {
					return DeleteScanMsg{ID: item.Scan.ID, Name: item.Scan.PlantName}
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
