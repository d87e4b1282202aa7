package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smartgrow/internal/analytics"
	"github.com/julianstephens/smartgrow/internal/environment"
	"github.com/julianstephens/smartgrow/internal/tracker"
	"github.com/julianstephens/smartgrow/internal/tui/components/alerts"
	"github.com/julianstephens/smartgrow/internal/tui/components/dashboard"
	"github.com/julianstephens/smartgrow/internal/tui/components/history"
	"github.com/julianstephens/smartgrow/internal/tui/components/monitoring"
	"github.com/julianstephens/smartgrow/internal/tui/components/profile"
)

type Options struct {
	Tracker *tracker.Tracker
	// Samples delivers sampler steps. Nil leaves the readings static.
	Samples  *Samples
	Reading  environment.Reading
	Location *time.Location
}

// pendingDelete is the item waiting on the delete confirmation.
type pendingDelete struct {
	title string
	run   func() (bool, error)
}

type Model struct {
	tracker  *tracker.Tracker
	samples  *Samples
	loc      *time.Location
	reading  environment.Reading
	state    SessionState
	previous SessionState
	keys     KeyMap
	help     help.Model
	styles   Styles

	dashboardModel  dashboard.Model
	historyModel    history.Model
	monitoringModel monitoring.Model
	alertsModel     alerts.Model
	profileModel    profile.Model

	pending  *pendingDelete
	status   string
	quitting bool
	width    int
	height   int
}

func NewModel(opts Options) Model {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	store := opts.Tracker.Store()
	stats := store.GetStats()

	m := Model{
		tracker:         opts.Tracker,
		samples:         opts.Samples,
		loc:             loc,
		reading:         opts.Reading,
		state:           StateDashboard,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		styles:          NewStyles(stats.ThemeColor),
		dashboardModel:  dashboard.New(opts.Reading, stats.Language),
		historyModel:    history.New(store.GetScans(), loc, 0, 0),
		monitoringModel: monitoring.New(store.GetSessions(), loc, 0, 0),
		alertsModel:     alerts.New(store.GetAlerts(), loc, 0, 0),
		profileModel:    profile.New(stats, 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads every tab from the store.
func (m *Model) refresh() {
	store := m.tracker.Store()
	scans := store.GetScans()
	sessions := store.GetSessions()
	stats := store.GetStats()

	m.dashboardModel.Reading = m.reading
	m.dashboardModel.Language = stats.Language
	m.dashboardModel.SetSummary(analytics.Summarize(scans, sessions, stats, m.tracker.Now(), m.loc), stats)
	m.historyModel.SetScans(scans)
	m.monitoringModel.SetSessions(sessions)
	m.alertsModel.SetAlerts(store.GetAlerts())
	m.profileModel.SetStats(stats)
	m.styles = NewStyles(stats.ThemeColor)
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateProfile {
		actions = m.profileModel.Keys()
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.dashboardModel.Init()}
	if m.samples != nil {
		cmds = append(cmds, m.samples.wait())
	}
	return tea.Batch(cmds...)
}
