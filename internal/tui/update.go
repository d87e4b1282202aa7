package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/tui/components/alerts"
	"github.com/julianstephens/smartgrow/internal/tui/components/dashboard"
	"github.com/julianstephens/smartgrow/internal/tui/components/history"
	"github.com/julianstephens/smartgrow/internal/tui/components/monitoring"
	"github.com/julianstephens/smartgrow/internal/tui/components/profile"
)

// chromeHeight is the space taken by the tab bar, status line and help.
const chromeHeight = 5

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(msg.Height-chromeHeight, 0)
		m.dashboardModel.SetSize(msg.Width, h)
		m.historyModel.SetSize(msg.Width-4, h)
		m.monitoringModel.SetSize(msg.Width-4, h)
		m.alertsModel.SetSize(msg.Width-4, h)
		m.profileModel.SetSize(msg.Width, h)
		m.help.Width = msg.Width
		return m, nil

	case SampleMsg:
		m.reading = msg.Cur
		if _, err := m.tracker.EvaluateEnvironment(msg.Prev, msg.Cur); err != nil {
			m.fail("evaluate environment", err)
		}
		m.refresh()
		var cmd tea.Cmd
		if m.samples != nil {
			cmd = m.samples.wait()
		}
		return m, cmd

	case dashboard.TipMsg:
		var cmd tea.Cmd
		m.dashboardModel, cmd = m.dashboardModel.Update(msg)
		return m, cmd

	case history.ToggleArchiveMsg:
		var err error
		if msg.Archived {
			_, err = m.tracker.RestoreScan(msg.ID)
		} else {
			_, err = m.tracker.ArchiveScan(msg.ID)
		}
		if err != nil {
			m.fail("toggle archive", err)
		}
		m.refresh()
		return m, nil

	case history.DeleteScanMsg:
		id := msg.ID
		m.confirm(fmt.Sprintf("Delete %q from history?", msg.Name), func() (bool, error) {
			return m.tracker.DeleteScan(id)
		})
		return m, nil

	case monitoring.ArchiveSessionMsg:
		if _, err := m.tracker.ArchiveSession(msg.ID); err != nil {
			m.fail("archive session", err)
		}
		m.refresh()
		return m, nil

	case monitoring.DeleteSessionMsg:
		id := msg.ID
		m.confirm(fmt.Sprintf("Delete %q monitoring session?", msg.Name), func() (bool, error) {
			return m.tracker.DeleteSession(id)
		})
		return m, nil

	case alerts.ClearAlertsMsg:
		if err := m.tracker.ClearAlerts(); err != nil {
			m.fail("clear alerts", err)
		}
		m.refresh()
		return m, nil

	case profile.ToggleLanguageMsg:
		if _, err := m.tracker.SetLanguage(msg.Language); err != nil {
			m.fail("set language", err)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if m.state == StateConfirmDelete {
			return m.updateConfirmDelete(msg)
		}
		if !m.filtering() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case key.Matches(msg, m.keys.Tab):
				m.state = (m.state + 1) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.ShiftTab):
				m.state = (m.state + tabCount - 1) % tabCount
				return m, nil
			}
		}
	}

	return m.updateActive(msg)
}

func (m Model) filtering() bool {
	switch m.state {
	case StateHistory:
		return m.historyModel.Filtering()
	case StateMonitoring:
		return m.monitoringModel.Filtering()
	}
	return false
}

// updateActive forwards a message to the component on screen.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateDashboard:
		m.dashboardModel, cmd = m.dashboardModel.Update(msg)
	case StateHistory:
		m.historyModel, cmd = m.historyModel.Update(msg)
	case StateMonitoring:
		m.monitoringModel, cmd = m.monitoringModel.Update(msg)
	case StateAlerts:
		m.alertsModel, cmd = m.alertsModel.Update(msg)
	case StateProfile:
		m.profileModel, cmd = m.profileModel.Update(msg)
	}
	return m, cmd
}

func (m *Model) confirm(title string, run func() (bool, error)) {
	m.pending = &pendingDelete{title: title, run: run}
	m.previous = m.state
	m.state = StateConfirmDelete
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.pending != nil {
			if _, err := m.pending.run(); err != nil {
				m.fail("delete", err)
			}
		}
	case "n", "N", "esc", "q":
	default:
		return m, nil
	}
	m.pending = nil
	m.state = m.previous
	m.refresh()
	return m, nil
}

func (m *Model) fail(action string, err error) {
	logger.Warn("dashboard action failed", "action", action, "error", err)
	m.status = fmt.Sprintf("Failed to %s: %v", action, err)
}
