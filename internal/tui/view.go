package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateDashboard:
		content = docStyle.Render(m.dashboardModel.View())
	case StateHistory:
		content = docStyle.Render(m.historyModel.View())
	case StateMonitoring:
		content = docStyle.Render(m.monitoringModel.View())
	case StateAlerts:
		content = docStyle.Render(m.alertsModel.View())
	case StateProfile:
		content = m.profileModel.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.status != "" {
		status = m.styles.Status.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		status,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateConfirmDelete {
		active = m.previous
	}
	tabs := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		tabs = append(tabs, m.tabStyle(active, SessionState(i)).Render(title))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) tabStyle(active, tab SessionState) lipgloss.Style {
	if tab == active {
		return m.styles.ActiveTab
	}
	return m.styles.InactiveTab
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.pending != nil {
		title = m.pending.title
	}
	return lipgloss.Place(m.width, max(m.height-chromeHeight, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(title),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
