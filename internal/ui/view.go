package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mferr/scandesk/internal/status"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.styles.Panel.Render(m.viewport.View()),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	s := m.styles

	title := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Title.Render("Price Scanner System"),
		"  ",
		m.healthBadge(),
	)

	rows := []string{
		s.Label.Render("Server:") + m.serverLine(),
		s.Label.Render("Database:") + m.databaseLine(),
		s.Label.Render("Local:") + m.urlLine(true),
		s.Label.Render("Network:") + m.urlLine(false),
		s.Label.Render("Autostart:") + m.autostartLine(),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.Panel.Render(strings.Join(rows, "\n")),
	)
}

func (m Model) healthBadge() string {
	s := m.styles
	label := "● " + m.health.String()
	switch m.health {
	case status.Healthy:
		return s.Success.Render(label)
	case status.Degraded:
		return s.Warning.Render(label)
	default:
		return s.Danger.Render(label)
	}
}

func (m Model) serverLine() string {
	s := m.styles
	if m.serverStatus.Running {
		return s.Success.Render("Running")
	}
	if time.Since(m.startedAt) < startGrace {
		return s.Warning.Render("Starting...")
	}
	return s.Danger.Render("Stopped")
}

func (m Model) databaseLine() string {
	s := m.styles
	st := m.depStatus
	if st.LastChecked.IsZero() {
		return s.Warning.Render("Checking...")
	}
	checked := s.Muted.Render(fmt.Sprintf("  (checked %s)", st.LastChecked.Format("15:04:05")))
	if st.Connected {
		return s.Success.Render("Connected") + checked
	}
	return s.Danger.Render("Disconnected") + checked
}

func (m Model) urlLine(local bool) string {
	s := m.styles
	localURL, networkURL, ok := m.sup.URLs()
	if !ok {
		return s.Muted.Render("Not available")
	}
	url := localURL
	if !local {
		url = networkURL
	}
	if url == "" {
		return s.Muted.Render("Not available")
	}
	return s.URL.Render(url)
}

func (m Model) autostartLine() string {
	s := m.styles
	if m.autostartOn {
		return s.Value.Render("On") + s.Muted.Render("  (press s to disable)")
	}
	return s.Muted.Render("Off  (press s to enable)")
}

func (m Model) footerView() string {
	return m.styles.Footer.Render("r retry db • o open browser • s autostart • ↑/↓ scroll • q quit")
}

func (m *Model) applySize() {
	header := m.headerView()
	footer := m.footerView()

	// Two extra rows for the activity panel border.
	vh := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if vh < 3 {
		vh = 3
	}
	vw := m.width - 4
	if vw < 20 {
		vw = 20
	}
	m.viewport.Width = vw
	m.viewport.Height = vh
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return "No activity yet."
	}
	return strings.Join(lines, "\n")
}
