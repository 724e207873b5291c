package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the palette for the shell.
type Theme struct {
	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Border  string
}

// DefaultTheme is the only palette for now.
func DefaultTheme() Theme {
	return Theme{
		Text:    "#f8f8f2",
		Muted:   "#6272a4",
		Accent:  "#8be9fd",
		Success: "#50fa7b",
		Warning: "#f1fa8c",
		Danger:  "#ff5555",
		Border:  "#44475a",
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	URL     lipgloss.Style
	Panel   lipgloss.Style
	Footer  lipgloss.Style
}

// Styles builds the style set for the theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Width(11),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		URL: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Underline(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
	}
}
