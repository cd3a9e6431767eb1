package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette and styles for the TUI.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color
	Muted   lipgloss.Color

	PanelStyle     lipgloss.Style
	TitleStyle     lipgloss.Style
	TabStyle       lipgloss.Style
	ActiveTabStyle lipgloss.Style
	StatusBarStyle lipgloss.Style

	SeverityCritical lipgloss.Style
	SeverityHigh     lipgloss.Style
	SeverityMedium   lipgloss.Style
	SeverityLow      lipgloss.Style
	SeverityUnknown  lipgloss.Style

	StatusAllocated lipgloss.Style
	StatusFreed     lipgloss.Style
}

// DefaultTheme returns a theme with default colors and styles.
func DefaultTheme() *Theme {
	theme := &Theme{
		Primary: lipgloss.Color("#7DD3FC"),
		Success: lipgloss.Color("#86EFAC"),
		Warning: lipgloss.Color("#FDE047"),
		Danger:  lipgloss.Color("#FCA5A5"),
		Muted:   lipgloss.Color("#64748B"),
	}

	theme.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Muted).
		Padding(0, 1)

	theme.TitleStyle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	theme.TabStyle = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 2)

	theme.ActiveTabStyle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Underline(true).
		Padding(0, 2)

	theme.StatusBarStyle = lipgloss.NewStyle().
		Foreground(theme.Muted)

	theme.SeverityCritical = lipgloss.NewStyle().Foreground(theme.Danger).Bold(true)
	theme.SeverityHigh = lipgloss.NewStyle().Foreground(theme.Danger)
	theme.SeverityMedium = lipgloss.NewStyle().Foreground(theme.Warning)
	theme.SeverityLow = lipgloss.NewStyle().Foreground(theme.Success)
	theme.SeverityUnknown = lipgloss.NewStyle().Foreground(theme.Muted)

	theme.StatusAllocated = lipgloss.NewStyle().Foreground(theme.Success)
	theme.StatusFreed = lipgloss.NewStyle().Foreground(theme.Muted)

	return theme
}

// ForSeverity returns the style matching a severity name.
func (t *Theme) ForSeverity(severity string) lipgloss.Style {
	switch severity {
	case "critical":
		return t.SeverityCritical
	case "high":
		return t.SeverityHigh
	case "medium":
		return t.SeverityMedium
	case "low":
		return t.SeverityLow
	default:
		return t.SeverityUnknown
	}
}
