package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// User turn label
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)
	// NO .Background() = transparent!

	// Assistant turn label
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// Error turn label and body
	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	BorderStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	SidebarStyle = lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(dimColor).
			PaddingLeft(1)
)

// FormatFooter formats a footer string with alternating keys and descriptions.
// Keys remain default color, descriptions are rendered in accent blue+bold.
// Usage: FormatFooter("j/k", "Navigate", "Enter", "Open", "q", "Quit")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i < len(parts); i += 2 {
		if i+1 < len(parts) {
			result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
		}
	}
	return strings.Join(result, "  ")
}
