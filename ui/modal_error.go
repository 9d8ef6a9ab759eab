package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrorModal is a standalone modal for errors that stop the main UI: startup
// failures and the Boundary fallback. Borderless three-section layout.
type ErrorModal struct {
	title   string
	message string
	footer  string
	width   int
	height  int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
		footer:  "Press Enter to quit",
	}
}

// WithFooter replaces the footer hint.
func (m ErrorModal) WithFooter(footer string) ErrorModal {
	m.footer = footer
	return m
}

func (m ErrorModal) WithSize(width, height int) ErrorModal {
	m.width = width
	m.height = height
	return m
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return m.title + "\n\n" + m.message + "\n\n" + m.footer
	}

	modalWidth := 60
	if m.width < modalWidth+10 {
		modalWidth = m.width - 10
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(dangerColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(m.title)

	var messageLines []string
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))

	messageStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Center)

	for _, line := range strings.Split(m.message, "\n") {
		messageLines = append(messageLines, messageStyle.Render(line))
	}

	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(strings.Join(messageLines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(m.footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
