package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelpModal(width, height int) string {
	kb := a.keybindings()

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("docchat - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		fmt.Sprintf("• %-13s Send question", kb.DisplayActionKey("send")),
		fmt.Sprintf("• %-13s Insert newline", kb.DisplayActionKey("newline")),
		fmt.Sprintf("• %-13s Select previous turn", kb.DisplayActionKey("select_prev")),
		fmt.Sprintf("• %-13s Select next turn", kb.DisplayActionKey("select_next")),
		fmt.Sprintf("• %-13s Copy selected/last answer", kb.DisplayActionKey("copy_message")),
		fmt.Sprintf("• %-13s Use suggestion 1-5", kb.DisplayActionKey("use_suggestion_1")+"..5"),
		fmt.Sprintf("• %-13s Toggle side panel", kb.DisplayActionKey("toggle_sidebar")),
		fmt.Sprintf("• %-13s Close chat", kb.DisplayActionKey("close_chat")),
	)

	navigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Transcript"),
		fmt.Sprintf("• %-13s Half page down", kb.DisplayActionKey("half_page_down")),
		fmt.Sprintf("• %-13s Half page up", kb.DisplayActionKey("half_page_up")),
		fmt.Sprintf("• %-13s Full page down", kb.DisplayActionKey("page_down")),
		fmt.Sprintf("• %-13s Full page up", kb.DisplayActionKey("page_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.DisplayActionKey("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.DisplayActionKey("scroll_to_bottom")),
	)

	documents := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Documents"),
		fmt.Sprintf("• %-13s Move down / up", kb.DisplayActionKey("picker_down")+"/"+kb.DisplayActionKey("picker_up")),
		fmt.Sprintf("• %-13s Filter", kb.DisplayActionKey("picker_filter")),
		fmt.Sprintf("• %-13s Refresh", kb.DisplayActionKey("picker_refresh")),
		fmt.Sprintf("• %-13s Open chat", kb.DisplayActionKey("picker_open")),
	)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		fmt.Sprintf("• %-13s Toggle this help", kb.DisplayActionKey("help")),
		fmt.Sprintf("• %-13s Quit", kb.DisplayActionKey("quit")),
	)

	columnStyle := lipgloss.NewStyle().Width(44).PaddingLeft(4)

	twoColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, chatActions, "", global)),
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, navigation, "", documents)),
	)

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Render(fmt.Sprintf("Press %s or Esc to close this help", kb.DisplayActionKey("help")))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		twoColumns,
		"",
		footer,
	)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1, 2)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox.Render(content),
	)
}
