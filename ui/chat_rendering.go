package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docchat/model"
)

func (c *ChatView) View() string {
	if c.width == 0 || c.height == 0 {
		return "Loading chat..."
	}

	header := c.renderHeader()
	separator := BorderStyle.Render(strings.Repeat("─", c.width))

	body := c.viewport.View()
	if w := c.sidebarWidth(); w > 0 {
		sidebar := SidebarStyle.
			Width(w - 2).
			Height(c.viewport.Height).
			MaxHeight(c.viewport.Height).
			Render(c.renderSidebar(w-3, c.viewport.Height))
		body = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(c.viewport.Width).Render(body), sidebar)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		separator,
		body,
		separator,
		c.textarea.View(),
		c.renderStatusBar(),
	)
}

func (c *ChatView) renderHeader() string {
	doc := c.session.Document
	name := doc.FileName
	if name == "" {
		name = doc.DocumentID
	}

	right := ""
	if c.session.Store.IsBusy() {
		right = fmt.Sprintf("%s waiting for the assistant", c.spinner.View())
	}

	left := TitleStyle.Render("docchat") + DimStyle.Render(" · ") + truncate(name, c.width/2)
	gap := c.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (c *ChatView) renderStatusBar() string {
	if c.status != "" {
		return SelectedStyle.Render(c.status)
	}

	kb := c.kb
	return StatusStyle.Render(FormatFooter(
		kb.DisplayActionKey("send"), "Send",
		kb.DisplayActionKey("newline"), "Newline",
		kb.DisplayActionKey("copy_message"), "Copy",
		kb.DisplayActionKey("toggle_sidebar"), "Panel",
		kb.DisplayActionKey("close_chat"), "Close",
		kb.DisplayActionKey("help"), "Help",
	))
}

// refreshTranscript re-renders the viewport content. gotoBottom is set on
// every log change so the newest turn is always visible.
func (c *ChatView) refreshTranscript(gotoBottom bool) {
	if c.viewport.Width == 0 {
		return
	}
	c.viewport.SetContent(c.renderTranscript())
	if gotoBottom {
		c.viewport.GotoBottom()
	}
}

func (c *ChatView) renderTranscript() string {
	msgs := c.session.Store.Messages()
	width := c.viewport.Width

	var content strings.Builder
	turns := 0

	for i, msg := range msgs {
		if msg.Kind == model.KindSystem {
			continue
		}
		turns++

		prefix := ""
		if i == c.selected {
			prefix = HighlightStyle.Render(">>> ")
		}
		timestamp := DimStyle.Render(msg.CreatedAt.Format("[15:04]"))

		switch msg.Kind {
		case model.KindUser:
			body := strings.Join(wrapText(msg.Content, width-2), "\n")
			content.WriteString(formatUserMessage(prefix, timestamp, UserStyle.Render("You"), body))

		case model.KindAssistant:
			body, ok := c.rendered[i]
			if !ok {
				body = strings.Join(wrapText(msg.Content, width), "\n")
			}
			content.WriteString(fmt.Sprintf("%s%s %s\n%s\n\n", prefix, timestamp, AssistantStyle.Render("Assistant"), body))

		case model.KindError:
			body := strings.Join(wrapText(msg.Content, width), "\n")
			content.WriteString(fmt.Sprintf("%s%s %s\n%s\n\n", prefix, timestamp, ErrorStyle.Render("Error"), ErrorStyle.UnsetBold().Render(body)))
		}
	}

	if c.session.Store.IsBusy() {
		content.WriteString(fmt.Sprintf("%s\n%s Thinking...\n", AssistantStyle.Render("Assistant"), c.spinner.View()))
	} else if turns == 0 {
		return DimStyle.Render("No messages yet. Ask a question about this document.")
	}

	return content.String()
}

func formatUserMessage(prefix, timestamp, role, content string) string {
	bar := UserStyle.Render(codeBar)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", prefix, bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")
	return result.String()
}

// renderSidebar draws the summary, insights and suggestions for the open
// document, clipped to height rows.
func (c *ChatView) renderSidebar(width, height int) string {
	ctx := c.session.Context
	var lines []string

	lines = append(lines, TitleStyle.Render(truncate(ctx.FileName, width)))
	if doc := c.session.Document; doc.Classification != nil && doc.Classification.Category != "" {
		lines = append(lines, DimStyle.Render(truncate(doc.Category(), width)))
	}
	lines = append(lines, "")

	lines = append(lines, SectionStyle.Render("Summary"))
	switch ctx.Summary {
	case model.SummaryLoading:
		lines = append(lines, c.spinner.View()+" "+DimStyle.Render("Loading summary..."))
	case model.SummaryReady:
		lines = append(lines, wrapText(ctx.EnhancedSummary, width)...)
	case model.SummaryUnavailable:
		lines = append(lines, DimStyle.Render("Summary unavailable."))
	}

	if len(ctx.Insights) > 0 {
		lines = append(lines, "", SectionStyle.Render("Insights"))
		for _, insight := range ctx.Insights {
			for j, line := range wrapText(insight, width-2) {
				if j == 0 {
					lines = append(lines, "• "+line)
				} else {
					lines = append(lines, "  "+line)
				}
			}
		}
	}

	lines = append(lines, "", SectionStyle.Render("Suggestions"))
	switch {
	case !ctx.SuggestionsLoaded:
		lines = append(lines, DimStyle.Render("Loading..."))
	case len(ctx.Suggestions) == 0:
		lines = append(lines, DimStyle.Render("No suggestions."))
	default:
		for n, suggestion := range ctx.Suggestions {
			if n >= 5 {
				break
			}
			hint := c.kb.DisplayActionKey(fmt.Sprintf("use_suggestion_%d", n+1))
			lines = append(lines, DimStyle.Render(hint))
			lines = append(lines, wrapText(suggestion, width)...)
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
