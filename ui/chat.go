package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"docchat/config"
	"docchat/model"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

const minTranscriptWidth = 40

// ChatView is the chat screen for one session: transcript, side panel and
// input box. It is created when a document is opened and closed on every way
// out of the chat.
type ChatView struct {
	session    *model.Session
	cfg        *config.Config
	kb         *config.KeyBindingsConfig
	unregister func()
	closed     bool

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width       int
	height      int
	inputHeight int
	showSidebar bool

	renderedVersion uint64
	renderWidth     int
	rendered        map[int]string
	selected        int

	status    string
	statusSeq int
}

// NewChatView opens the chat screen and registers its dismissal key.
func NewChatView(session *model.Session, cfg *config.Config, listeners *KeyListeners) *ChatView {
	kb := cfg.Keybindings
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	ta := textarea.New()
	ta.Placeholder = placeholderFor(session)
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys(kb.GetActionKey("newline")))
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	c := &ChatView{
		session:     session,
		cfg:         cfg,
		kb:          kb,
		viewport:    viewport.New(0, 0),
		textarea:    ta,
		spinner:     sp,
		inputHeight: 1,
		showSidebar: true,
		rendered:    map[int]string{},
		selected:    -1,
	}

	sessionID := session.ID
	c.unregister = listeners.Register(kb.GetActionKey("close_chat"), func() tea.Cmd {
		return func() tea.Msg { return closeChatMsg{SessionID: sessionID} }
	})

	if config.DebugLog != nil {
		config.DebugLog.Printf("[ChatView] opened for %s (listeners: %d)", session.Document.FileName, listeners.Len())
	}
	return c
}

// placeholderFor uses the session's greeting as the input placeholder.
func placeholderFor(session *model.Session) string {
	for _, msg := range session.Store.Messages() {
		if msg.Kind == model.KindSystem && msg.Content != "" {
			return msg.Content
		}
	}
	return "Ask a question about this document..."
}

func (c *ChatView) Init() tea.Cmd {
	return tea.Batch(c.session.Start(), textarea.Blink, c.spinner.Tick)
}

// Close unregisters the dismissal key and closes the session. Safe to call
// more than once.
func (c *ChatView) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.unregister()
	c.session.Close()
}

func (c *ChatView) SessionID() string {
	return c.session.ID
}

func (c *ChatView) Session() *model.Session {
	return c.session
}

// InputHeight is the current number of rows of the input box.
func (c *ChatView) InputHeight() int {
	return c.inputHeight
}

func (c *ChatView) SetSize(width, height int) tea.Cmd {
	c.width = width
	c.height = height
	cmd := c.layout()
	c.refreshTranscript(true)
	return cmd
}

func (c *ChatView) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !c.needsSpinner() {
			return nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		c.refreshTranscript(c.viewport.AtBottom())
		return cmd

	case model.SummaryLoadedMsg:
		c.session.ApplySummary(msg)

	case model.SuggestionsLoadedMsg:
		c.session.ApplySuggestions(msg)

	case model.ChatResultMsg:
		if c.session.Resolve(msg) {
			c.textarea.Focus()
			cmds = append(cmds, textarea.Blink)
		}

	case markdownRenderedMsg:
		if msg.SessionID == c.session.ID && msg.Width == c.renderWidth {
			c.rendered[msg.Index] = msg.Rendered
			c.refreshTranscript(c.viewport.AtBottom())
		}

	case statusClearMsg:
		if msg.seq == c.statusSeq {
			c.status = ""
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, c.handleKey(msg))

	default:
		// cursor blink and other textarea internals
		var cmd tea.Cmd
		c.textarea, cmd = c.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, c.sync())
	return tea.Batch(cmds...)
}

func (c *ChatView) handleKey(msg tea.KeyMsg) tea.Cmd {
	kb := c.kb
	pressed := msg.String()

	switch {
	case kb.Matches("send", pressed):
		return c.submit()

	case kb.Matches("copy_message", pressed):
		return c.copySelected()

	case kb.Matches("select_prev", pressed):
		c.moveSelection(-1)
		return nil

	case kb.Matches("select_next", pressed):
		c.moveSelection(1)
		return nil

	case kb.Matches("toggle_sidebar", pressed):
		c.showSidebar = !c.showSidebar
		cmd := c.layout()
		c.refreshTranscript(false)
		return cmd

	case kb.Matches("half_page_down", pressed):
		c.viewport.HalfViewDown()
		return nil

	case kb.Matches("half_page_up", pressed):
		c.viewport.HalfViewUp()
		return nil

	case kb.Matches("page_down", pressed):
		c.viewport.ViewDown()
		return nil

	case kb.Matches("page_up", pressed):
		c.viewport.ViewUp()
		return nil

	case kb.Matches("scroll_to_top", pressed):
		c.viewport.GotoTop()
		return nil

	case kb.Matches("scroll_to_bottom", pressed):
		c.viewport.GotoBottom()
		return nil
	}

	for n := 1; n <= 5; n++ {
		if kb.Matches(fmt.Sprintf("use_suggestion_%d", n), pressed) {
			return c.useSuggestion(n)
		}
	}

	// Input is disabled while a round is in flight.
	if c.session.Store.IsBusy() {
		return nil
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return tea.Batch(cmd, c.resizeInput())
}

// submit hands the input to the session. The input is only cleared when the
// session accepted it.
func (c *ChatView) submit() tea.Cmd {
	cmd := c.session.Submit(c.textarea.Value())
	if cmd == nil {
		return nil
	}

	c.textarea.Reset()
	c.textarea.Blur()
	c.selected = -1
	return tea.Batch(cmd, c.resizeInput(), c.spinner.Tick)
}

func (c *ChatView) useSuggestion(n int) tea.Cmd {
	suggestion := c.session.Context.Suggestion(n)
	if suggestion == "" || c.session.Store.IsBusy() {
		return nil
	}
	c.textarea.SetValue(suggestion)
	c.textarea.CursorEnd()
	return c.resizeInput()
}

// resizeInput grows the input box with its content up to MaxInputHeight
// rows; beyond that the textarea scrolls internally.
func (c *ChatView) resizeInput() tea.Cmd {
	maxHeight := c.cfg.MaxInputHeight
	if maxHeight < 1 {
		maxHeight = config.DefaultMaxInputHeight
	}

	height := inputRows(c.textarea.Value(), c.textarea.Width())
	if height < 1 {
		height = 1
	}
	if height > maxHeight {
		height = maxHeight
	}
	if height == c.inputHeight {
		return nil
	}

	c.inputHeight = height
	c.textarea.SetHeight(height)
	return c.layout()
}

// layout sizes the transcript, side panel and input. A width change
// invalidates rendered markdown, so it returns the re-render commands.
func (c *ChatView) layout() tea.Cmd {
	if c.width == 0 || c.height == 0 {
		return nil
	}

	transcriptWidth := c.width - c.sidebarWidth()
	viewportHeight := c.height - 4 - c.inputHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	c.viewport.Width = transcriptWidth
	c.viewport.Height = viewportHeight
	c.textarea.SetWidth(c.width)

	if transcriptWidth == c.renderWidth {
		return nil
	}
	c.renderWidth = transcriptWidth
	c.rendered = map[int]string{}
	return c.renderAll()
}

func (c *ChatView) sidebarWidth() int {
	if !c.showSidebar || c.width < c.cfg.SidebarWidth+minTranscriptWidth {
		return 0
	}
	return c.cfg.SidebarWidth
}

// sync scrolls to the bottom whenever the log changed since the last render
// and starts markdown rendering for new assistant turns.
func (c *ChatView) sync() tea.Cmd {
	version := c.session.Store.Version()
	if version == c.renderedVersion {
		return nil
	}
	c.renderedVersion = version

	cmd := c.renderAll()
	c.refreshTranscript(true)
	return cmd
}

func (c *ChatView) renderAll() tea.Cmd {
	if c.renderWidth == 0 {
		return nil
	}
	var cmds []tea.Cmd
	for i, msg := range c.session.Store.Messages() {
		if msg.Kind != model.KindAssistant {
			continue
		}
		if _, ok := c.rendered[i]; ok {
			continue
		}
		cmds = append(cmds, c.renderMarkdownAsync(i, msg.Content))
	}
	return tea.Batch(cmds...)
}

func (c *ChatView) renderMarkdownAsync(index int, content string) tea.Cmd {
	sessionID, width := c.session.ID, c.renderWidth
	return func() tea.Msg {
		return markdownRenderedMsg{
			SessionID: sessionID,
			Index:     index,
			Width:     width,
			Rendered:  renderMarkdown(content, width),
		}
	}
}

func (c *ChatView) needsSpinner() bool {
	return c.session.Store.IsBusy() || c.session.Context.Summary == model.SummaryLoading
}

// moveSelection walks the highlight over user and assistant turns. Moving
// past the newest turn clears the highlight.
func (c *ChatView) moveSelection(delta int) {
	var selectable []int
	for i, msg := range c.session.Store.Messages() {
		if msg.IsConversational() {
			selectable = append(selectable, i)
		}
	}
	if len(selectable) == 0 {
		c.selected = -1
		return
	}

	pos := len(selectable)
	for i, idx := range selectable {
		if idx == c.selected {
			pos = i
			break
		}
	}

	pos += delta
	switch {
	case pos < 0:
		pos = 0
	case pos >= len(selectable):
		c.selected = -1
		c.refreshTranscript(true)
		return
	}
	c.selected = selectable[pos]
	c.refreshTranscript(false)
}

// copySelected copies the highlighted turn, or the latest answer. Clipboard
// failures are logged only.
func (c *ChatView) copySelected() tea.Cmd {
	msgs := c.session.Store.Messages()

	content := ""
	if c.selected >= 0 && c.selected < len(msgs) {
		content = msgs[c.selected].Content
	} else {
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Kind == model.KindAssistant {
				content = msgs[i].Content
				break
			}
		}
	}
	if content == "" {
		return nil
	}

	if err := clipboardWrite(content); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[ChatView] clipboard write failed: %v", err)
		}
		return nil
	}
	return c.flash("Copied to clipboard")
}

func (c *ChatView) flash(status string) tea.Cmd {
	c.status = status
	c.statusSeq++
	seq := c.statusSeq
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}
