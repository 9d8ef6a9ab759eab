package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"docchat/config"
	"docchat/docapi"
	"docchat/model"
)

// Backend is everything the TUI needs from the server.
type Backend interface {
	model.Backend
	DocumentSource
}

// App is the root model. It shows the document picker, or the chat for the
// open document, and owns the app-wide key listener registry.
type App struct {
	cfg       *config.Config
	backend   Backend
	listeners *KeyListeners

	picker *Picker
	chat   *ChatView

	initial  *docapi.Document
	showHelp bool

	width  int
	height int
}

// NewApp builds the root model. cache may be nil. When initial is set the
// chat for that document opens right away.
func NewApp(cfg *config.Config, backend Backend, cache DocumentCache, initial *docapi.Document) *App {
	return &App{
		cfg:       cfg,
		backend:   backend,
		listeners: NewKeyListeners(),
		picker:    NewPicker(backend, cache, cfg.Keybindings),
		initial:   initial,
	}
}

func (a *App) Listeners() *KeyListeners {
	return a.listeners
}

// Chat returns the open chat screen, or nil.
func (a *App) Chat() *ChatView {
	return a.chat
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.picker.Init()}
	if a.initial != nil {
		doc := *a.initial
		cmds = append(cmds, func() tea.Msg { return openChatMsg{Document: doc} })
	}
	return tea.Batch(cmds...)
}

// Close releases the open chat, if any.
func (a *App) Close() {
	a.closeChat()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.picker.SetSize(msg.Width, msg.Height)
		if a.chat != nil {
			return a, a.chat.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case openChatMsg:
		return a, a.openChat(msg.Document)

	case closeChatMsg:
		if a.chat != nil && a.chat.SessionID() == msg.SessionID {
			a.closeChat()
		}
		return a, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		cmds = append(cmds, a.picker.Update(msg))
		if a.chat != nil {
			cmds = append(cmds, a.chat.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case documentsLoadedMsg, statsLoadedMsg:
		return a, a.picker.Update(msg)

	case model.SummaryLoadedMsg, model.SuggestionsLoadedMsg, model.ChatResultMsg, markdownRenderedMsg:
		if a.chat == nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[App] dropping %T: no chat open", msg)
			}
			return a, nil
		}
		return a, a.chat.Update(msg)
	}

	if a.chat != nil {
		return a, a.chat.Update(msg)
	}
	return a, a.picker.Update(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	kb := a.keybindings()
	pressed := msg.String()

	if pressed == "ctrl+c" || kb.Matches("quit", pressed) {
		return a.quit()
	}

	if a.showHelp {
		if kb.Matches("help", pressed) || pressed == "esc" || pressed == "q" {
			a.showHelp = false
		}
		return nil
	}

	if cmd, handled := a.listeners.Dispatch(msg); handled {
		return cmd
	}

	if kb.Matches("help", pressed) {
		a.showHelp = true
		return nil
	}

	if a.chat != nil {
		return a.chat.Update(msg)
	}

	if pressed == "q" && !a.picker.Filtering() {
		return a.quit()
	}
	return a.picker.Update(msg)
}

func (a *App) openChat(doc docapi.Document) tea.Cmd {
	// Opening another document replaces the current session.
	a.closeChat()

	session, err := model.NewSession(a.backend, doc, a.cfg.HistoryWindow)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[App] cannot open chat: %v", err)
		}
		a.picker.SetNotice("Cannot open chat: " + err.Error())
		return nil
	}

	a.chat = NewChatView(session, a.cfg, a.listeners)
	return tea.Batch(a.chat.Init(), a.chat.SetSize(a.width, a.height))
}

func (a *App) closeChat() {
	if a.chat == nil {
		return
	}
	a.chat.Close()
	a.chat = nil
}

func (a *App) quit() tea.Cmd {
	a.closeChat()
	return tea.Quit
}

func (a *App) keybindings() *config.KeyBindingsConfig {
	if a.cfg.Keybindings == nil {
		return config.DefaultKeybindings()
	}
	return a.cfg.Keybindings
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading docchat..."
	}
	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.chat != nil {
		return a.chat.View()
	}
	return a.picker.View()
}
