package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"docchat/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DataDirectory:  "/tmp/docchat-test",
		ServerURL:      config.DefaultServerURL,
		RequestTimeout: config.DefaultRequestTimeout,
		HistoryWindow:  config.DefaultHistoryWindow,
		MaxInputHeight: config.DefaultMaxInputHeight,
		SidebarWidth:   config.DefaultSidebarWidth,
		Keybindings:    config.DefaultKeybindings(),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyAlt(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyAltEnter = tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
)

// drain runs cmd and every command nested in batches, returning the
// resulting messages. Tick commands sleep for their interval.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if m, ok := msg.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}
