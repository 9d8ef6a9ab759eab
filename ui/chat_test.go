package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/docapi"
	"docchat/model"
	"docchat/model/testutil"
)

func newTestChat(t *testing.T, backend *testutil.MockBackend) (*ChatView, *KeyListeners) {
	t.Helper()
	session, err := model.NewSession(backend, testutil.TestDocument(), 10)
	require.NoError(t, err)

	listeners := NewKeyListeners()
	chat := NewChatView(session, testConfig(), listeners)
	chat.SetSize(120, 40)
	t.Cleanup(chat.Close)
	return chat, listeners
}

func typeText(chat *ChatView, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			chat.Update(keyAltEnter)
		}
		if line != "" {
			chat.Update(keyRunes(line))
		}
	}
}

func TestChatView_InputGrowsAndResets(t *testing.T) {
	chat, _ := newTestChat(t, testutil.NewMockBackend())
	assert.Equal(t, 1, chat.InputHeight())

	typeText(chat, "one\ntwo\nthree")
	assert.Equal(t, 3, chat.InputHeight())

	typeText(chat, "\n4\n5\n6\n7\n8\n9")
	assert.Equal(t, testConfig().MaxInputHeight, chat.InputHeight())

	cmd := chat.Update(keyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, chat.InputHeight())
	assert.Equal(t, "", chat.textarea.Value())
}

func TestChatView_InputGrowsWithWordWrap(t *testing.T) {
	chat, _ := newTestChat(t, testutil.NewMockBackend())
	chat.SetSize(24, 40)
	require.Equal(t, 22, chat.textarea.Width())

	text := "aaaaaaaaaaaa bbbbbbbbbbbb cccccccccccc"
	typeText(chat, text)

	assert.Equal(t, text, chat.textarea.Value())
	assert.Equal(t, 3, chat.InputHeight(), "each word wraps onto its own row")
}

func TestChatView_SubmitAndResolve(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.ChatFunc = func(ctx context.Context, req docapi.ChatRequest) (*docapi.ChatResponse, error) {
		return &docapi.ChatResponse{Answer: "42"}, nil
	}
	chat, _ := newTestChat(t, backend)

	typeText(chat, "What is it?")
	cmd := chat.Update(keyEnter)
	require.True(t, chat.Session().Store.IsBusy())

	// Enter while busy does nothing.
	typeText(chat, "ignored")
	assert.Nil(t, chat.session.Submit("again"))

	result, ok := findMsg[model.ChatResultMsg](drain(cmd))
	require.True(t, ok)
	chat.Update(result)

	assert.False(t, chat.Session().Store.IsBusy())
	var kinds []model.Kind
	var contents []string
	for _, msg := range chat.Session().Store.Messages() {
		if msg.Kind != model.KindSystem {
			kinds = append(kinds, msg.Kind)
			contents = append(contents, msg.Content)
		}
	}
	assert.Equal(t, []model.Kind{model.KindUser, model.KindAssistant}, kinds)
	assert.Equal(t, []string{"What is it?", "42"}, contents)
	assert.Contains(t, chat.View(), "What is it?")
}

func TestChatView_WhitespaceKeepsInput(t *testing.T) {
	chat, _ := newTestChat(t, testutil.NewMockBackend())
	before := chat.Session().Store.Len()

	typeText(chat, "   ")
	chat.Update(keyEnter)

	assert.Equal(t, before, chat.Session().Store.Len())
	assert.False(t, chat.Session().Store.IsBusy())
}

func TestChatView_CopySwallowsClipboardErrors(t *testing.T) {
	original := clipboardWrite
	t.Cleanup(func() { clipboardWrite = original })

	backend := testutil.NewMockBackend()
	chat, _ := newTestChat(t, backend)

	typeText(chat, "hello")
	result, ok := findMsg[model.ChatResultMsg](drain(chat.Update(keyEnter)))
	require.True(t, ok)
	chat.Update(result)

	var copied string
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	chat.Update(keyAlt('y'))
	assert.Equal(t, "Mock answer to: hello", copied)
	assert.Equal(t, "Copied to clipboard", chat.status)

	// Select the user turn, then copy it.
	chat.Update(tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	chat.Update(tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	chat.Update(keyAlt('y'))
	assert.Equal(t, "hello", copied)

	chat.status = ""
	clipboardWrite = func(string) error { return errors.New("no display") }
	assert.NotPanics(t, func() { chat.Update(keyAlt('y')) })
	assert.Equal(t, "", chat.status)
}

func TestChatView_SuggestionFillsInput(t *testing.T) {
	chat, _ := newTestChat(t, testutil.NewMockBackend())

	chat.Update(model.SuggestionsLoadedMsg{
		SessionID:   chat.SessionID(),
		Suggestions: []string{"First?", "Second?"},
	})
	chat.Update(keyAlt('2'))

	assert.Equal(t, "Second?", chat.textarea.Value())
}

func TestChatView_SidebarStates(t *testing.T) {
	chat, _ := newTestChat(t, testutil.NewMockBackend())
	assert.Contains(t, chat.View(), "Loading summary")

	chat.Update(model.SummaryLoadedMsg{
		SessionID: chat.SessionID(),
		Summary:   model.SummaryResult{State: model.SummaryUnavailable, Insights: []string{}},
	})
	assert.Contains(t, chat.View(), "Summary unavailable.")

	// Results for another session are ignored.
	chat.Update(model.SummaryLoadedMsg{
		SessionID: "stale",
		Summary:   model.SummaryResult{State: model.SummaryReady, EnhancedSummary: "stale summary"},
	})
	assert.NotContains(t, chat.View(), "stale summary")
}

func TestChatView_CloseUnregistersListener(t *testing.T) {
	chat, listeners := newTestChat(t, testutil.NewMockBackend())
	assert.Equal(t, 1, listeners.Len())

	chat.Close()
	chat.Close()
	assert.Equal(t, 0, listeners.Len())
	assert.True(t, chat.Session().Closed())
}
