package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"docchat/config"
	"docchat/docapi"
)

const (
	FallbackAnswer   = "No answer received."
	GenericErrorText = "Something went wrong while contacting the assistant. Please try again."
	TimeoutErrorText = "The assistant did not respond in time. Please try again."
)

// Session is one open chat, scoped to exactly one document. It owns the
// message log and side panel context; both are discarded with the session.
type Session struct {
	ID       string
	Document docapi.Document
	Context  *SessionContext
	Store    *Store

	backend    Backend
	loader     *ContextLoader
	windowSize int

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewSession opens a chat for doc. windowSize <= 0 uses DefaultWindowSize.
func NewSession(backend Backend, doc docapi.Document, windowSize int) (*Session, error) {
	if backend == nil {
		return nil, fmt.Errorf("no backend configured")
	}
	if strings.TrimSpace(doc.DocumentID) == "" {
		return nil, fmt.Errorf("document has no id")
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:       uuid.New().String(),
		Document: doc,
		Context: &SessionContext{
			DocumentID:  doc.DocumentID,
			FileName:    doc.FileName,
			Summary:     SummaryLoading,
			Insights:    []string{},
			Suggestions: []string{},
		},
		Store:      NewStore(),
		backend:    backend,
		loader:     NewContextLoader(backend),
		windowSize: windowSize,
		ctx:        ctx,
		cancel:     cancel,
	}

	name := doc.FileName
	if name == "" {
		name = doc.DocumentID
	}
	s.appendTurn(KindSystem, fmt.Sprintf("Ask anything about %s.", name))

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] opened %s for document %s (%s)", s.ID, doc.DocumentID, doc.FileName)
	}
	return s, nil
}

// Start issues the summary and suggestion loads. They run independently
// and never block Submit.
func (s *Session) Start() tea.Cmd {
	return tea.Batch(s.loadSummary(), s.loadSuggestions())
}

func (s *Session) loadSummary() tea.Cmd {
	ctx, id, docID, loader := s.ctx, s.ID, s.Document.DocumentID, s.loader
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Loader] summary load panicked: %v", r)
				}
				msg = SummaryLoadedMsg{SessionID: id, Summary: SummaryResult{State: SummaryUnavailable, Insights: []string{}}}
			}
		}()
		return SummaryLoadedMsg{SessionID: id, Summary: loader.LoadSummary(ctx, docID)}
	}
}

func (s *Session) loadSuggestions() tea.Cmd {
	ctx, id, docID, loader := s.ctx, s.ID, s.Document.DocumentID, s.loader
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Loader] suggestions load panicked: %v", r)
				}
				msg = SuggestionsLoadedMsg{SessionID: id, Suggestions: []string{}}
			}
		}()
		return SuggestionsLoadedMsg{SessionID: id, Suggestions: loader.LoadSuggestions(ctx, docID)}
	}
}

// ApplySummary copies a summary result into the context. It reports false
// for results that belong to another session.
func (s *Session) ApplySummary(msg SummaryLoadedMsg) bool {
	if !s.owns(msg.SessionID) {
		return false
	}
	s.Context.Summary = msg.Summary.State
	s.Context.EnhancedSummary = msg.Summary.EnhancedSummary
	s.Context.OriginalSummary = msg.Summary.OriginalSummary
	s.Context.Insights = msg.Summary.Insights
	if s.Context.Insights == nil {
		s.Context.Insights = []string{}
	}
	return true
}

func (s *Session) ApplySuggestions(msg SuggestionsLoadedMsg) bool {
	if !s.owns(msg.SessionID) {
		return false
	}
	s.Context.Suggestions = msg.Suggestions
	if s.Context.Suggestions == nil {
		s.Context.Suggestions = []string{}
	}
	s.Context.SuggestionsLoaded = true
	return true
}

// Submit starts one chat round. It returns nil, and changes nothing, when the
// trimmed input is empty, a round is already in flight, or the session is
// closed. Otherwise the user turn is appended immediately and the returned
// command resolves to a ChatResultMsg.
func (s *Session) Submit(input string) tea.Cmd {
	question := strings.TrimSpace(input)
	if question == "" || s.closed {
		return nil
	}
	if !s.Store.tryAcquire() {
		return nil
	}

	// History is taken before the question is appended; the question travels
	// in its own field.
	history := ConversationWindow(s.Store.Messages(), s.windowSize)

	if _, err := s.Store.Append(KindUser, question); err != nil {
		s.Store.SetBusy(false)
		return nil
	}

	req := docapi.ChatRequest{
		DocumentID:          s.Document.DocumentID,
		Question:            question,
		ConversationHistory: history,
	}
	ctx, id, backend := s.ctx, s.ID, s.backend

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] %s: sending question (%d chars, %d history entries)", id, len(question), len(history))
	}

	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = ChatResultMsg{SessionID: id, Question: question, Err: fmt.Errorf("chat request panicked: %v", r)}
			}
		}()

		resp, err := backend.Chat(ctx, req)
		if err != nil {
			return ChatResultMsg{SessionID: id, Question: question, Err: err}
		}
		if resp == nil {
			return ChatResultMsg{SessionID: id, Question: question}
		}
		return ChatResultMsg{SessionID: id, Question: question, Answer: resp.Answer}
	}
}

// Resolve appends the assistant or error turn for a finished round and
// releases the busy flag. Results for other sessions are ignored.
func (s *Session) Resolve(msg ChatResultMsg) bool {
	if !s.owns(msg.SessionID) {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] dropping chat result for %s (current %s, closed=%v)", msg.SessionID, s.ID, s.closed)
		}
		return false
	}
	defer s.Store.SetBusy(false)

	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] %s: chat failed: %v", s.ID, msg.Err)
		}
		s.appendTurn(KindError, FailureText(msg.Err))
		return true
	}

	answer := msg.Answer
	if strings.TrimSpace(answer) == "" {
		answer = FallbackAnswer
	}
	s.appendTurn(KindAssistant, answer)
	return true
}

// appendTurn appends to the log. A rejected turn is logged; the round still
// completes so busy is released.
func (s *Session) appendTurn(kind Kind, content string) bool {
	if _, err := s.Store.Append(kind, content); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] %s: failed to append %s turn: %v", s.ID, kind, err)
		}
		return false
	}
	return true
}

// Close cancels outstanding requests. Results that arrive later are dropped.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] closed %s", s.ID)
	}
}

func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) owns(sessionID string) bool {
	return !s.closed && sessionID == s.ID
}

// FailureText picks the text shown for a failed round: the server's detail,
// then the error's own message, then a generic sentence.
func FailureText(err error) string {
	if err == nil {
		return GenericErrorText
	}
	if detail := docapi.ErrorDetail(err); detail != "" {
		return detail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutErrorText
	}
	if text := strings.TrimSpace(err.Error()); text != "" {
		return text
	}
	return GenericErrorText
}
