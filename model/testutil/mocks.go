package testutil

import (
	"context"
	"sync"

	"docchat/docapi"
)

// MockBackend implements model.Backend for testing. Each Func field can be
// replaced; calls are recorded.
type MockBackend struct {
	EnhancedSummaryFunc func(ctx context.Context, documentID string) (*docapi.EnhancedSummary, error)
	BasicSummaryFunc    func(ctx context.Context, documentID string) (*docapi.BasicSummary, error)
	SuggestionsFunc     func(ctx context.Context, documentID string) (*docapi.Suggestions, error)
	ChatFunc            func(ctx context.Context, req docapi.ChatRequest) (*docapi.ChatResponse, error)
	ListDocumentsFunc   func(ctx context.Context) (*docapi.DocumentList, error)
	StatsFunc           func(ctx context.Context) (*docapi.Stats, error)

	mu       sync.Mutex
	requests []docapi.ChatRequest
	calls    map[string]int
}

// NewMockBackend creates a backend where every endpoint succeeds.
func NewMockBackend() *MockBackend {
	mock := &MockBackend{calls: map[string]int{}}
	mock.EnhancedSummaryFunc = mock.defaultEnhancedSummary
	mock.BasicSummaryFunc = mock.defaultBasicSummary
	mock.SuggestionsFunc = mock.defaultSuggestions
	mock.ChatFunc = mock.defaultChat
	mock.ListDocumentsFunc = mock.defaultListDocuments
	mock.StatsFunc = mock.defaultStats
	return mock
}

func (m *MockBackend) defaultEnhancedSummary(ctx context.Context, documentID string) (*docapi.EnhancedSummary, error) {
	return &docapi.EnhancedSummary{
		DocumentID:      documentID,
		OriginalSummary: "Mock original summary",
		EnhancedSummary: "Mock enhanced summary",
		Insights:        []string{"Mock insight"},
	}, nil
}

func (m *MockBackend) defaultBasicSummary(ctx context.Context, documentID string) (*docapi.BasicSummary, error) {
	return &docapi.BasicSummary{DocumentID: documentID, Summary: "Mock basic summary"}, nil
}

func (m *MockBackend) defaultSuggestions(ctx context.Context, documentID string) (*docapi.Suggestions, error) {
	return &docapi.Suggestions{
		DocumentID:  documentID,
		Suggestions: []string{"What is this document about?", "List the key dates."},
	}, nil
}

func (m *MockBackend) defaultChat(ctx context.Context, req docapi.ChatRequest) (*docapi.ChatResponse, error) {
	return &docapi.ChatResponse{
		DocumentID: req.DocumentID,
		Question:   req.Question,
		Answer:     "Mock answer to: " + req.Question,
	}, nil
}

func (m *MockBackend) defaultListDocuments(ctx context.Context) (*docapi.DocumentList, error) {
	docs := TestDocuments()
	return &docapi.DocumentList{Documents: docs, Total: len(docs)}, nil
}

func (m *MockBackend) defaultStats(ctx context.Context) (*docapi.Stats, error) {
	return &docapi.Stats{
		TotalDocuments:        3,
		UploadedFiles:         3,
		Categories:            map[string]int{"report": 1, "invoice": 1},
		AverageProcessingTime: 2.5,
	}, nil
}

func (m *MockBackend) record(name string) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()
}

func (m *MockBackend) EnhancedSummary(ctx context.Context, documentID string) (*docapi.EnhancedSummary, error) {
	m.record("EnhancedSummary")
	return m.EnhancedSummaryFunc(ctx, documentID)
}

func (m *MockBackend) BasicSummary(ctx context.Context, documentID string) (*docapi.BasicSummary, error) {
	m.record("BasicSummary")
	return m.BasicSummaryFunc(ctx, documentID)
}

func (m *MockBackend) Suggestions(ctx context.Context, documentID string) (*docapi.Suggestions, error) {
	m.record("Suggestions")
	return m.SuggestionsFunc(ctx, documentID)
}

func (m *MockBackend) Chat(ctx context.Context, req docapi.ChatRequest) (*docapi.ChatResponse, error) {
	m.record("Chat")
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.ChatFunc(ctx, req)
}

func (m *MockBackend) ListDocuments(ctx context.Context) (*docapi.DocumentList, error) {
	m.record("ListDocuments")
	return m.ListDocumentsFunc(ctx)
}

func (m *MockBackend) Stats(ctx context.Context) (*docapi.Stats, error) {
	m.record("Stats")
	return m.StatsFunc(ctx)
}

// Calls returns how many times the named method was invoked.
func (m *MockBackend) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// ChatRequests returns every chat request received, oldest first.
func (m *MockBackend) ChatRequests() []docapi.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]docapi.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
