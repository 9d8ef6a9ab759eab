package docapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{"default", "", "http://localhost:8000", false},
		{"trailing slash trimmed", "http://docs.local:9000/", "http://docs.local:9000", false},
		{"missing scheme", "docs.local", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, time.Second)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.BaseURL())
		})
	}
}

func TestChat_SendsWindowAndHeaders(t *testing.T) {
	var got ChatRequest
	var requestID string

	r := chi.NewRouter()
	r.Post("/api/v1/documents/{id}/chat", func(w http.ResponseWriter, req *http.Request) {
		requestID = req.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{
			"document_id": chi.URLParam(req, "id"),
			"question":    got.Question,
			"answer":      "42",
			"timestamp":   "2026-01-01T00:00:00",
		})
	})
	client := newTestClient(t, r)

	resp, err := client.Chat(context.Background(), ChatRequest{
		DocumentID: "doc-1",
		Question:   "What is it?",
		ConversationHistory: []HistoryEntry{
			{Question: "Hi"},
			{Answer: "Hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "42", resp.Answer)
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, "What is it?", got.Question)
	assert.Equal(t, []HistoryEntry{{Question: "Hi"}, {Answer: "Hello"}}, got.ConversationHistory)
	assert.Len(t, requestID, 36)
}

func TestChat_EmptyHistoryIsArray(t *testing.T) {
	var raw map[string]json.RawMessage

	r := chi.NewRouter()
	r.Post("/api/v1/documents/{id}/chat", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&raw))
		writeJSON(w, http.StatusOK, map[string]any{"answer": "ok"})
	})
	client := newTestClient(t, r)

	_, err := client.Chat(context.Background(), ChatRequest{DocumentID: "doc-1", Question: "q"})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw["conversation_history"]))
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", http.StatusTooManyRequests, `{"detail":"rate limited"}`, "rate limited"},
		{
			"validation detail",
			http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","question"],"msg":"field required"},{"msg":"too short"}]}`,
			"field required; too short",
		},
		{"no detail", http.StatusInternalServerError, `internal error`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Post("/api/v1/documents/{id}/chat", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			client := newTestClient(t, r)

			_, err := client.Chat(context.Background(), ChatRequest{DocumentID: "doc-1", Question: "q"})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, ErrorDetail(err))
		})
	}
}

func TestErrorDetail_NonAPIError(t *testing.T) {
	assert.Equal(t, "", ErrorDetail(errors.New("boom")))
	assert.Equal(t, "", ErrorDetail(nil))
}

func TestSummaries(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/documents/{id}/summary", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") == "empty" {
			writeJSON(w, http.StatusOK, map[string]any{"enhanced_summary": ""})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"document_id":      chi.URLParam(req, "id"),
			"original_summary": "short",
			"enhanced_summary": "long",
			"insights":         []string{"a", "b"},
		})
	})
	r.Get("/api/v1/summary/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"summary": "X", "document_name": "report.pdf"})
	})
	client := newTestClient(t, r)
	ctx := context.Background()

	enhanced, err := client.EnhancedSummary(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "long", enhanced.EnhancedSummary)
	assert.Equal(t, []string{"a", "b"}, enhanced.Insights)

	_, err = client.EnhancedSummary(ctx, "empty")
	assert.ErrorIs(t, err, ErrMalformedResponse)

	basic, err := client.BasicSummary(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "X", basic.Summary)
}

func TestMalformedBody(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/chat-suggestions/{id}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"suggestions": "not a list"`))
	})
	client := newTestClient(t, r)

	_, err := client.Suggestions(context.Background(), "doc-1")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestRequestTimeout(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/chat-suggestions/{id}", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-req.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.Suggestions(context.Background(), "doc-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDocumentsStatsSearch(t *testing.T) {
	var gotQuery, gotK string

	r := chi.NewRouter()
	r.Get("/api/v1/documents", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"documents": []map[string]any{
				{"document_id": "d1", "file_name": "a.pdf", "classification": map[string]any{"category": "invoice"}},
				{"document_id": "d2", "file_name": "b.txt"},
			},
			"total": 2,
		})
	})
	r.Get("/api/v1/documents/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"file_name": "a.pdf"})
	})
	r.Get("/api/v1/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"total_documents":         2,
			"uploaded_files":          3,
			"categories":              map[string]int{"invoice": 1},
			"average_processing_time": 1.5,
		})
	})
	r.Get("/api/v1/search", func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.Query().Get("query")
		gotK = req.URL.Query().Get("k")
		writeJSON(w, http.StatusOK, map[string]any{
			"query":         gotQuery,
			"results":       []map[string]any{{"document_id": "d1", "file_name": "a.pdf", "similarity": 0.9, "rank": 1}},
			"total_results": 1,
		})
	})
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "app": "docs", "version": "1.0"})
	})
	client := newTestClient(t, r)
	ctx := context.Background()

	list, err := client.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list.Documents, 2)
	assert.Equal(t, "invoice", list.Documents[0].Category())
	assert.Equal(t, "unknown", list.Documents[1].Category())

	doc, err := client.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.DocumentID)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 1, stats.Categories["invoice"])

	results, err := client.Search(ctx, "  net terms ", 3)
	require.NoError(t, err)
	assert.Equal(t, "net terms", gotQuery)
	assert.Equal(t, "3", gotK)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "a.pdf", results.Results[0].FileName)

	_, err = client.Search(ctx, "   ", 3)
	assert.Error(t, err)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
}
