package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/docapi"
	"docchat/model/testutil"
)

func TestAskQuestion(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.ChatFunc = func(ctx context.Context, req docapi.ChatRequest) (*docapi.ChatResponse, error) {
		return &docapi.ChatResponse{Answer: "42"}, nil
	}

	var out bytes.Buffer
	err := askQuestion(context.Background(), &out, backend, testutil.TestDocument(), "What is it?", 10, false)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out.String())

	requests := backend.ChatRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, "doc-123", requests[0].DocumentID)
	assert.Equal(t, "What is it?", requests[0].Question)
	assert.Empty(t, requests[0].ConversationHistory)
}

func TestAskQuestion_WithSummary(t *testing.T) {
	var out bytes.Buffer
	err := askQuestion(context.Background(), &out, testutil.NewMockBackend(), testutil.TestDocument(), "Who signed it?", 10, true)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "== quarterly-report.pdf ==")
	assert.Contains(t, text, "Mock enhanced summary")
	assert.Contains(t, text, "  - Mock insight")
	assert.Contains(t, text, "Mock answer to: Who signed it?")
}

func TestAskQuestion_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{"server detail", &docapi.APIError{StatusCode: 429, Detail: "rate limited"}, "rate limited"},
		{"plain error", errors.New("connection refused"), "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewMockBackend()
			backend.ChatFunc = func(ctx context.Context, req docapi.ChatRequest) (*docapi.ChatResponse, error) {
				return nil, tt.err
			}

			var out bytes.Buffer
			err := askQuestion(context.Background(), &out, backend, testutil.TestDocument(), "What is it?", 10, false)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Empty(t, out.String())
		})
	}
}

func TestAskQuestion_BlankQuestion(t *testing.T) {
	backend := testutil.NewMockBackend()
	err := askQuestion(context.Background(), &bytes.Buffer{}, backend, testutil.TestDocument(), "   ", 10, false)
	require.Error(t, err)
	assert.Equal(t, 0, backend.Calls("Chat"))
}
