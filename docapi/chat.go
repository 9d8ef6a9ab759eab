package docapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// EnhancedSummary fetches the AI-enhanced summary. An empty
// enhanced_summary is reported as ErrMalformedResponse so callers can fall
// back to BasicSummary.
func (c *Client) EnhancedSummary(ctx context.Context, documentID string) (*EnhancedSummary, error) {
	var resp EnhancedSummary
	if err := c.get(ctx, "/documents/"+url.PathEscape(documentID)+"/summary", nil, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.EnhancedSummary) == "" {
		return nil, fmt.Errorf("%w: enhanced_summary is empty", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *Client) BasicSummary(ctx context.Context, documentID string) (*BasicSummary, error) {
	var resp BasicSummary
	if err := c.get(ctx, "/summary/"+url.PathEscape(documentID), nil, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return nil, fmt.Errorf("%w: summary is empty", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *Client) Suggestions(ctx context.Context, documentID string) (*Suggestions, error) {
	var resp Suggestions
	if err := c.get(ctx, "/chat-suggestions/"+url.PathEscape(documentID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat sends one question with its conversation window. A missing answer is
// not an error here; the session decides how to present it.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []HistoryEntry{}
	}

	var resp ChatResponse
	if err := c.post(ctx, "/documents/"+url.PathEscape(req.DocumentID)+"/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
