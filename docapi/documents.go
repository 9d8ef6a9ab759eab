package docapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func (c *Client) ListDocuments(ctx context.Context) (*DocumentList, error) {
	var resp DocumentList
	if err := c.get(ctx, "/documents", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return &resp, nil
}

func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	var resp Document
	if err := c.get(ctx, "/documents/"+url.PathEscape(documentID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	if resp.DocumentID == "" {
		resp.DocumentID = documentID
	}
	return &resp, nil
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var resp Stats
	if err := c.get(ctx, "/stats", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &resp, nil
}

// Search runs a semantic search over processed documents. k <= 0 lets the
// server pick its default.
func (c *Client) Search(ctx context.Context, query string, k int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	params := url.Values{}
	params.Set("query", query)
	if k > 0 {
		params.Set("k", strconv.Itoa(k))
	}

	var resp SearchResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	return &resp, nil
}
