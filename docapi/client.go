// Package docapi is the HTTP client for the document intelligence backend.
//
// It covers the endpoints the chat session needs (enhanced and basic
// summaries, chat suggestions, chat turns) plus the document list, detail,
// stats and semantic search endpoints used by the picker and the CLI.
// Every call is bounded by the client's request timeout and tagged with an
// X-Request-ID header so backend logs can be correlated with debug.log.
package docapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"docchat/config"
)

const apiPrefix = "/api/v1"

type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultServerURL
	}

	parsedURL, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: scheme and host are required", baseURL)
	}

	return &Client{
		httpClient: &http.Client{},
		baseURL:    parsedURL,
		timeout:    timeout,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Health calls GET /health. Used by the picker status line and `docchat docs`.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, apiPrefix+path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, apiPrefix+path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[docapi] %s %s (%s) failed: %v", method, path, requestID, err)
		}
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[docapi] %s %s (%s) -> %d in %v", method, path, requestID, resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}
