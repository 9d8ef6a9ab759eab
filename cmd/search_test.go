package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/docapi"
)

type searchFunc func(ctx context.Context, query string, k int) (*docapi.SearchResponse, error)

func (f searchFunc) Search(ctx context.Context, query string, k int) (*docapi.SearchResponse, error) {
	return f(ctx, query, k)
}

func TestSearchDocuments(t *testing.T) {
	var gotK int
	s := searchFunc(func(ctx context.Context, query string, k int) (*docapi.SearchResponse, error) {
		gotK = k
		return &docapi.SearchResponse{
			Query: query,
			Results: []docapi.SearchResult{
				{
					DocumentID:     "doc-456",
					FileName:       "invoice-0042.pdf",
					Summary:        "Invoice for consulting\nservices, net 30.",
					Classification: &docapi.Classification{Category: "invoice"},
					Similarity:     0.87,
					Rank:           1,
				},
				{DocumentID: "doc-789", FileName: "meeting-notes.txt", Similarity: 0.41},
			},
			TotalResults: 2,
		}, nil
	})

	var out bytes.Buffer
	require.NoError(t, searchDocuments(context.Background(), &out, s, "payment terms", 3))

	assert.Equal(t, 3, gotK)
	text := out.String()
	assert.Contains(t, text, "1. invoice-0042.pdf  [invoice]  87%  (doc-456)")
	assert.Contains(t, text, "   Invoice for consulting services, net 30.")
	assert.Contains(t, text, "2. meeting-notes.txt  [unknown]  41%  (doc-789)")
}

func TestSearchDocuments_NoResults(t *testing.T) {
	s := searchFunc(func(ctx context.Context, query string, k int) (*docapi.SearchResponse, error) {
		return &docapi.SearchResponse{Query: query}, nil
	})

	var out bytes.Buffer
	require.NoError(t, searchDocuments(context.Background(), &out, s, "nothing", 5))
	assert.Equal(t, "No documents match \"nothing\".\n", out.String())
}

func TestSearchDocuments_RejectsBadK(t *testing.T) {
	err := searchDocuments(context.Background(), &bytes.Buffer{}, nil, "q", 0)
	require.Error(t, err)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n b\tc", 10))
	assert.Equal(t, "abcd...", oneLine("abcdefghij", 7))
}
