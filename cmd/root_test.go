package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/docapi"
	"docchat/model/testutil"
	"docchat/storage"
)

func TestRootFlags(t *testing.T) {
	debug := rootCmd.PersistentFlags().Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "false", debug.DefValue)

	server := rootCmd.PersistentFlags().Lookup("server")
	require.NotNil(t, server)
	assert.Equal(t, "", server.DefValue)

	document := rootCmd.Flags().Lookup("document")
	require.NotNil(t, document)
	assert.Equal(t, "d", document.Shorthand)
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"docs", "search", "ask"} {
		found, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}

type lookupFunc func(ctx context.Context, documentID string) (*docapi.Document, error)

func (f lookupFunc) GetDocument(ctx context.Context, documentID string) (*docapi.Document, error) {
	return f(ctx, documentID)
}

func TestResolveDocument(t *testing.T) {
	ctx := context.Background()
	cache, err := storage.NewDocumentCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	require.NoError(t, cache.Replace(ctx, testutil.TestDocuments(), time.Now()))

	offline := lookupFunc(func(ctx context.Context, id string) (*docapi.Document, error) {
		return nil, errors.New("connection refused")
	})
	online := lookupFunc(func(ctx context.Context, id string) (*docapi.Document, error) {
		return &docapi.Document{DocumentID: id, FileName: "from-server.pdf"}, nil
	})

	tests := []struct {
		name     string
		lookup   documentLookup
		cache    cachedLookup
		id       string
		wantName string
	}{
		{"server wins", online, cache, "doc-456", "from-server.pdf"},
		{"cache when offline", offline, cache, "doc-456", "invoice-0042.pdf"},
		{"id when unknown", offline, cache, "doc-999", "doc-999"},
		{"id without cache", offline, nil, "doc-456", "doc-456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := resolveDocument(ctx, tt.lookup, tt.cache, tt.id)
			assert.Equal(t, tt.id, doc.DocumentID)
			assert.Equal(t, tt.wantName, doc.FileName)
		})
	}
}
