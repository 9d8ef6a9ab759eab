package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/docapi"
	"docchat/model/testutil"
)

func newTestCache(t *testing.T) *DocumentCache {
	t.Helper()
	cache, err := NewDocumentCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestDocumentCache_Empty(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	docs, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	fetchedAt, err := cache.FetchedAt(ctx)
	require.NoError(t, err)
	assert.True(t, fetchedAt.IsZero())

	doc, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDocumentCache_ReplaceAndList(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	fetched := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

	require.NoError(t, cache.Replace(ctx, testutil.TestDocuments(), fetched))

	docs, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "doc-123", docs[0].DocumentID)
	assert.Equal(t, "report", docs[0].Category())
	assert.Equal(t, "invoice-0042.pdf", docs[1].FileName)
	assert.Nil(t, docs[2].Classification)

	got, err := cache.FetchedAt(ctx)
	require.NoError(t, err)
	assert.True(t, fetched.Equal(got))

	doc, err := cache.Get(ctx, "doc-456")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "invoice", doc.Category())
}

func TestDocumentCache_ReplaceDropsStaleEntries(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Replace(ctx, testutil.TestDocuments(), time.Now()))
	require.NoError(t, cache.Replace(ctx, []docapi.Document{
		{DocumentID: "doc-new", FileName: "new.pdf"},
		{FileName: "no-id.pdf"},
	}, time.Now()))

	docs, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-new", docs[0].DocumentID)
}

func TestDocumentCache_PersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cache, err := NewDocumentCache(dir)
	require.NoError(t, err)
	require.NoError(t, cache.Replace(ctx, testutil.TestDocuments(), time.Now()))
	require.NoError(t, cache.Close())

	reopened, err := NewDocumentCache(dir)
	require.NoError(t, err)
	defer reopened.Close()

	docs, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}
