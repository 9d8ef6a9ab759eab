package cmd

import (
	"bytes"
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

type healthyBackend struct {
	*testutil.MockBackend
}

func (healthyBackend) Health(ctx context.Context) (*docapi.HealthResponse, error) {
	return &docapi.HealthResponse{Status: "healthy", App: "DocuAI", Version: "1.2.0"}, nil
}

func TestListDocuments(t *testing.T) {
	var out bytes.Buffer
	backend := healthyBackend{testutil.NewMockBackend()}

	require.NoError(t, listDocuments(context.Background(), &out, backend, nil))

	text := out.String()
	assert.Contains(t, text, "DocuAI 1.2.0 (healthy)")
	assert.Contains(t, text, "quarterly-report.pdf")
	assert.Contains(t, text, "invoice")
	assert.Contains(t, text, "meeting-notes.txt")
	assert.Contains(t, text, "3 documents, 3 uploaded files, avg processing 2.5s")
	assert.Contains(t, text, "Categories: invoice 1, report 1")
}

func TestListDocuments_StatsFailureIsNotFatal(t *testing.T) {
	var out bytes.Buffer
	backend := testutil.NewMockBackend()
	backend.StatsFunc = func(ctx context.Context) (*docapi.Stats, error) {
		return nil, errors.New("stats offline")
	}

	require.NoError(t, listDocuments(context.Background(), &out, backend, nil))
	assert.Contains(t, out.String(), "quarterly-report.pdf")
	assert.NotContains(t, out.String(), "Categories")
}

func TestListDocuments_CacheFallback(t *testing.T) {
	ctx := context.Background()
	cache, err := storage.NewDocumentCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	backend := testutil.NewMockBackend()

	// First run fills the cache.
	require.NoError(t, listDocuments(ctx, &bytes.Buffer{}, backend, cache))

	backend.ListDocumentsFunc = func(ctx context.Context) (*docapi.DocumentList, error) {
		return nil, errors.New("connection refused")
	}
	var out bytes.Buffer
	require.NoError(t, listDocuments(ctx, &out, backend, cache))
	assert.Contains(t, out.String(), "Server unreachable. Cached list from")
	assert.Contains(t, out.String(), "invoice-0042.pdf")
}

func TestListDocuments_FailsWithoutCache(t *testing.T) {
	backend := testutil.NewMockBackend()
	backend.ListDocumentsFunc = func(ctx context.Context) (*docapi.DocumentList, error) {
		return nil, errors.New("connection refused")
	}

	err := listDocuments(context.Background(), &bytes.Buffer{}, backend, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list documents")
}

func TestWriteDocumentTable_Empty(t *testing.T) {
	var out bytes.Buffer
	writeDocumentTable(&out, nil)
	assert.Equal(t, "No processed documents yet.\n", out.String())
}

func TestListDocuments_UpdatesCache(t *testing.T) {
	ctx := context.Background()
	cache, err := storage.NewDocumentCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	before := time.Now().Add(-time.Second)
	require.NoError(t, listDocuments(ctx, &bytes.Buffer{}, testutil.NewMockBackend(), cache))

	fetchedAt, err := cache.FetchedAt(ctx)
	require.NoError(t, err)
	assert.True(t, fetchedAt.After(before))
}
