package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"docchat/docapi"
)

// DocumentCache keeps the last document list fetched from the backend so
// the picker can still show something while the server is unreachable.
// Chat transcripts are never stored here.
type DocumentCache struct {
	db *sql.DB
}

func NewDocumentCache(dataDir string) (*DocumentCache, error) {
	dbPath := filepath.Join(dataDir, "documents.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cache := &DocumentCache{db: db}

	if err := cache.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cache, nil
}

func (dc *DocumentCache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		document_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		file_size INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		confidence REAL NOT NULL DEFAULT 0,
		entity_count INTEGER NOT NULL DEFAULT 0,
		text_length INTEGER NOT NULL DEFAULT 0,
		processed_at TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_documents_position ON documents(position);

	CREATE TABLE IF NOT EXISTS cache_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := dc.db.Exec(schema)
	return err
}

// Replace swaps the cached list for docs in one transaction, preserving the
// server's order.
func (dc *DocumentCache) Replace(ctx context.Context, docs []docapi.Document, fetchedAt time.Time) error {
	tx, err := dc.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO documents
			(document_id, position, file_name, file_size, category, confidence, entity_count, text_length, processed_at, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		if doc.DocumentID == "" {
			continue
		}
		category, confidence := "", 0.0
		if doc.Classification != nil {
			category = doc.Classification.Category
			confidence = doc.Classification.Confidence
		}
		if _, err := stmt.ExecContext(ctx,
			doc.DocumentID, i, doc.FileName, doc.FileSize, category, confidence,
			doc.EntityCount, doc.TextLength, doc.ProcessingTimestamp, doc.Summary,
		); err != nil {
			return fmt.Errorf("failed to cache document %s: %w", doc.DocumentID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_meta (key, value) VALUES ('fetched_at', ?)`,
		fetchedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to record fetch time: %w", err)
	}

	return tx.Commit()
}

// List returns the cached documents in server order.
func (dc *DocumentCache) List(ctx context.Context) ([]docapi.Document, error) {
	rows, err := dc.db.QueryContext(ctx, `
		SELECT document_id, file_name, file_size, category, confidence, entity_count, text_length, processed_at, summary
		FROM documents
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []docapi.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Get returns one cached document, or nil if it is not cached.
func (dc *DocumentCache) Get(ctx context.Context, documentID string) (*docapi.Document, error) {
	row := dc.db.QueryRowContext(ctx, `
		SELECT document_id, file_name, file_size, category, confidence, entity_count, text_length, processed_at, summary
		FROM documents
		WHERE document_id = ?`, documentID)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FetchedAt reports when the cached list was last replaced. The zero time
// means the cache has never been filled.
func (dc *DocumentCache) FetchedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := dc.db.QueryRowContext(ctx, `SELECT value FROM cache_meta WHERE key = 'fetched_at'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read fetch time: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse fetch time: %w", err)
	}
	return t, nil
}

func (dc *DocumentCache) Close() error {
	return dc.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (docapi.Document, error) {
	var doc docapi.Document
	var category string
	var confidence float64

	err := s.Scan(
		&doc.DocumentID, &doc.FileName, &doc.FileSize, &category, &confidence,
		&doc.EntityCount, &doc.TextLength, &doc.ProcessingTimestamp, &doc.Summary,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doc, err
		}
		return doc, fmt.Errorf("failed to scan document: %w", err)
	}

	if category != "" {
		doc.Classification = &docapi.Classification{Category: category, Confidence: confidence}
	}
	return doc, nil
}
