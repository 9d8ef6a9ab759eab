package testutil

import (
	"docchat/docapi"
)

// TestDocument returns a resolved document as the picker would hand it over.
func TestDocument() docapi.Document {
	return docapi.Document{
		DocumentID: "doc-123",
		FileName:   "quarterly-report.pdf",
		Classification: &docapi.Classification{
			Category:   "report",
			Confidence: 0.93,
		},
	}
}

// TestDocuments returns a small document list for picker and cache tests.
func TestDocuments() []docapi.Document {
	return []docapi.Document{
		TestDocument(),
		{DocumentID: "doc-456", FileName: "invoice-0042.pdf", Classification: &docapi.Classification{Category: "invoice"}},
		{DocumentID: "doc-789", FileName: "meeting-notes.txt"},
	}
}
