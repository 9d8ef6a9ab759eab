package docapi

// HistoryEntry is one element of conversation_history. A user turn fills
// Question, an assistant turn fills Answer.
type HistoryEntry struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type ChatRequest struct {
	DocumentID          string         `json:"document_id"`
	Question            string         `json:"question"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
}

type ChatResponse struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Timestamp  string `json:"timestamp"`
}

// EnhancedSummary is the richer AI summary with extracted insights.
type EnhancedSummary struct {
	DocumentID      string   `json:"document_id"`
	OriginalSummary string   `json:"original_summary"`
	EnhancedSummary string   `json:"enhanced_summary"`
	Insights        []string `json:"insights"`
}

type BasicSummary struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	Summary      string `json:"summary"`
	SummaryType  string `json:"summary_type"`
	TextLength   int    `json:"text_length"`
}

type Suggestions struct {
	DocumentID   string   `json:"document_id"`
	DocumentType string   `json:"document_type"`
	Suggestions  []string `json:"suggestions"`
}

type Classification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Document is a processed document as listed by the backend. Only
// DocumentID and FileName are guaranteed; the rest is best effort.
type Document struct {
	DocumentID          string          `json:"document_id"`
	FileName            string          `json:"file_name"`
	FileSize            int64           `json:"file_size"`
	Classification      *Classification `json:"classification,omitempty"`
	EntityCount         int             `json:"entity_count"`
	TextLength          int             `json:"text_length"`
	ProcessingTimestamp string          `json:"processing_timestamp"`
	Summary             string          `json:"summary"`
}

// Category returns the classification category or "unknown".
func (d Document) Category() string {
	if d.Classification == nil || d.Classification.Category == "" {
		return "unknown"
	}
	return d.Classification.Category
}

type DocumentList struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}

type Stats struct {
	TotalDocuments        int            `json:"total_documents"`
	UploadedFiles         int            `json:"uploaded_files"`
	Categories            map[string]int `json:"categories"`
	AverageProcessingTime float64        `json:"average_processing_time"`
}

type SearchResult struct {
	DocumentID     string          `json:"document_id"`
	FileName       string          `json:"file_name"`
	Summary        string          `json:"summary"`
	Classification *Classification `json:"classification,omitempty"`
	Similarity     float64         `json:"similarity"`
	Rank           int             `json:"rank"`
}

type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Version string `json:"version"`
}
