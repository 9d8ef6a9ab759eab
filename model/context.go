package model

// SummaryState tracks the sidebar summary section.
type SummaryState int

const (
	SummaryLoading SummaryState = iota
	SummaryReady
	SummaryUnavailable
)

func (s SummaryState) String() string {
	switch s {
	case SummaryLoading:
		return "loading"
	case SummaryReady:
		return "ready"
	case SummaryUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// SessionContext is the read-only side panel state for the open document.
type SessionContext struct {
	DocumentID string
	FileName   string

	Summary         SummaryState
	EnhancedSummary string
	OriginalSummary string
	Insights        []string

	Suggestions       []string
	SuggestionsLoaded bool
}

// Suggestion returns the n-th (1-based) suggestion, or "" if there is none.
func (c *SessionContext) Suggestion(n int) string {
	if n < 1 || n > len(c.Suggestions) {
		return ""
	}
	return c.Suggestions[n-1]
}
