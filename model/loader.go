package model

import (
	"context"
	"strings"

	"docchat/config"
	"docchat/docapi"
)

// Backend is the subset of the document API a chat session needs.
// *docapi.Client satisfies it.
type Backend interface {
	EnhancedSummary(ctx context.Context, documentID string) (*docapi.EnhancedSummary, error)
	BasicSummary(ctx context.Context, documentID string) (*docapi.BasicSummary, error)
	Suggestions(ctx context.Context, documentID string) (*docapi.Suggestions, error)
	Chat(ctx context.Context, req docapi.ChatRequest) (*docapi.ChatResponse, error)
}

// SummaryResult is the normalised outcome of LoadSummary. When the basic
// summary was used, EnhancedSummary holds its text and Insights is empty.
type SummaryResult struct {
	State           SummaryState
	EnhancedSummary string
	OriginalSummary string
	Insights        []string
}

// ContextLoader fills the side panel. Its methods never return errors:
// failures are logged and degrade to an empty or unavailable state.
type ContextLoader struct {
	backend Backend
}

func NewContextLoader(backend Backend) *ContextLoader {
	return &ContextLoader{backend: backend}
}

// LoadSummary tries the enhanced summary first and falls back to the basic
// summary on any failure.
func (l *ContextLoader) LoadSummary(ctx context.Context, documentID string) SummaryResult {
	enhanced, err := l.backend.EnhancedSummary(ctx, documentID)
	if err == nil && enhanced != nil && strings.TrimSpace(enhanced.EnhancedSummary) != "" {
		insights := enhanced.Insights
		if insights == nil {
			insights = []string{}
		}
		return SummaryResult{
			State:           SummaryReady,
			EnhancedSummary: enhanced.EnhancedSummary,
			OriginalSummary: enhanced.OriginalSummary,
			Insights:        insights,
		}
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Loader] enhanced summary for %s failed, falling back to basic: %v", documentID, err)
	}

	basic, err := l.backend.BasicSummary(ctx, documentID)
	if err != nil || basic == nil || strings.TrimSpace(basic.Summary) == "" {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Loader] basic summary for %s failed: %v", documentID, err)
		}
		return SummaryResult{State: SummaryUnavailable, Insights: []string{}}
	}

	return SummaryResult{
		State:           SummaryReady,
		EnhancedSummary: basic.Summary,
		Insights:        []string{},
	}
}

// LoadSuggestions returns the suggested prompts, or an empty list.
func (l *ContextLoader) LoadSuggestions(ctx context.Context, documentID string) []string {
	resp, err := l.backend.Suggestions(ctx, documentID)
	if err != nil || resp == nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Loader] suggestions for %s failed: %v", documentID, err)
		}
		return []string{}
	}

	suggestions := make([]string, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}
