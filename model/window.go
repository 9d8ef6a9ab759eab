package model

import "docchat/docapi"

// DefaultWindowSize is how many prior turns accompany each question.
const DefaultWindowSize = 10

type HistoryEntry = docapi.HistoryEntry

// ConversationWindow reduces the most recent size user/assistant turns of
// log to history entries. Entries with neither a question nor an answer are
// dropped. A size <= 0 means DefaultWindowSize.
func ConversationWindow(log []Message, size int) []HistoryEntry {
	if size <= 0 {
		size = DefaultWindowSize
	}

	turns := make([]Message, 0, len(log))
	for _, msg := range log {
		if msg.IsConversational() {
			turns = append(turns, msg)
		}
	}
	if len(turns) > size {
		turns = turns[len(turns)-size:]
	}

	window := make([]HistoryEntry, 0, len(turns))
	for _, msg := range turns {
		var entry HistoryEntry
		if msg.Kind == KindUser {
			entry.Question = msg.Content
		} else {
			entry.Answer = msg.Content
		}
		if entry.Question == "" && entry.Answer == "" {
			continue
		}
		window = append(window, entry)
	}
	return window
}
