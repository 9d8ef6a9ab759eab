package model

import "time"

// Kind classifies a turn in the transcript.
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindError     Kind = "error"
	KindSystem    Kind = "system" // informational; not rendered, not sent as history
)

// Message is one turn. Messages are never edited after they are appended.
type Message struct {
	Kind      Kind
	Content   string
	CreatedAt time.Time
}

// IsConversational reports whether the turn belongs to the question/answer
// exchange (user or assistant).
func (m Message) IsConversational() bool {
	return m.Kind == KindUser || m.Kind == KindAssistant
}
