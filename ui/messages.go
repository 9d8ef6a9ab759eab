package ui

import (
	"time"

	"docchat/docapi"
)

type markdownRenderedMsg struct {
	SessionID string
	Index     int
	Width     int
	Rendered  string
}

// openChatMsg asks the app to open a chat for a resolved document.
type openChatMsg struct {
	Document docapi.Document
}

// closeChatMsg asks the app to close the chat with the given session.
type closeChatMsg struct {
	SessionID string
}

type documentsLoadedMsg struct {
	Documents []docapi.Document
	FromCache bool
	FetchedAt time.Time
	Err       error
}

type statsLoadedMsg struct {
	Stats *docapi.Stats
	Err   error
}

type statusClearMsg struct {
	seq int
}
