package model

// Every message carries the ID of the session that issued it. The app drops
// messages whose session has been closed or replaced.

type SummaryLoadedMsg struct {
	SessionID string
	Summary   SummaryResult
}

type SuggestionsLoadedMsg struct {
	SessionID   string
	Suggestions []string
}

type ChatResultMsg struct {
	SessionID string
	Question  string
	Answer    string
	Err       error
}
