package models

import "time"

// Question represents the incoming chat request from the frontend
type Question struct {
	Question string `json:"question"` // The user's question text
}

// ReferenceFile points at the original artifact an answer was grounded on
type ReferenceFile struct {
	URL  string `json:"url"`  // Public URL under the /pdfs/ mount
	Name string `json:"name"` // Original artifact filename
}

// ChatAnswer represents the response sent back to the frontend.
// ReferenceFile is null when the answer was not grounded on any document.
type ChatAnswer struct {
	Answer        string         `json:"answer"`
	ReferenceFile *ReferenceFile `json:"reference_file"`
}

// TranscriptEntry is one question/answer exchange kept in the in-memory
// transcript. The transcript is never fed back into generation; it exists
// for introspection only.
type TranscriptEntry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// ChatMessage represents a single message in an LM Studio conversation
type ChatMessage struct {
	Role    string `json:"role"`    // "user", "assistant", or "system"
	Content string `json:"content"` // The message content
}
