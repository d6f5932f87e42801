package domain

import "time"

// Selection identifies what the conversation is scoped to: the active
// backend project and the last ingested file within it. ActiveFileID is only
// meaningful relative to ProjectID.
type Selection struct {
	ProjectID    string `json:"project_id"`
	ActiveFileID string `json:"active_file_id"`
}

// Message represents a chat message in the session transcript
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Message role constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Source is a chunk citation attached to an assistant message
type Source struct {
	Text       string `json:"text"`
	FileID     string `json:"file_id"`
	ChunkIndex int    `json:"chunk_index"`
}

// ChatRequest is the request to submit a question
type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

// ChatResponse is the response to a submitted question
type ChatResponse struct {
	Message *Message `json:"message"`
}

// SessionState is the aggregate view of the session for the UI
type SessionState struct {
	Selection   Selection       `json:"selection"`
	Files       []*UploadedFile `json:"files"`
	ChatBusy    bool            `json:"chat_busy"`
	IngestBusy  bool            `json:"ingest_busy"`
	LastError   string          `json:"last_error,omitempty"`
	IngestError string          `json:"ingest_error,omitempty"`
}
