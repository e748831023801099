// Package models defines core data structures shared across the pipeline:
// chunks, conversation turns, employee profiles, and retrieval results.
package models

// ChunkMetadata records where a chunk came from in the source document.
type ChunkMetadata struct {
	Page   int `json:"page" db:"page"`     // 1-based page number in the source document
	Offset int `json:"offset" db:"offset"` // rune offset of the chunk within its page
}

// Chunk is a bounded span of source-document text prepared for embedding.
// Chunks are immutable once created; ordering within a document is insertion order.
type Chunk struct {
	ID       string        `json:"id" db:"id"`
	Text     string        `json:"text" db:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ScoredChunk is a chunk paired with its similarity score for one query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"` // cosine similarity via normalized dot product
}

// RetrievalResult is the ranked top-K chunk set for one query. Recomputed per
// query, never persisted.
type RetrievalResult struct {
	Query  string        `json:"query"`
	Chunks []ScoredChunk `json:"chunks"`
}

// Role tags a conversation turn as coming from the user or the assistant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationTurn is one entry in the append-only conversation log.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// EmployeeProfile is a synthetic employee record generated once per session
// and immutable for the session lifetime.
type EmployeeProfile struct {
	EmployeeID  string   `json:"employee_id"`
	Name        string   `json:"name"`
	LastName    string   `json:"lastname"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	Position    string   `json:"position"`
	Department  string   `json:"department"`
	Skills      []string `json:"skills"`
	Location    string   `json:"location"`
	HireDate    string   `json:"hire_date"` // YYYY-MM-DD
	Supervisor  string   `json:"supervisor"`
	Salary      float64  `json:"salary"`
}
