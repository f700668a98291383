package domain

import "time"

// Message kinds.
const (
	MessageKindUser   = "user"
	MessageKindSystem = "system"
	MessageKindBot    = "bot"
	MessageKindAI     = "ai"
)

// Message is one chat utterance. Immutable once created; the ID is assigned
// monotonically so receivers can de-duplicate across delivery paths.
type Message struct {
	ID        int64     `json:"id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"type"`
}
