package domain

// MessageType tells who authored a chat message.
type MessageType string

const (
	MessageUser MessageType = "user"
	MessageAI   MessageType = "ai"
)

// ChatMessage is one transcript entry. IDs strictly increase within a session.
type ChatMessage struct {
	ID        int64       `json:"id"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp string      `json:"timestamp"`
}
