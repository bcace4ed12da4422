package models

import "time"

// ChatSession groups chat messages for one owner.
type ChatSession struct {
	ID        string    `json:"id"` // uuid
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is one turn of a chat session.
type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"` // 'user' | 'assistant'
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatReply is the service response to one chat message.
type ChatReply struct {
	Status string                 `json:"status"` // saved | clarify | rejected | answered
	Reply  string                 `json:"reply"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}
