package model

import "time"

// Role is the closed set of message authors.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a conversation transcript. OrderIndex is the
// 1-based position assigned as count-of-existing-messages + 1 at write time;
// the composite unique index rejects concurrent appends that would reuse a
// slot instead of silently duplicating it.
type Message struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ConversationID   uint      `gorm:"not null;uniqueIndex:uq_message_order" json:"conversation_id"`
	Role             Role      `gorm:"size:20;not null" json:"role"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	OrderIndex       int       `gorm:"not null;uniqueIndex:uq_message_order" json:"order_index"`
	PromptTokens     *int      `json:"prompt_tokens,omitempty"`
	CompletionTokens *int      `json:"completion_tokens,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
