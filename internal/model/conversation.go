package model

import (
	"strings"
	"time"
)

// Modes that enable retrieval-augmented context assembly. Any other mode
// string is accepted and treated as ungrounded.
const (
	ModeGrounded = "grounded"
	ModeRAG      = "rag"
)

type Conversation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Mode       string    `gorm:"size:50;not null;default:open" json:"mode"`
	Title      string    `gorm:"size:255" json:"title,omitempty"`
	IsArchived bool      `gorm:"not null;default:false" json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Messages  []Message              `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	Documents []ConversationDocument `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// IsGrounded reports whether the conversation mode enables context assembly.
func (c *Conversation) IsGrounded() bool {
	mode := strings.ToLower(c.Mode)
	return mode == ModeGrounded || mode == ModeRAG
}

// ConversationDocument links a conversation to a document. A given pair
// appears at most once.
type ConversationDocument struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ConversationID uint `gorm:"not null;uniqueIndex:uq_conversation_document" json:"conversation_id"`
	DocumentID     uint `gorm:"not null;uniqueIndex:uq_conversation_document" json:"document_id"`
}
