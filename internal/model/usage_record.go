package model

import "time"

// UsageRecord is one row of token accounting, written asynchronously by the
// usage worker from turn events.
type UsageRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ConversationID   uint      `gorm:"not null;index" json:"conversation_id"`
	MessageID        uint      `gorm:"not null" json:"message_id"`
	PromptTokens     int       `gorm:"not null" json:"prompt_tokens"`
	CompletionTokens int       `gorm:"not null" json:"completion_tokens"`
	CreatedAt        time.Time `json:"created_at"`
}
