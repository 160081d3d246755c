package model

import "time"

// TurnEvent is emitted after an assistant reply has been persisted. The
// usage worker consumes these to write token accounting rows.
type TurnEvent struct {
	ConversationID   uint      `json:"conversation_id"`
	UserMessageID    uint      `json:"user_message_id"`
	AssistantMsgID   uint      `json:"assistant_message_id"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	CompletedAt      time.Time `json:"completed_at"`
}
