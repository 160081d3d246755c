package model

import "time"

// Document is an immutable named text blob owned by a user. Only inline
// raw text is supported; StoragePath is reserved for future binary uploads.
type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	SourceType  string    `gorm:"size:50" json:"source_type,omitempty"`
	StoragePath string    `gorm:"size:500" json:"storage_path,omitempty"`
	RawText     string    `gorm:"type:text" json:"raw_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
