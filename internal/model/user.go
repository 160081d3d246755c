package model

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FullName  string    `gorm:"size:255" json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Conversations []Conversation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Documents     []Document     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
