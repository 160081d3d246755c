package repository

import (
	"fmt"

	"gorm.io/gorm"

	"convobase/internal/model"
)

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) Create(record *model.UsageRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create usage record failed: %w", err)
	}
	return nil
}

func (r *UsageRepository) ListByConversationID(conversationID uint) ([]model.UsageRecord, error) {
	var records []model.UsageRecord
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list usage records failed: %w", err)
	}
	return records, nil
}
