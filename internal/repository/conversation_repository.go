package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"convobase/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		return fmt.Errorf("create conversation failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) GetByID(id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.First(&conversation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query conversation by id failed: %w", err)
	}
	return &conversation, nil
}

// ListByUserID returns non-archived conversations, most recently updated
// first.
func (r *ConversationRepository) ListByUserID(userID uint, limit, offset int) ([]model.Conversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var conversations []model.Conversation
	err := r.db.
		Where("user_id = ? AND is_archived = ?", userID, false).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return conversations, nil
}

// Touch advances updated_at so a conversation with a fresh message sorts
// first in listings.
func (r *ConversationRepository) Touch(id uint) error {
	err := r.db.Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("touch conversation failed: %w", err)
	}
	return nil
}

// Delete hard-deletes the conversation together with its messages and
// document links.
func (r *ConversationRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&model.ConversationDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Conversation{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete conversation failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) CreateDocumentLink(link *model.ConversationDocument) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("create conversation document link failed: %w", err)
	}
	return nil
}
