package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"convobase/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query document by id failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByUserID(userID uint) ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// ListLinkedToConversation returns the documents linked to a conversation in
// link insertion order.
func (r *DocumentRepository) ListLinkedToConversation(conversationID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.
		Joins("JOIN conversation_documents ON conversation_documents.document_id = documents.id").
		Where("conversation_documents.conversation_id = ?", conversationID).
		Order("conversation_documents.id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list linked documents failed: %w", err)
	}
	return docs, nil
}
