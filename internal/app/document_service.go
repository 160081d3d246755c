package app

import (
	"strings"

	"convobase/internal/model"
	"convobase/internal/repository"
)

type DocumentService struct {
	docRepo  *repository.DocumentRepository
	userRepo *repository.UserRepository
}

type CreateDocumentInput struct {
	UserID     uint
	Name       string
	SourceType string
	RawText    string
}

func NewDocumentService(docRepo *repository.DocumentRepository, userRepo *repository.UserRepository) *DocumentService {
	return &DocumentService{
		docRepo:  docRepo,
		userRepo: userRepo,
	}
}

func (s *DocumentService) CreateDocument(input CreateDocumentInput) (*model.Document, error) {
	if input.UserID == 0 || strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	sourceType := strings.TrimSpace(input.SourceType)
	if sourceType == "" {
		sourceType = "upload"
	}

	doc := &model.Document{
		UserID:     input.UserID,
		Name:       strings.TrimSpace(input.Name),
		SourceType: sourceType,
		RawText:    input.RawText,
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(userID uint) ([]model.Document, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.docRepo.ListByUserID(userID)
}

func (s *DocumentService) GetDocument(id uint) (*model.Document, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	doc, err := s.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}
