package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"convobase/internal/ai"
	"convobase/internal/model"
	"convobase/internal/platform/logger"
	"convobase/internal/repository"
)

const (
	titleMaxChars = 80

	baseSystemPrompt = "You are a helpful assistant inside a backend conversation service. " +
		"Always respond clearly and concisely."
	groundedSystemSuffix = " Use ONLY the information from the provided context when it is relevant. " +
		"If the answer is not in the context, say you are unsure instead of guessing."
)

// TranscriptCache serves the conversation read path. The turn pipeline never
// reads through it; appends only invalidate.
type TranscriptCache interface {
	GetTranscript(ctx context.Context, conversationID uint) ([]model.Message, bool, error)
	SetTranscript(ctx context.Context, conversationID uint, messages []model.Message) error
	DeleteTranscript(ctx context.Context, conversationID uint) error
	MarkDirty(ctx context.Context, conversationID uint) error
	IsDirty(ctx context.Context, conversationID uint) (bool, error)
}

// TurnEventPublisher emits accounting events after a completed turn.
type TurnEventPublisher interface {
	Publish(ctx context.Context, event model.TurnEvent) error
}

type ConversationService struct {
	db        *gorm.DB
	userRepo  *repository.UserRepository
	convRepo  *repository.ConversationRepository
	msgRepo   *repository.MessageRepository
	docRepo   *repository.DocumentRepository
	generator ai.Generator
	cache     TranscriptCache
	publisher TurnEventPublisher
	log       *logger.Logger

	maxHistory      int
	maxContextChars int
}

type CreateConversationInput struct {
	UserID       uint
	Mode         string
	Title        string
	FirstMessage string
	DocumentIDs  []uint
}

type AppendMessageInput struct {
	ConversationID uint
	Content        string
}

type ConversationListItem struct {
	model.Conversation
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

func NewConversationService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	convRepo *repository.ConversationRepository,
	msgRepo *repository.MessageRepository,
	docRepo *repository.DocumentRepository,
	generator ai.Generator,
	cache TranscriptCache,
	publisher TurnEventPublisher,
	log *logger.Logger,
	maxHistory int,
	maxContextChars int,
) *ConversationService {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	if maxContextChars <= 0 {
		maxContextChars = 4000
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ConversationService{
		db:              db,
		userRepo:        userRepo,
		convRepo:        convRepo,
		msgRepo:         msgRepo,
		docRepo:         docRepo,
		generator:       generator,
		cache:           cache,
		publisher:       publisher,
		log:             log,
		maxHistory:      maxHistory,
		maxContextChars: maxContextChars,
	}
}

// CreateConversation persists the conversation, its first user message
// (order index 1), and the document links in one transaction; an unknown
// document id fails the whole creation with nothing persisted. The assistant
// reply is then generated and appended, and the full transcript returned.
func (s *ConversationService) CreateConversation(ctx context.Context, input CreateConversationInput) (*model.Conversation, error) {
	if input.UserID == 0 || strings.TrimSpace(input.FirstMessage) == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, input.UserID)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = clipTitle(input.FirstMessage)
	}

	conversation := &model.Conversation{
		UserID: input.UserID,
		Mode:   input.Mode,
		Title:  title,
	}
	var userMsg model.Message

	err = s.db.Transaction(func(tx *gorm.DB) error {
		convRepo := repository.NewConversationRepository(tx)
		msgRepo := repository.NewMessageRepository(tx)
		docRepo := repository.NewDocumentRepository(tx)

		if err := convRepo.Create(conversation); err != nil {
			return err
		}

		userMsg = model.Message{
			ConversationID: conversation.ID,
			Role:           model.RoleUser,
			Content:        input.FirstMessage,
			OrderIndex:     1,
		}
		if err := msgRepo.Create(&userMsg); err != nil {
			return err
		}

		linked := make(map[uint]struct{}, len(input.DocumentIDs))
		for _, docID := range input.DocumentIDs {
			if _, ok := linked[docID]; ok {
				return fmt.Errorf("%w: document %d", ErrDuplicateLink, docID)
			}
			doc, err := docRepo.GetByID(docID)
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("%w: id %d", ErrDocumentNotFound, docID)
			}
			link := &model.ConversationDocument{
				ConversationID: conversation.ID,
				DocumentID:     docID,
			}
			if err := convRepo.CreateDocumentLink(link); err != nil {
				return err
			}
			linked[docID] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.generateAssistantReply(ctx, conversation, userMsg.ID); err != nil {
		// The user message stays committed; generation failure surfaces to
		// the caller as a request-level error.
		return nil, err
	}

	return s.GetConversation(ctx, conversation.ID)
}

// AppendMessage persists a user message at the next order index, generates
// and persists the assistant reply as a side effect, and returns only the
// user message. Callers re-fetch the conversation to see the reply.
func (s *ConversationService) AppendMessage(ctx context.Context, input AppendMessageInput) (*model.Message, error) {
	if input.ConversationID == 0 || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.convRepo.GetByID(input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: id %d", ErrConversationNotFound, input.ConversationID)
	}

	count, err := s.msgRepo.CountByConversationID(conversation.ID)
	if err != nil {
		return nil, err
	}
	userMsg := &model.Message{
		ConversationID: conversation.ID,
		Role:           model.RoleUser,
		Content:        input.Content,
		OrderIndex:     int(count) + 1,
	}
	if err := s.msgRepo.Create(userMsg); err != nil {
		return nil, err
	}
	if err := s.convRepo.Touch(conversation.ID); err != nil {
		return nil, err
	}
	s.invalidateTranscript(ctx, conversation.ID)

	if _, err := s.generateAssistantReply(ctx, conversation, userMsg.ID); err != nil {
		return nil, err
	}

	return userMsg, nil
}

// generateAssistantReply runs steps 2-7 of the turn pipeline: reload the
// transcript so the just-persisted user message is observed, window history,
// assemble context when the mode qualifies, call the generator outside any
// write transaction, and persist the reply at the next free order index.
func (s *ConversationService) generateAssistantReply(ctx context.Context, conversation *model.Conversation, userMessageID uint) (*model.Message, error) {
	messages, err := s.msgRepo.ListByConversationID(conversation.ID)
	if err != nil {
		return nil, err
	}

	history := buildHistory(messages, s.maxHistory)

	var contextText *string
	if conversation.IsGrounded() {
		docs, err := s.docRepo.ListLinkedToConversation(conversation.ID)
		if err != nil {
			return nil, err
		}
		contextText = assembleContext(lastUserMessage(messages), docs, s.maxContextChars)
	}

	systemPrompt := baseSystemPrompt
	contextStr := ""
	if contextText != nil {
		systemPrompt += groundedSystemSuffix
		contextStr = *contextText
	}

	replyText, usage, err := s.generator.Generate(ctx, history, systemPrompt, contextStr)
	if err != nil {
		return nil, fmt.Errorf("generate reply failed: %w", err)
	}

	count, err := s.msgRepo.CountByConversationID(conversation.ID)
	if err != nil {
		return nil, err
	}
	assistantMsg := &model.Message{
		ConversationID:   conversation.ID,
		Role:             model.RoleAssistant,
		Content:          replyText,
		OrderIndex:       int(count) + 1,
		PromptTokens:     &usage.PromptTokens,
		CompletionTokens: &usage.CompletionTokens,
	}
	if err := s.msgRepo.Create(assistantMsg); err != nil {
		return nil, err
	}
	if err := s.convRepo.Touch(conversation.ID); err != nil {
		return nil, err
	}
	s.invalidateTranscript(ctx, conversation.ID)
	s.publishTurnEvent(ctx, conversation.ID, userMessageID, assistantMsg, usage)

	return assistantMsg, nil
}

// GetConversation returns the conversation with its full transcript in
// order-index order, reading through the transcript cache when it is clean.
func (s *ConversationService) GetConversation(ctx context.Context, id uint) (*model.Conversation, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("%w: id %d", ErrConversationNotFound, id)
	}

	if s.cache != nil {
		if dirty, err := s.cache.IsDirty(ctx, id); err == nil && !dirty {
			if cached, hit, cacheErr := s.cache.GetTranscript(ctx, id); cacheErr == nil && hit {
				conversation.Messages = cached
				return conversation, nil
			}
		}
	}

	messages, err := s.msgRepo.ListByConversationID(id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dirty, err := s.cache.IsDirty(ctx, id); err == nil && !dirty {
			_ = s.cache.SetTranscript(ctx, id, messages)
		}
	}
	conversation.Messages = messages
	return conversation, nil
}

// ListConversations returns non-archived conversations for a user, most
// recently updated first, each annotated with its newest message time.
func (s *ConversationService) ListConversations(userID uint, limit, offset int) ([]ConversationListItem, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}

	conversations, err := s.convRepo.ListByUserID(userID, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]ConversationListItem, 0, len(conversations))
	for _, conv := range conversations {
		lastAt, err := s.msgRepo.LastCreatedAt(conv.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, ConversationListItem{
			Conversation:  conv,
			LastMessageAt: lastAt,
		})
	}
	return items, nil
}

func (s *ConversationService) DeleteConversation(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByID(id)
	if err != nil {
		return err
	}
	if conversation == nil {
		return fmt.Errorf("%w: id %d", ErrConversationNotFound, id)
	}
	if err := s.convRepo.Delete(id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.DeleteTranscript(ctx, id)
	}
	return nil
}

func (s *ConversationService) invalidateTranscript(ctx context.Context, conversationID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkDirty(ctx, conversationID); err != nil {
		s.log.Warn("mark transcript dirty failed", "conversation_id", conversationID, "error", err)
	}
	if err := s.cache.DeleteTranscript(ctx, conversationID); err != nil {
		s.log.Warn("delete cached transcript failed", "conversation_id", conversationID, "error", err)
	}
}

// publishTurnEvent is best effort: a broker outage must not fail a turn that
// is already durable.
func (s *ConversationService) publishTurnEvent(ctx context.Context, conversationID, userMessageID uint, assistantMsg *model.Message, usage ai.Usage) {
	if s.publisher == nil {
		return
	}
	event := model.TurnEvent{
		ConversationID:   conversationID,
		UserMessageID:    userMessageID,
		AssistantMsgID:   assistantMsg.ID,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		CompletedAt:      time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("publish turn event failed", "conversation_id", conversationID, "error", err)
	}
}

func clipTitle(text string) string {
	runes := []rune(text)
	if len(runes) > titleMaxChars {
		return string(runes[:titleMaxChars])
	}
	return text
}
