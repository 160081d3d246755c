package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"convobase/internal/app"
	"convobase/internal/platform/logger"
	"convobase/internal/transport/http/response"
)

type ConversationHandler struct {
	conversationService *app.ConversationService
	log                 *logger.Logger
}

type CreateConversationRequest struct {
	UserID       uint   `json:"user_id" binding:"required,gt=0"`
	Mode         string `json:"mode" binding:"required"`
	Title        string `json:"title"`
	FirstMessage string `json:"first_message" binding:"required"`
	DocumentIDs  []uint `json:"document_ids"`
}

type AppendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewConversationHandler(conversationService *app.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService, log: log}
}

// Create starts a conversation with the first user message and returns the
// full transcript, including the generated assistant reply.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	conversation, err := h.conversationService.CreateConversation(c.Request.Context(), app.CreateConversationInput{
		UserID:       req.UserID,
		Mode:         req.Mode,
		Title:        req.Title,
		FirstMessage: req.FirstMessage,
		DocumentIDs:  req.DocumentIDs,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

// AppendMessage persists a user message; the assistant reply is generated as
// a side effect and only visible on re-fetch.
func (h *ConversationHandler) AppendMessage(c *gin.Context) {
	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || conversationID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid conversation id")
		return
	}

	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	message, svcErr := h.conversationService.AppendMessage(c.Request.Context(), app.AppendMessageInput{
		ConversationID: uint(conversationID),
		Content:        req.Content,
	})
	if svcErr != nil {
		writeServiceError(c, h.log, svcErr)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *ConversationHandler) ListForUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid user id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, svcErr := h.conversationService.ListConversations(uint(userID), limit, offset)
	if svcErr != nil {
		writeServiceError(c, h.log, svcErr)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || conversationID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid conversation id")
		return
	}

	conversation, svcErr := h.conversationService.GetConversation(c.Request.Context(), uint(conversationID))
	if svcErr != nil {
		writeServiceError(c, h.log, svcErr)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || conversationID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid conversation id")
		return
	}

	if svcErr := h.conversationService.DeleteConversation(c.Request.Context(), uint(conversationID)); svcErr != nil {
		writeServiceError(c, h.log, svcErr)
		return
	}

	c.Status(http.StatusNoContent)
}
