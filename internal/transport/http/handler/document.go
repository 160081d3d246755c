package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"convobase/internal/app"
	"convobase/internal/platform/logger"
	"convobase/internal/transport/http/response"
)

type DocumentHandler struct {
	documentService *app.DocumentService
	log             *logger.Logger
}

type CreateDocumentRequest struct {
	UserID     uint   `json:"user_id" binding:"required,gt=0"`
	Name       string `json:"name" binding:"required"`
	SourceType string `json:"source_type"`
	RawText    string `json:"raw_text"`
}

func NewDocumentHandler(documentService *app.DocumentService, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, log: log}
}

func (h *DocumentHandler) Create(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	doc, err := h.documentService.CreateDocument(app.CreateDocumentInput{
		UserID:     req.UserID,
		Name:       req.Name,
		SourceType: req.SourceType,
		RawText:    req.RawText,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid or missing user_id")
		return
	}

	docs, svcErr := h.documentService.ListDocuments(uint(userID))
	if svcErr != nil {
		writeServiceError(c, h.log, svcErr)
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid document id")
		return
	}

	doc, svcErr := h.documentService.GetDocument(uint(id))
	if svcErr != nil {
		writeServiceError(c, h.log, svcErr)
		return
	}

	c.JSON(http.StatusOK, doc)
}
