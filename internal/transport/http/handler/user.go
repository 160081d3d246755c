package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"convobase/internal/app"
	"convobase/internal/platform/logger"
	"convobase/internal/transport/http/response"
)

type UserHandler struct {
	userService *app.UserService
	log         *logger.Logger
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
}

func NewUserHandler(userService *app.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid request payload")
		return
	}

	user, err := h.userService.CreateUser(app.CreateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid user id")
		return
	}

	user, svcErr := h.userService.GetUser(uint(id))
	if svcErr != nil {
		writeServiceError(c, h.log, svcErr)
		return
	}

	c.JSON(http.StatusOK, user)
}
